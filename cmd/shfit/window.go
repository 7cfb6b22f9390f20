package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-musr/dsp/filter/fir"
	"github.com/cwbudde/algo-musr/dsp/window"
)

var windowTypes = []window.Type{
	window.TypeRectangular,
	window.TypeApodizationWeak,
	window.TypeApodizationMedium,
	window.TypeApodizationStrong,
	window.TypeHann,
	window.TypeKaiser,
}

func newWindowCmd() *cobra.Command {
	var (
		size        int
		attenuation float64
		width       float64
		cutoff      float64
		showTaps    bool
	)
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Print apodization window properties and the RRF Kaiser design",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "window\tsize\tcoherent gain\tENBW [bins]")
			for _, typ := range windowTypes {
				w := window.Generate(typ, size)
				enbw, err := window.EquivalentNoiseBandwidth(w)
				if err != nil {
					return fmt.Errorf("%s: %w", typ, err)
				}
				sum := 0.0
				for _, v := range w {
					sum += v
				}
				fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\n", typ, size, sum/float64(size), enbw)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			taps, err := window.KaiserLength(attenuation, width)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kaiser low pass: %.0f dB, width %.3g: %d taps, beta %.4f\n",
				attenuation, width, taps, window.KaiserBeta(attenuation))

			if cutoff <= 0 {
				return nil
			}
			var lp fir.Lowpass
			if err := lp.Configure(cutoff, attenuation, width); err != nil {
				return err
			}
			f := lp.Filter()
			stopband := (cutoff + width/2) * math.Pi
			fmt.Fprintf(cmd.OutOrStdout(), "cutoff %.3g: order %d, pass band %.3f dB, stop band %.1f dB\n",
				cutoff, f.Order(), f.MagnitudeDB(0), f.StopbandDB(min(stopband, math.Pi), 512))
			if showTaps {
				for i, c := range f.Coefficients() {
					fmt.Fprintf(cmd.OutOrStdout(), "h[%d]\t%.10g\n", i, c)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&size, "size", "n", 1024, "window length in samples")
	cmd.Flags().Float64Var(&attenuation, "attenuation", 60, "stop band attenuation in dB")
	cmd.Flags().Float64Var(&width, "width", 0.2, "transition width as a fraction of π")
	cmd.Flags().Float64Var(&cutoff, "cutoff", 0, "design the low pass for this cutoff as a fraction of Nyquist")
	cmd.Flags().BoolVar(&showTaps, "taps", false, "print the designed coefficients")
	return cmd
}
