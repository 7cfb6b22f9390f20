package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-musr/dsp/spectrum"
	"github.com/cwbudde/algo-musr/dsp/window"
	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/stats/frequency"
)

func newFourierCmd(root *rootOptions) *cobra.Command {
	var (
		index       int
		apodization string
		padding     int
		unitName    string
		magnitude   bool
		phase       bool
		fmin, fmax  float64
	)
	cmd := &cobra.Command{
		Use:   "fourier",
		Short: "Print the spectrum of the lifetime corrected asymmetry of one run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.load(cmd, false)
			if err != nil {
				return err
			}
			r, err := s.run(index)
			if err != nil {
				return err
			}

			if apodization == "" {
				apodization = s.file.Fourier.Apodization
			}
			if apodization == "" {
				apodization = window.TypeRectangular.String()
			}
			apo, err := window.ParseType(apodization)
			if err != nil {
				return err
			}
			if padding == 0 {
				padding = s.file.Fourier.ZeroPadding
			}
			unit, err := musr.ParseRRFUnit(unitName)
			if err != nil {
				return err
			}
			scale := musr.FromAngularFrequency(2*math.Pi, unit)

			settings := s.view
			settings.LifetimeCorrection = true
			settings.RRF = nil
			ds, err := r.ViewDataWith(musr.Values(s.table), settings)
			if err != nil {
				return err
			}

			opts := []spectrum.Option{
				spectrum.WithApodization(apo),
				spectrum.WithZeroPadding(padding),
				spectrum.WithDCRemoval(),
				spectrum.WithUnitScale(scale),
			}
			res, err := spectrum.Transform(ds.Value, ds.DataTimeStep, opts...)
			if err != nil {
				return err
			}
			if f, err := spectrum.MainFrequency(ds.Value, ds.DataTimeStep, opts...); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "# main frequency %.6g %s\n", f, unit)
			}

			values := res.Power()
			column := "power"
			if magnitude {
				values = res.Magnitude()
				column = "magnitude"
			}
			line := frequency.Calculate(values, res.FreqStep, fmin, fmax)
			fmt.Fprintf(cmd.OutOrStdout(), "# line mean %.6g, width %.4g, fwhm %.4g %s\n",
				line.Mean, line.Width, line.FWHM, unit)
			header := "f_" + unit.String() + "\t" + column
			var phases []float64
			if phase {
				phases = spectrum.Phase(res.Bins)
				header += "\tphase_rad"
			}
			return printSeries(cmd, header, len(values), res.Frequency, func(i int) []float64 {
				if phases != nil {
					return []float64{values[i], phases[i]}
				}
				return []float64{values[i]}
			})
		},
	}
	cmd.Flags().IntVarP(&index, "run", "r", 1, "run number, one based")
	cmd.Flags().StringVarP(&apodization, "apodization", "a", "", "none, weak, medium, strong, hann, kaiser")
	cmd.Flags().IntVar(&padding, "zero-padding", 0, "pad to 2^n points")
	cmd.Flags().StringVarP(&unitName, "unit", "u", "MHz", "frequency unit: MHz, Mc/s, G, T")
	cmd.Flags().Float64Var(&fmin, "fmin", 0, "lower bound of the line statistics window")
	cmd.Flags().Float64Var(&fmax, "fmax", 0, "upper bound of the line statistics window, 0 for the whole spectrum")
	cmd.Flags().BoolVar(&magnitude, "magnitude", false, "print |X| instead of |X|^2")
	cmd.Flags().BoolVar(&phase, "phase", false, "add a column with arg(X) in radians")
	return cmd
}
