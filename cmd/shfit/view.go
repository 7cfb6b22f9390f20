package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-musr/musr"
)

func newViewCmd(root *rootOptions) *cobra.Command {
	var (
		index  int
		theory bool
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the display data of one run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.load(cmd, false)
			if err != nil {
				return err
			}
			r, err := s.run(index)
			if err != nil {
				return err
			}
			ds, err := r.ViewData(musr.Values(s.table))
			if err != nil {
				return err
			}
			if theory {
				return printSeries(cmd, "t_us\ttheory", len(ds.Theory), ds.TheoryTime, func(i int) []float64 {
					return []float64{ds.Theory[i]}
				})
			}
			return printSeries(cmd, "t_us\tvalue\terror", ds.Len(), ds.Time, func(i int) []float64 {
				return []float64{ds.Value[i], ds.Error[i]}
			})
		},
	}
	cmd.Flags().IntVarP(&index, "run", "r", 1, "run number, one based")
	cmd.Flags().BoolVar(&theory, "theory", false, "print the theory curve instead of the data")
	return cmd
}

func printSeries(cmd *cobra.Command, header string, n int, x func(int) float64, cols func(int) []float64) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for i := range n {
		fmt.Fprintf(tw, "%.6g", x(i))
		for _, v := range cols(i) {
			fmt.Fprintf(tw, "\t%.6g", v)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
