package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/stats/objective"
	"github.com/cwbudde/algo-musr/stats/residual"
)

func newEvalCmd(root *rootOptions) *cobra.Command {
	var (
		kindName   string
		fitRange   string
		estimateN0 bool
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the fit statistic at the start parameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.load(cmd, estimateN0)
			if err != nil {
				return err
			}

			kind, err := s.file.Kind()
			if kindName != "" {
				kind, err = objective.ParseKind(kindName)
			}
			if err != nil {
				return err
			}

			if fitRange != "" {
				for _, r := range s.runs {
					if err := r.SetFitRange(fitRange); err != nil {
						return err
					}
				}
			}
			return printEval(cmd, s, kind)
		},
	}
	cmd.Flags().StringVarP(&kindName, "kind", "k", "", "statistic: chisq, chisq-expected, mlh, mlh-expected")
	cmd.Flags().StringVar(&fitRange, "fit-range", "", `FIT_RANGE command, e.g. "FIT_RANGE fgb+5 lgb-3"`)
	cmd.Flags().BoolVar(&estimateN0, "estimate-n0", false, "seed free N0 parameters from the data")
	return cmd
}

func printEval(cmd *cobra.Command, s *session, kind objective.Kind) error {
	par := musr.Values(s.table)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "run\tname\tbins\t%s\tmean(r)\truns\tz\n", kind)

	var (
		total float64
		bins  int
		all   residual.Accumulator
	)
	for i, r := range s.runs {
		v, err := r.Evaluate(kind, par)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		res, err := r.Residuals(par)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		rs := residual.Calculate(res)
		all.Update(res)

		total += v
		bins += r.FitBinCount()
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.6g\t%.3g\t%d\t%.2f\n",
			i+1, s.blocks[i].Name(), r.FitBinCount(), v, rs.Mean, rs.Runs, rs.RunsZ)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	q := objective.Assess(kind, total, bins, s.file.FreeParameters())
	fmt.Fprintf(cmd.OutOrStdout(), "total %s = %.6g, NDF = %d, reduced = %.4g, p = %.4g\n",
		kind, q.Value, q.NDF, q.Reduced, q.PValue)
	rs := all.Result()
	fmt.Fprintf(cmd.OutOrStdout(), "residuals: rms = %.4g, max |r| = %.3g, runs = %d (z = %.2f)\n",
		rs.RMS, rs.MaxAbs, rs.Runs, rs.RunsZ)

	if s.file.FreeParameters() > 0 {
		for i, p := range s.table {
			if p.Step != 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "par%d %s = %.6g ± %.3g\n", i+1, p.Name, p.Value, p.Step)
			}
		}
	}
	return nil
}
