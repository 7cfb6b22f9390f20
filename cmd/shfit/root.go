package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-musr/internal/config"
	"github.com/cwbudde/algo-musr/internal/logging"
	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/musr/singlehisto"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logJSON    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "shfit",
		Short:         "Single histogram µSR data reduction and objective evaluation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "fit.yaml", "fit description")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (default: config log_level, else warn)")
	cmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "log as JSON")

	cmd.AddCommand(
		newEvalCmd(opts),
		newViewCmd(opts),
		newFourierCmd(opts),
		newWindowCmd(),
	)
	return cmd
}

// session is a loaded fit description with its prepared runs.
type session struct {
	file   *config.File
	log    *logrus.Logger
	table  musr.ParamList
	view   musr.ViewSettings
	blocks []*musr.RunBlock
	runs   []*singlehisto.Run
}

// load reads the description and its run data and prepares every run. With
// estimateN0 the runs seed free N0 parameters of the shared table.
func (o *rootOptions) load(cmd *cobra.Command, estimateN0 bool) (*session, error) {
	f, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	level := o.logLevel
	if level == "" {
		level = f.LogLevel
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	format := logging.FormatText
	if o.logJSON {
		format = logging.FormatJSON
	}
	s := &session{file: f, log: logging.New(cmd.ErrOrStderr(), lvl, format), table: f.ParameterTable()}

	repo, err := config.LoadRunData(f.DataPaths()...)
	if err != nil {
		return nil, err
	}
	th, err := f.BuildTheory()
	if err != nil {
		return nil, err
	}
	global, err := f.GlobalBlock()
	if err != nil {
		return nil, err
	}
	if s.blocks, err = f.RunBlocks(); err != nil {
		return nil, err
	}
	if s.view, err = f.ViewSettings(); err != nil {
		return nil, err
	}

	for i, b := range s.blocks {
		opts := []singlehisto.Option{
			singlehisto.WithLogger(s.log),
			singlehisto.WithWorkers(f.Workers),
			singlehisto.WithView(s.view),
			singlehisto.WithRunIndex(i),
		}
		if estimateN0 {
			opts = append(opts, singlehisto.WithParameterTable(s.table))
		}
		r, err := singlehisto.New(repo, b, global, th, nil, opts...)
		if err != nil {
			return nil, fmt.Errorf("run %d (%s): %w", i+1, b.Name(), err)
		}
		s.runs = append(s.runs, r)
	}
	return s, nil
}

func (s *session) run(index int) (*singlehisto.Run, error) {
	if index < 1 || index > len(s.runs) {
		return nil, fmt.Errorf("run %d out of range 1..%d", index, len(s.runs))
	}
	return s.runs[index-1], nil
}
