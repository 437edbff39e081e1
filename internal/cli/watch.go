package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/verdict-ci/verdict/internal/client"
	"github.com/verdict-ci/verdict/internal/config"
	"github.com/verdict-ci/verdict/internal/poller"
	"github.com/verdict-ci/verdict/internal/report"
	"github.com/verdict-ci/verdict/internal/settings"
)

type WatchOptions struct {
	GlobalOptions

	ProjectName string
	Expanded    bool
}

func DefaultWatchOptions() *WatchOptions {
	o := &WatchOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
	if path, err := settings.DefaultPath(); err == nil {
		if prefs, err := settings.NewStore(path).Load(); err == nil {
			o.Expanded = prefs.ExpandedOutput
		}
	}
	return o
}

func NewCmdWatch() *cobra.Command {
	o := DefaultWatchOptions()
	cmd := &cobra.Command{
		Use:     "watch TYPE/ID",
		Short:   "Poll a job until it reaches a terminal state.",
		Example: "watch estimator/3f8b6f2a-1c9e-4b7d-9a6e-2f1d8c3b5a70 -p Nova",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *WatchOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.ProjectName, "project-name", "p", o.ProjectName, "Project name, required when watching an estimator job")
	fs.BoolVar(&o.Expanded, "expanded", o.Expanded, "Print the full report once the job completes")
}

func (o *WatchOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("watch requires TYPE/ID")
	}
	if kind == EstimatorKind && o.ProjectName == "" {
		return fmt.Errorf("watching %s/%s requires --project-name", kind, id)
	}
	return nil
}

func (o *WatchOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	var probe poller.ProbeFunc
	switch kind {
	case CoverageKind:
		probe = poller.CoverageProbe(c, id)
	case EstimatorKind:
		probe = poller.EstimatorProbe(c, id, o.ProjectName)
	default:
		return fmt.Errorf("unsupported resource kind: %s", kind)
	}

	opts := []poller.Option{
		poller.WithNotify(func(state poller.State, progress int) {
			fmt.Fprintf(os.Stderr, "%s/%s %s %d%%\n", kind, id, state, progress)
		}),
	}
	if cfg, err := config.New(); err == nil {
		opts = append(opts,
			poller.WithGraceDelay(cfg.Poll.GraceDelay),
			poller.WithInterval(cfg.Poll.Interval),
			poller.WithMaxAttempts(cfg.Poll.MaxAttempts),
		)
	}

	p := poller.New(probe, opts...)
	p.Start(ctx)
	defer p.Stop()

	select {
	case <-p.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := p.Err(); err != nil {
		return fmt.Errorf("watching %s/%s: %w", kind, id, err)
	}

	if !o.Expanded {
		return nil
	}
	return writeReportText(ctx, c, kind, id, o.ProjectName, os.Stdout)
}

// writeReportText fetches the finished job and renders its report
// layout as plain text.
func writeReportText(ctx context.Context, c client.Verdict, kind string, id string, projectName string, w io.Writer) error {
	switch kind {
	case CoverageKind:
		res, err := c.GetCoverageJob(ctx, id)
		if err != nil {
			return fmt.Errorf("reading %s/%s: %w", kind, id, err)
		}
		report.NewCoverageView(id, res).WriteText(w)
	case EstimatorKind:
		res, err := c.GetEstimatorJob(ctx, id, projectName)
		if err != nil {
			return fmt.Errorf("reading %s/%s: %w", kind, id, err)
		}
		report.NewEstimatorView(projectName, res).WriteText(w)
	}
	return nil
}
