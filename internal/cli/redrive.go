package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type RedriveOptions struct {
	GlobalOptions

	ProjectName string
}

func DefaultRedriveOptions() *RedriveOptions {
	return &RedriveOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdRedrive() *cobra.Command {
	o := DefaultRedriveOptions()
	cmd := &cobra.Command{
		Use:     "redrive ID",
		Short:   "Re-trigger analysis for an existing job.",
		Example: "redrive 3f8b6f2a-1c9e-4b7d-9a6e-2f1d8c3b5a70 -p Nova",
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

func (o *RedriveOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.ProjectName, "project-name", "p", o.ProjectName, "Project name of the job being re-triggered")
}

func (o *RedriveOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if args[0] == "" {
		return fmt.Errorf("job id must not be empty")
	}
	return nil
}

func (o *RedriveOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	if err := c.RedriveJob(ctx, args[0], o.ProjectName); err != nil {
		return fmt.Errorf("failed to redrive job %s: %w", args[0], err)
	}

	fmt.Println(args[0])
	return nil
}
