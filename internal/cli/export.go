package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/verdict-ci/verdict/internal/report"
)

type ExportOptions struct {
	GlobalOptions

	ProjectName string
	OutputFile  string
}

func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdExport() *cobra.Command {
	o := DefaultExportOptions()
	cmd := &cobra.Command{
		Use:     "export TYPE/ID",
		Short:   "Render a finished job's report as a PDF document.",
		Example: "export coverage/3f8b6f2a-1c9e-4b7d-9a6e-2f1d8c3b5a70",
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

func (o *ExportOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.ProjectName, "project-name", "p", o.ProjectName, "Project name, required when exporting an estimator job")
	fs.StringVarP(&o.OutputFile, "output-file", "f", o.OutputFile, "Destination file. Derived from the project name when empty")
}

func (o *ExportOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("export requires TYPE/ID")
	}
	if kind == EstimatorKind && o.ProjectName == "" {
		return fmt.Errorf("exporting %s/%s requires --project-name", kind, id)
	}
	return nil
}

func (o *ExportOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	var (
		export   func(w *os.File) error
		fileName string
	)
	switch kind {
	case CoverageKind:
		res, err := c.GetCoverageJob(ctx, id)
		if err != nil {
			return fmt.Errorf("reading %s/%s: %w", kind, id, err)
		}
		view := report.NewCoverageView(id, res)
		export = func(w *os.File) error { return view.ExportPDF(w) }
		fileName = report.PDFFileName("Verdict_Report", view.ProjectName)
	case EstimatorKind:
		res, err := c.GetEstimatorJob(ctx, id, o.ProjectName)
		if err != nil {
			return fmt.Errorf("reading %s/%s: %w", kind, id, err)
		}
		view := report.NewEstimatorView(o.ProjectName, res)
		export = func(w *os.File) error { return view.ExportPDF(w) }
		fileName = report.PDFFileName("Verdict_Estimate", view.ProjectName)
	default:
		return fmt.Errorf("unsupported resource kind: %s", kind)
	}

	if o.OutputFile != "" {
		fileName = o.OutputFile
	}
	out, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", fileName, err)
	}
	defer out.Close()

	if err := export(out); err != nil {
		return fmt.Errorf("exporting %s/%s: %w", kind, id, err)
	}

	fmt.Println(fileName)
	return nil
}
