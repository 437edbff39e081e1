package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

type GetOptions struct {
	GlobalOptions

	Output      string
	ProjectName string
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get (TYPE | TYPE/ID)",
		Short: "Display one or many analysis jobs.",
		Args:  cobra.ExactArgs(1),
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

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVarP(&o.ProjectName, "project-name", "p", o.ProjectName, "Project name, required when reading a single estimator job")
}

func (o *GetOptions) Complete(cmd *cobra.Command, args []string) error {
	return o.GlobalOptions.Complete(cmd, args)
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}
	if kind == EstimatorKind && id != "" && o.ProjectName == "" {
		return fmt.Errorf("reading %s/%s requires --project-name", kind, id)
	}

	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}

	return nil
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	var response interface{}
	switch {
	case kind == CoverageKind && id != "":
		response, err = c.GetCoverageJob(ctx, id)
	case kind == CoverageKind && id == "":
		response, err = c.ListCoverageJobs(ctx)
	case kind == EstimatorKind && id != "":
		response, err = c.GetEstimatorJob(ctx, id, o.ProjectName)
	case kind == EstimatorKind && id == "":
		response, err = c.ListEstimatorJobs(ctx)
	default:
		return fmt.Errorf("unsupported resource kind: %s", kind)
	}

	if err != nil {
		if id == "" {
			return fmt.Errorf("listing %s: %w", plural(kind), err)
		}
		return fmt.Errorf("reading %s/%s: %w", kind, id, err)
	}

	switch o.Output {
	case jsonFormat:
		marshalled, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
		return nil
	case yamlFormat:
		marshalled, err := yaml.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
		return nil
	default:
		return printTable(response)
	}
}

func printTable(response interface{}) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	switch r := response.(type) {
	case []api.CoverageRecord:
		printCoverageTable(w, r...)
	case *api.CoverageResult:
		printCoverageResultTable(w, r)
	case []api.EstimatorRecord:
		printEstimatorTable(w, r...)
	case *api.EstimatorResult:
		printEstimatorResultTable(w, r)
	default:
		return fmt.Errorf("unknown resource type %T", response)
	}
	w.Flush()
	return nil
}

func printCoverageTable(w *tabwriter.Writer, audits ...api.CoverageRecord) {
	fmt.Fprintln(w, "ID\tPROJECT\tREPORTER\tTYPE\tSCORE")
	for _, a := range audits {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\n", a.ID, a.AuditName, a.Reporter, a.ReportType, a.SuccessGauge)
	}
}

func printCoverageResultTable(w *tabwriter.Writer, res *api.CoverageResult) {
	fmt.Fprintln(w, "PROJECT\tSTATUS\tSCORE\tRECOMMENDATION")
	fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\n", res.ProjectName, res.Status, res.Score, res.Recommendation)
}

func printEstimatorTable(w *tabwriter.Writer, records ...api.EstimatorRecord) {
	fmt.Fprintln(w, "ID\tPROJECT\tSTATUS\tSCORE\tVERDICT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%s\n", r.AuditID, r.ProjectName, r.Status, r.Score, r.Verdict)
	}
}

func printEstimatorResultTable(w *tabwriter.Writer, res *api.EstimatorResult) {
	fmt.Fprintln(w, "PROJECT\tSTATUS\tSCORE\tVERDICT")
	fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\n", res.ProjectName, res.Status, res.Score, res.Verdict)
}
