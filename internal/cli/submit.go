package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
	"github.com/verdict-ci/verdict/internal/submit"
)

func NewCmdSubmit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a project for analysis",
	}
	cmd.AddCommand(NewCmdSubmitCoverage())
	cmd.AddCommand(NewCmdSubmitEstimator())
	return cmd
}

type SubmitCoverageOptions struct {
	GlobalOptions

	File       string
	UserName   string
	UserEmail  string
	UserRole   string
	ReportType string
}

func DefaultSubmitCoverageOptions() *SubmitCoverageOptions {
	return &SubmitCoverageOptions{
		GlobalOptions: DefaultGlobalOptions(),
		ReportType:    "Full Script",
	}
}

func NewCmdSubmitCoverage() *cobra.Command {
	o := DefaultSubmitCoverageOptions()
	cmd := &cobra.Command{
		Use:     "coverage PROJECT_NAME",
		Short:   "Submit a script document for coverage analysis",
		Example: "submit coverage \"Midnight Run\" -f script.pdf -n \"Sam Rhee\" -e sam@studio.example",
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

func (o *SubmitCoverageOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.File, "file", "f", o.File, "Path to the script document (.pdf or .docx)")
	fs.StringVarP(&o.UserName, "user-name", "n", o.UserName, "Name of the submitting user")
	fs.StringVarP(&o.UserEmail, "user-email", "e", o.UserEmail, "Email of the submitting user")
	fs.StringVarP(&o.UserRole, "user-role", "r", o.UserRole, "Role of the submitting user")
	fs.StringVarP(&o.ReportType, "report-type", "t", o.ReportType, "Type of coverage report to produce")
}

func (o *SubmitCoverageOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if args[0] == "" {
		return fmt.Errorf("project name must not be empty")
	}
	return nil
}

func (o *SubmitCoverageOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	var attachment *submit.Attachment
	if o.File != "" {
		f, err := os.Open(o.File)
		if err != nil {
			return fmt.Errorf("failed to read document %s: %w", o.File, err)
		}
		defer f.Close()
		attachment = &submit.Attachment{
			Name:    filepath.Base(o.File),
			Content: f,
		}
	}

	gateway := submit.New(c, zap.NewNop())
	jobID, err := gateway.SubmitCoverage(ctx, submit.CoverageSubmission{
		ProjectName: args[0],
		UserName:    o.UserName,
		UserEmail:   o.UserEmail,
		UserRole:    o.UserRole,
		ReportType:  o.ReportType,
	}, attachment)
	if err != nil {
		return fmt.Errorf("failed to submit coverage job: %w", err)
	}

	fmt.Println(jobID)
	return nil
}

type SubmitEstimatorOptions struct {
	GlobalOptions

	Form api.EstimatorForm
}

func DefaultSubmitEstimatorOptions() *SubmitEstimatorOptions {
	return &SubmitEstimatorOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdSubmitEstimator() *cobra.Command {
	o := DefaultSubmitEstimatorOptions()
	cmd := &cobra.Command{
		Use:     "estimator PROJECT_NAME",
		Short:   "Submit production parameters for a success estimate",
		Example: "submit estimator Nova --genre Drama --production-budget 5000000",
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

func (o *SubmitEstimatorOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Form.Genre, "genre", o.Form.Genre, "Genre of the project")
	fs.StringVar(&o.Form.ProductionType, "production-type", o.Form.ProductionType, "Production type")
	fs.StringVar(&o.Form.ReleaseType, "release-type", o.Form.ReleaseType, "Planned release type")
	fs.Int64Var(&o.Form.ProductionBudget, "production-budget", o.Form.ProductionBudget, "Production budget in USD")
	fs.Int64Var(&o.Form.MarketingBudget, "marketing-budget", o.Form.MarketingBudget, "Marketing budget in USD")
	fs.StringVar(&o.Form.LocationCountry, "location-country", o.Form.LocationCountry, "Primary shooting country")
	fs.StringVar(&o.Form.LocationCity, "location-city", o.Form.LocationCity, "Primary shooting city")
	fs.StringVar(&o.Form.LocationState, "location-state", o.Form.LocationState, "Primary shooting state")
	fs.Int64Var(&o.Form.LocationBudget, "location-budget", o.Form.LocationBudget, "Location budget in USD")
	fs.StringVar(&o.Form.Director, "director", o.Form.Director, "Director attached to the project")
	fs.StringVar(&o.Form.Producer, "producer", o.Form.Producer, "Producer attached to the project")
	fs.StringVar(&o.Form.LeadActor, "lead-actor", o.Form.LeadActor, "Lead actor attached to the project")
	fs.IntVar(&o.Form.CastStrength, "cast-strength", o.Form.CastStrength, "Cast strength rating")
	fs.Int64Var(&o.Form.SoundBudget, "sound-budget", o.Form.SoundBudget, "Sound budget in USD")
	fs.StringVar(&o.Form.LeadStylist, "lead-stylist", o.Form.LeadStylist, "Lead stylist attached to the project")
	fs.Int64Var(&o.Form.WardrobeBudget, "wardrobe-budget", o.Form.WardrobeBudget, "Wardrobe budget in USD")
	fs.StringVar(&o.Form.Notes, "notes", o.Form.Notes, "Free-form notes for the analysis")
}

func (o *SubmitEstimatorOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if args[0] == "" {
		return fmt.Errorf("project name must not be empty")
	}
	return nil
}

func (o *SubmitEstimatorOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	o.Form.ProjectName = args[0]
	gateway := submit.New(c, zap.NewNop())
	jobID, err := gateway.SubmitEstimator(ctx, o.Form)
	if err != nil {
		return fmt.Errorf("failed to submit estimator job: %w", err)
	}

	fmt.Println(jobID)
	return nil
}
