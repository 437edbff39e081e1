package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
)

type ContactOptions struct {
	GlobalOptions

	Inquiry api.ContactInquiry
}

func DefaultContactOptions() *ContactOptions {
	return &ContactOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdContact() *cobra.Command {
	o := DefaultContactOptions()
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a contact inquiry to the Verdict team.",
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

func (o *ContactOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Inquiry.FirstName, "first-name", o.Inquiry.FirstName, "First name")
	fs.StringVar(&o.Inquiry.LastName, "last-name", o.Inquiry.LastName, "Last name")
	fs.StringVar(&o.Inquiry.Email, "email", o.Inquiry.Email, "Contact email address")
	fs.StringVar(&o.Inquiry.Company, "company", o.Inquiry.Company, "Company name")
	fs.StringVar(&o.Inquiry.Role, "role", o.Inquiry.Role, "Role at the company")
	fs.StringVar(&o.Inquiry.Goals, "goals", o.Inquiry.Goals, "What you want to accomplish")
}

func (o *ContactOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.Inquiry.Email == "" {
		return fmt.Errorf("--email is required")
	}
	return nil
}

func (o *ContactOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	if err := c.SubmitInquiry(ctx, o.Inquiry); err != nil {
		return fmt.Errorf("failed to submit inquiry: %w", err)
	}

	fmt.Println("inquiry submitted")
	return nil
}
