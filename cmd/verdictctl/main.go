package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/verdict-ci/verdict/internal/cli"
)

func main() {
	command := NewVerdictCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewVerdictCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verdictctl [flags] [options]",
		Short: "verdictctl controls analysis jobs on the Verdict service.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdSubmit())
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdWatch())
	cmd.AddCommand(cli.NewCmdExport())
	cmd.AddCommand(cli.NewCmdRedrive())
	cmd.AddCommand(cli.NewCmdContact())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
