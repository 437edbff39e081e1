package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/verdict-ci/verdict/internal/client"
	"github.com/verdict-ci/verdict/internal/config"
)

type GlobalOptions struct {
	ServerUrl      string
	ConfigFilePath string
}

func DefaultGlobalOptions() GlobalOptions {
	server := "http://localhost:3443"
	if cfg, err := config.New(); err == nil {
		server = cfg.Service.BaseURL
	}
	return GlobalOptions{
		ServerUrl: server,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the Verdict service")
	fs.StringVarP(&o.ConfigFilePath, "config", "c", o.ConfigFilePath, "Path to a client config file")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

func (o *GlobalOptions) Client() (client.Verdict, error) {
	if o.ConfigFilePath != "" {
		return client.NewFromConfigFile(o.ConfigFilePath)
	}
	cfg := client.NewDefault()
	cfg.Service.Server = o.ServerUrl
	httpClient, err := client.NewHTTPClientFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return client.NewVerdict(cfg.Service.Server, httpClient), nil
}
