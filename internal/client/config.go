package client

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"sigs.k8s.io/yaml"
)

// Config holds the information needed to connect to a Verdict API
// server.
type Config struct {
	Service Service `json:"service"`
}

// Service contains information how to connect to the Verdict API
// server.
type Service struct {
	// Server is the URL of the Verdict API origin (the part before
	// the endpoint paths).
	Server string `json:"server"`
}

func (c *Config) Equal(c2 *Config) bool {
	if c == c2 {
		return true
	}
	if c == nil || c2 == nil {
		return false
	}
	return c.Service.Server == c2.Service.Server
}

func NewDefault() *Config {
	return &Config{}
}

// ParseConfigFile reads a client config from a YAML file.
func ParseConfigFile(filename string) (*Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	config := NewDefault()
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return config, nil
}

// NewHTTPClientFromConfig returns a new HTTP client from the given
// config.
func NewHTTPClientFromConfig(config *Config) (*http.Client, error) {
	if config.Service.Server == "" {
		return nil, fmt.Errorf("no server url configured")
	}
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
	return httpClient, nil
}

// NewFromConfigFile returns a Verdict service client configured from a
// YAML config file.
func NewFromConfigFile(filename string) (Verdict, error) {
	config, err := ParseConfigFile(filename)
	if err != nil {
		return nil, err
	}
	httpClient, err := NewHTTPClientFromConfig(config)
	if err != nil {
		return nil, err
	}
	return NewVerdict(config.Service.Server, httpClient), nil
}
