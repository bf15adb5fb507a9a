package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dmagro/evm-tx-analyzer/internal/config"
	"github.com/dmagro/evm-tx-analyzer/internal/env"
)

// defaultConfigPath is loaded when --config is not given and the file exists.
const defaultConfigPath = "config.yaml"

type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "analyzer",
		Short:         "Inspect the call trace of an EVM transaction",
		Long:          "Fetch a transaction and its callTracer trace from a JSON-RPC endpoint and render the nested calls as an expandable tree.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := env.Load(opts.envFile); err != nil {
				return fmt.Errorf("failed to load env file: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ./config.yaml if present)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", env.DefaultFile, "File of KEY=VALUE pairs loaded before the config")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(analyzeCmd(opts), serveCmd(opts), versionCmd())
	return root
}

// load reads the config file, or falls back to defaults when none exists.
func (o *globalOptions) load() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); errors.Is(err, fs.ErrNotExist) {
			return config.New(), nil
		}
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// logger writes to stderr so stdout stays clean for --format json.
func (o *globalOptions) logger(cfg *config.Config) (*logrus.Logger, error) {
	name := cfg.Logging.Level
	if o.logLevel != "" {
		name = o.logLevel
	}

	level, err := logrus.ParseLevel(name)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", name, err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	return log, nil
}

// resolveEndpoint picks --rpc, then --endpoint, then defaults.endpoint. With
// none of them the empty ad-hoc binding is returned and the analyzer reports
// the missing URL.
func resolveEndpoint(cfg *config.Config, rpcURL, name string) (config.Endpoint, error) {
	if rpcURL != "" {
		return cfg.AdHoc(rpcURL), nil
	}
	if name == "" && cfg.Defaults.Endpoint == "" {
		return cfg.AdHoc(""), nil
	}
	return cfg.Endpoint(name)
}
