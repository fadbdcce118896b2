package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formbind/internal/config"
)

// globalFlags are shared by every command that builds a view model.
type globalFlags struct {
	configPath string
	strict     bool
	logLevel   string
	backend    string
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file (default formbind.json or formbind.yaml in the working directory)")
	pf.BoolVar(&f.strict, "strict", false, "Enable strict field validation")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&f.backend, "backend", "", "Username backend: stub, s3, mysql")
}

// load reads the configuration and applies environment and flag overrides,
// in that order.
func (f *globalFlags) load(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.Getenv)

	if cmd.Flags().Changed("strict") {
		cfg.StrictValidation = f.strict
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.backend != "" {
		cfg.Backend.Kind = f.backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
