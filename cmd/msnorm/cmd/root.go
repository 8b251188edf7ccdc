// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "dev"

// app carries the state shared by all commands of one process.
type app struct {
	v       *viper.Viper
	log     *zap.Logger
	cfgFile string
	stdout  io.Writer
	stderr  io.Writer
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		log:    zap.NewNop(),
		stdout: stdout,
		stderr: stderr,
	}

	root := &cobra.Command{
		Use:   "msnorm",
		Short: "MSNorm - ISTD normalization of mass spectrometry peak areas",
		Long: `MSNorm maps measured transitions to their internal standards, normalizes
peak areas against them and converts normalized areas to concentrations.

Inputs:
- A wide peak area table per raw data file (first column Sample_Name)
- An annotation workbook (.xlsx) or CSV tables for transitions, ISTDs and samples`,
		Version:           version,
		PersistentPreRunE: a.initConfig,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./msnorm.yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")

	_ = a.v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", pf.Lookup("log-format"))

	setDefaults(a.v)

	root.AddCommand(a.runCmd())
	root.AddCommand(a.validateCmd())
	root.AddCommand(a.summarizeCmd())

	return root
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("msnorm")
		a.v.SetConfigType("yaml")
	}

	// Environment variables
	a.v.SetEnvPrefix("MSNORM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger, err := newLogger(a.v.GetString("logging.level"), a.v.GetString("logging.format"), a.stderr)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.log = logger

	return nil
}
