package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/MSNorm/pkg/concentration"
	"github.com/ChrisMcGann/MSNorm/pkg/pipeline"
)

// Configuration keys.
const (
	keyAllowMultipleISTD = "allow_multiple_istd"
	keyMedium            = "experiment_medium"
	keyOutputDir         = "output.dir"
	keyOutputFormat      = "output.format"
	keyPrecision         = "output.precision"
	keySampleTypes       = "filter.sample_types"
)

// flagKeys maps command flags to configuration keys.
var flagKeys = map[string]string{
	"multi":       keyAllowMultipleISTD,
	"medium":      keyMedium,
	"out-dir":     keyOutputDir,
	"format":      keyOutputFormat,
	"precision":   keyPrecision,
	"sample-type": keySampleTypes,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyAllowMultipleISTD, false)
	v.SetDefault(keyMedium, "")
	v.SetDefault(keyOutputDir, ".")
	v.SetDefault(keyOutputFormat, "csv")
	v.SetDefault(keyPrecision, -1)
	v.SetDefault(keySampleTypes, []string{})
}

// bindFlags binds the flags of the executing command. Commands share keys,
// so binding happens at execution time rather than at construction.
func (a *app) bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	return nil
}

// settings is the resolved configuration of one command.
type settings struct {
	AllowMultipleISTD bool
	Medium            concentration.Medium
	OutputDir         string
	OutputFormat      string
	Precision         int
	SampleTypes       []string
}

func loadSettings(v *viper.Viper) (settings, error) {
	s := settings{
		AllowMultipleISTD: v.GetBool(keyAllowMultipleISTD),
		OutputDir:         v.GetString(keyOutputDir),
		OutputFormat:      strings.ToLower(v.GetString(keyOutputFormat)),
		Precision:         v.GetInt(keyPrecision),
	}

	if medium := strings.TrimSpace(v.GetString(keyMedium)); medium != "" {
		m, err := concentration.ParseMedium(medium)
		if err != nil {
			return settings{}, err
		}
		s.Medium = m
	}

	if s.OutputFormat != "csv" && s.OutputFormat != "sqlite" {
		return settings{}, fmt.Errorf("invalid output format '%s', must be csv or sqlite", s.OutputFormat)
	}

	for _, t := range v.GetStringSlice(keySampleTypes) {
		if t = strings.TrimSpace(t); t != "" {
			s.SampleTypes = append(s.SampleTypes, t)
		}
	}

	return s, nil
}

func (s settings) pipeline() *pipeline.Config {
	return &pipeline.Config{
		AllowMultipleISTD: s.AllowMultipleISTD,
		Medium:            s.Medium,
	}
}
