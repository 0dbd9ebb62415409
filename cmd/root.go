// Package cmd holds the blog command line.
package cmd

import (
	"github.com/Laisky/errors/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BorisDmv/my-blog/internal/config"
)

var rootCMD = &cobra.Command{
	Use:           "blog",
	Short:         "flat-file blog",
	Long:          `blog server with a session-gated admin and an AI draft assistant`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCMD.PersistentFlags().String("env-file", config.DefaultEnvFile, "dotenv file with the admin credentials, overrides ENV_FILE")
	addServeFlags(rootCMD)
}

// Execute runs the command line.
func Execute() error {
	return rootCMD.Execute()
}

// envFileFlag returns the --env-file value when it was given and the
// ENV_FILE fallback otherwise.
func envFileFlag(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("env-file"); f != nil && f.Changed {
		return f.Value.String()
	}
	return config.EnvFile("")
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(envFileFlag(cmd))
	if err != nil {
		return config.Config{}, errors.Wrap(err, "load config")
	}

	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Port = f.Value.String()
	}
	if f := cmd.Flags().Lookup("post-dir"); f != nil && f.Changed {
		cfg.PostDir = f.Value.String()
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level `%s`", level)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger.Named("blog"), nil
}
