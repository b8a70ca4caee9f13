/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/moamenhredeen/relcheck/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"pkt.systems/pslog"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "relcheck",
	Short: "Conformance runner for the products, users and categories API",
	Long: `relcheck checks a running products / users / categories REST service.

It issues a fixed sequence of HTTP calls against the service, verifies that
products carry their owner and category relations, scores every check and
prints a graded report.

Settings are read from config.toml in the working directory, RELCHECK_*
environment variables and command-line flags, in increasing priority.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		structured, _ := cmd.Flags().GetBool("structured")
		levelStr, _ := cmd.Flags().GetString("log-level")
		caller, _ := cmd.Flags().GetBool("log-caller")
		levelFlagSet := cmd.Flags().Lookup("log-level") != nil && cmd.Flags().Lookup("log-level").Changed
		logger, err := newLogger(structured, levelStr, levelFlagSet, caller, os.Stderr)
		if err != nil {
			return err
		}
		cmd.SetContext(pslog.ContextWithLogger(cmd.Context(), logger))

		return readConfigFile(logger)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readConfigFile loads config.toml, or the file named by --config. A missing
// default file is not an error.
func readConfigFile(logger pslog.Logger) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			logger.Debug("no config file found, using defaults")
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	logger.Debug("config file loaded", "path", viper.ConfigFileUsed())
	return nil
}

// loadConfig decodes and validates the merged configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(structured bool, level string, flagSet bool, caller bool, w io.Writer) (pslog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	opts := pslog.Options{CallerKeyval: caller}
	if structured {
		opts.Mode = pslog.ModeStructured
	}
	logger := pslog.NewWithOptions(w, opts)

	logger = logger.LogLevel(pslog.InfoLevel)

	if flagSet {
		if lvl, ok := pslog.ParseLevel(level); ok {
			return logger.LogLevel(lvl), nil
		}
		return nil, fmt.Errorf("unknown level %q", level)
	}

	if lvl, ok := pslog.LevelFromEnv("LOG_LEVEL"); ok {
		return logger.LogLevel(lvl), nil
	}
	if lvl, ok := pslog.ParseLevel(level); ok {
		return logger.LogLevel(lvl), nil
	}
	return logger, nil
}

func loggerFromCmd(cmd *cobra.Command) pslog.Logger {
	if cmd != nil {
		if logger := pslog.LoggerFromContext(cmd.Context()); logger != nil {
			return logger
		}
	}
	return pslog.NewWithOptions(os.Stderr, pslog.Options{MinLevel: pslog.InfoLevel})
}

func addLoggingFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "info", "Log level (trace|debug|info|warn|error)")
	flags.Bool("structured", false, "Emit structured JSON logs")
	flags.Bool("log-caller", false, "Include caller function name on each log line")
}

// bindFlag binds a flag to a configuration key
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

func init() {
	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	addLoggingFlags(flags)
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./config.toml)")
	flags.String("server", "http://localhost:8080", "Base URL of the service under test")
	flags.Duration("timeout", 0, "Per-request timeout (default 30s)")
	flags.Float64("rate", 0, "Max requests per second (0 = unlimited)")
	flags.String("history-redis", "", "Redis address for run history (host:port)")

	bindFlag("server", flags.Lookup("server"))
	bindFlag("timeout", flags.Lookup("timeout"))
	bindFlag("rate", flags.Lookup("rate"))
	bindFlag("history.redis_addr", flags.Lookup("history-redis"))
}
