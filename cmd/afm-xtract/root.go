// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	xtract "github.com/sassoftware/viya-afm-xtract"
	"github.com/sassoftware/viya-afm-xtract/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "afm-xtract",
	Short: "Rebuild aircraft flight manual performance tables from PDF",
	Long: `afm-xtract reads the performance charts of an aircraft flight manual and
writes them as CSV tables keyed by weight, pressure altitude and temperature.

Supported families:
  - takeoff and landing ground run / total distance
  - takeoff climb gradient and rate
  - contaminated runway corrections
  - landing reference speeds`,
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default: ./afm-xtract.yaml or ~/.afm-xtract/afm-xtract.yaml)")
	f.String("log-level", "info", "log level: debug, info, warn or error")
	f.String("log-format", "text", "log format: text or json")
	f.Bool("debug", false, "print the trace buffer to stderr when the run ends")
	f.String("parsing-mode", string(xtract.BestEffort), "strict or best-effort")
	f.String("text-mode", string(xtract.RowsText), "page text reconstruction: rows or plain")
	f.Duration("page-timeout", 10*time.Second, "time limit for reading one page")
	f.Int("retries", 2, "page read retries")
	f.Duration("retry-delay", 100*time.Millisecond, "delay between page read retries")

	rootCmd.AddCommand(extractCmd, dumpCmd, specsCmd, versionCmd)
}

// initConfig binds flags, AFMX_* environment variables and the config file.
func initConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("AFMX")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("afm-xtract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.afm-xtract")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	logger.SetLogger(logFunc(newSlog(os.Stderr, viper.GetString("log-level"), viper.GetString("log-format"))))
	if f := viper.ConfigFileUsed(); f != "" {
		logger.Debug("config file loaded", "path", f)
	}
	return nil
}

// buildConfig turns the bound settings into a library config.
func buildConfig() *xtract.Config {
	cfg := xtract.NewDefaultConfig()
	cfg.ParsingMode = xtract.ParsingMode(viper.GetString("parsing-mode"))
	cfg.TextMode = xtract.TextMode(viper.GetString("text-mode"))
	cfg.PageTimeout = viper.GetDuration("page-timeout")
	cfg.MaxRetries = viper.GetInt("retries")
	cfg.RetryDelay = viper.GetDuration("retry-delay")
	cfg.DebugOn = viper.GetBool("debug")
	if viper.IsSet("max-documents") {
		cfg.MaxConcurrentDocuments = viper.GetInt("max-documents")
	}
	if viper.IsSet("max-tables") {
		cfg.MaxConcurrentTables = viper.GetInt("max-tables")
	}
	if v := viper.GetString("variant"); v != "" {
		cfg.Variant = xtract.Variant(v)
	}
	if f := viper.GetString("format"); f != "" {
		cfg.OutputFormat = f
	}
	cfg.LayoutFile = viper.GetString("layout")
	cfg.Families = viper.GetStringSlice("family")
	return cfg
}

func newSlog(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// logFunc routes library log calls to l.
func logFunc(l *slog.Logger) logger.LogFunc {
	return func(level logger.LogLevel, msg string, keyvals ...interface{}) {
		switch level {
		case logger.DebugLevel:
			l.Debug(msg, keyvals...)
		case logger.WarnLevel:
			l.Warn(msg, keyvals...)
		case logger.ErrorLevel:
			l.Error(msg, keyvals...)
		default:
			l.Info(msg, keyvals...)
		}
	}
}
