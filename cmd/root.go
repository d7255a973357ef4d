package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const levelTrace = slog.Level(-8)

var (
	configFiles               []string
	level, logFormat, version string
	noColor                   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "ai1convert",
	Short:         "convert legacy App Inventor projects",
	Long:          "Convert App Inventor Classic (AI1) projects and screens into the current block format",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (trace, debug, info, warn, error, debug+1, etc)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
}

func parseLevel(s string) (slog.Level, bool) {
	var ll slog.Level
	if strings.EqualFold(s, "trace") {
		return levelTrace, true
	}
	if err := (&ll).UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, false
	}
	return ll, true
}

func newLogger(w io.Writer, ll slog.Level, format string) *slog.Logger {
	if strings.EqualFold(format, "text") {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      ll,
			TimeFormat: time.Kitchen,
			NoColor:    color.NoColor,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     ll,
	}))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	ll, ok := parseLevel(level)
	if !ok {
		panic("invalid log level: " + level)
	}
	if noColor {
		color.NoColor = true
	}
	l := newLogger(os.Stderr, ll, logFormat)
	slog.SetDefault(l)

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/ai1convert")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("AI1CONVERT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		l.With("config", viper.ConfigFileUsed()).Debug("using config file(s)")
	} else {
		l.With("error", err, "config", viper.ConfigFileUsed()).Debug("unable to use config file(s)")
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					l.With("error", err, "file", file).Warn("failed to merge config file")
				} else {
					l.With("file", file).Debug("merged config file")
				}
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}

	// The config file may pick the level and format when the flags were left alone.
	flags := rootCmd.PersistentFlags()
	llstr := viper.GetString("common.log.level")
	fmtstr := viper.GetString("common.log.format")
	if (llstr != "" && !flags.Changed("level")) || (fmtstr != "" && !flags.Changed("log-format")) {
		if llstr != "" && !flags.Changed("level") {
			if ll, ok = parseLevel(llstr); !ok {
				panic("invalid log level: " + llstr)
			}
		}
		if fmtstr != "" && !flags.Changed("log-format") {
			logFormat = fmtstr
		}
		slog.SetDefault(newLogger(os.Stderr, ll, logFormat))
	}
}
