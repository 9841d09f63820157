package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dither.go/pkg/config"
	"github.com/jpfielding/dither.go/pkg/logging"
)

// logFile is the rotated --log-file writer of the running command. It is
// closed by cobra's finalizers, which also run when a command fails.
var logFile io.Closer

func init() {
	cobra.OnFinalize(closeLogFile)
}

func closeLogFile() {
	if logFile == nil {
		return
	}
	slog.SetDefault(logging.Logger(os.Stderr, false, slog.LevelInfo))
	logFile.Close()
	logFile = nil
}

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ditherctl",
		Short: "a CLI to quantize and dither images",
		Long:  "ditherctl reduces images to a few colour levels with ordered or error-diffusion dithering.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			// Parse log level
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(s.LogLevel))); err != nil {
				level = slog.LevelInfo
			}
			var w io.Writer = cmd.ErrOrStderr()
			closeLogFile()
			if s.LogFile != "" {
				f, err := logging.FileWriter(s.LogFile, 10, 3)
				if err != nil {
					return fmt.Errorf("log file: %w", err)
				}
				logFile = f
				w = io.MultiWriter(w, f)
			}
			slog.SetDefault(logging.Logger(w, s.LogJSON, level))

			if err := level.UnmarshalText([]byte(strings.ToUpper(s.LogLevel))); err != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", s.LogLevel, "error", err)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
		SilenceUsage: true,
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewProcessCmd(ctx),
		NewAnalyzeCmd(ctx),
		NewBayerCmd(ctx),
		NewKernelsCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "also write logs to this file, rotated by size")
	pf.Bool("log-json", false, "log as JSON instead of text")
	pf.StringP("config", "c", "", "YAML settings file")
	pf.StringSlice("env-file", []string{".env"}, "dotenv files with DITHER_* variables")
	return cmd
}

// loadSettings layers defaults, --config, the environment and the logging
// flags. Dither and pipeline flags are applied by the commands that own them.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	flags := cmd.Flags()
	envFiles, _ := flags.GetStringSlice("env-file")
	env, err := config.Environ(envFiles...)
	if err != nil {
		return config.Settings{}, err
	}
	path, _ := flags.GetString("config")
	s, err := config.Load(path, env)
	if err != nil {
		return s, err
	}
	if flags.Changed("log-level") {
		s.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		s.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-json") {
		s.LogJSON, _ = flags.GetBool("log-json")
	}
	return s, nil
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}
