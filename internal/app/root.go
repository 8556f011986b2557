package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bitshepherds/codefmt/internal/config"
	"github.com/bitshepherds/codefmt/internal/dispatch"
	"github.com/bitshepherds/codefmt/internal/fs"
	"github.com/bitshepherds/codefmt/internal/repo"
	"github.com/bitshepherds/codefmt/internal/validator"
)

// Version is the current version of codefmt, set at build time.
var Version = "dev"

var LongDescription = `
codefmt launches your project's source formatter over the files git tracks.
It resolves path rules from the "codefmt" key in package.json, from
codefmt-config.yml, or from a packaged default, narrows the tracked-file
list with them, and runs the formatter in batches of ` + fmt.Sprint(dispatch.BatchSize) + ` files.
`

var usageText = `Usage:
  codefmt [flags] [formatter arguments...]

Flags (recognized anywhere; everything else passes through to the formatter):
  -verify     dry-run the formatter, then fail if the working tree is dirty (exit 2)
  -raw        forward arguments to the formatter with no discovery or filtering
  --version   print the formatter's version (implies -raw)
  -watch      after formatting, reformat whenever a qualifying file changes
  --verbose   enable diagnostic logging
  --help      print this help

Exit codes:
  0  formatting or verification succeeded
  1  setup failure (bad configuration, formatter binary not found)
  2  verify found modified or untracked files
  3  the formatter exited nonzero

Environment:
  CODEFMT_CONFIG    explicit configuration file, overriding resolution
  CODEFMT_LOG_FILE  write structured JSON logs to this file as well
`

// NewRootCmd creates the root command. Flag parsing is disabled so unknown
// arguments pass through to the formatter verbatim; the Invocation parser
// owns the argument list.
func NewRootCmd(logLevel *slog.LevelVar, env fs.EnvProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:                "codefmt [flags] [formatter arguments...]",
		Short:              "Launch the project's source formatter over git-tracked files",
		Long:               LongDescription,
		Args:               cobra.ArbitraryArgs,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := ParseInvocation(args)
			if inv.Verbose {
				logLevel.Set(slog.LevelDebug)
			}
			if inv.Help {
				fmt.Fprintf(cmd.OutOrStdout(), "codefmt %s\n%s\n%s", Version, LongDescription, usageText)
				return nil
			}
			return execute(cmd, inv, logLevel, env)
		},
	}

	return rootCmd
}

// execute builds the collaborators for the selected mode and runs it.
func execute(cmd *cobra.Command, inv Invocation, logLevel *slog.LevelVar, env fs.EnvProvider) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not determine working directory: %w", err)
	}

	if inv.Mode == ModeRaw {
		logger := consoleLogger(stderr, logLevel)
		dispatcher := dispatch.NewDispatcher(logger, stdout, stderr)
		return RunRaw(ctx, dispatcher, config.DefaultFormatterBinary, workDir, inv.Passthrough)
	}

	cfg, err := config.Resolve(workDir, env, fs.NewPathResolver(), validator.NewSanthoshCompiler())
	if err != nil {
		return err
	}

	logger, logCloser, lErr := setupLogger(stderr, logLevel)
	if lErr != nil {
		logger.Warn("logging to file disabled", "error", lErr)
	}
	if logCloser != nil {
		defer closeQuietly(logCloser)
	}

	launcher := NewLauncher(
		logger,
		cfg,
		repo.NewCLIGitter(),
		dispatch.NewDispatcher(logger, stdout, stderr),
		stdout,
	)

	switch {
	case inv.Mode == ModeVerify:
		return launcher.Verify(ctx, inv.Passthrough)
	case inv.Watch:
		return launcher.FixAndWatch(ctx, inv.Passthrough)
	default:
		return launcher.Fix(ctx, inv.Passthrough)
	}
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
