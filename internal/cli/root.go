package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/quickspin-saas/qspin-shim/internal/branding"
	"github.com/quickspin-saas/qspin-shim/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose         bool
	installRootFlag string

	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installer shim. It downloads the prebuilt qspin binary for this
platform from the release host, places it under the install root and can run,
smoke-test or remove it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		logger = newLogger(cmd.ErrOrStderr(), verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&installRootFlag, "install-root", "", "Install root (default <XDG data home>/qspin)")
}

// newLogger writes human-readable log lines to w. Only warnings and errors
// show unless verbose is set.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().
		Logger()
}

// exitError carries an exit status for failures whose message the command
// has already printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// Execute runs the root command with build info injected via ldflags.
// Errors not already reported by a command are printed to stderr.
func Execute(ctx context.Context, version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.ExecuteContext(ctx)
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		failure.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// settings resolves configuration, applying the --install-root override.
func settings() (*config.Settings, error) {
	s, err := config.Current()
	if err != nil {
		return nil, err
	}
	if installRootFlag != "" {
		root, err := config.ExpandPath(installRootFlag)
		if err != nil {
			return nil, fmt.Errorf("resolving --install-root: %w", err)
		}
		s.InstallRoot = root
	}
	return s, nil
}
