package cli

import (
	"github.com/quickspin-saas/qspin-shim/internal/installer"
	"github.com/quickspin-saas/qspin-shim/internal/launcher"
	"github.com/quickspin-saas/qspin-shim/internal/platform"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [args...]",
	Short: "Run the installed qspin binary",
	Long: `Runs <install root>/bin/qspin with every argument passed through untouched,
stdin, stdout and stderr inherited, and exits with the binary's exit code.

Flags after "run" belong to qspin, so the install root comes from the
config file or QSPIN_SHIM_INSTALL_ROOT here.`,
	DisableFlagParsing: true,
	RunE:               runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	binPath, err := installedBinary()
	if err != nil {
		return err
	}

	res, err := launcher.Run(binPath, args, launcher.Streams{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		failure.Fprintln(cmd.ErrOrStderr(), err.Error())
		return &exitError{code: 1}
	}

	if res.Signaled {
		logger.Warn().Str("method", "runRun").Str("signal", res.Signal).Msg("qspin was terminated by a signal")
		return nil
	}
	if res.ExitCode != 0 {
		return &exitError{code: res.ExitCode}
	}
	return nil
}

// installedBinary returns where install places the binary for this host.
func installedBinary() (string, error) {
	s, err := settings()
	if err != nil {
		return "", err
	}
	p, err := platform.Host()
	if err != nil {
		return "", err
	}
	return installer.NewLayout(s.InstallRoot).BinaryPath(p), nil
}
