package cli

import (
	"fmt"
	"path/filepath"

	"github.com/quickspin-saas/qspin-shim/internal/branding"
	"github.com/quickspin-saas/qspin-shim/internal/installer"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the installed qspin binary",
	Long: `Removes <install root>/bin and <install root>/dist. Missing directories are
fine and removal problems are reported as warnings; the command always succeeds.`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintf(out, "Uninstalling %s...\n", branding.DisplayName())

	s, err := settings()
	if err != nil {
		warning.Fprintf(errOut, "⚠️  Uninstallation warning: %v\n", err)
		return nil
	}

	report := installer.Uninstall(installer.NewLayout(s.InstallRoot), logger)
	for _, dir := range report.Removed {
		fmt.Fprintf(out, "Removed %s directory\n", filepath.Base(dir))
	}
	for _, w := range report.Warnings {
		warning.Fprintf(errOut, "⚠️  Uninstallation warning: %v\n", w)
	}

	success.Fprintf(out, "✅ %s uninstalled successfully!\n", branding.DisplayName())
	return nil
}
