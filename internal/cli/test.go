package cli

import (
	"fmt"

	"github.com/quickspin-saas/qspin-shim/internal/branding"
	"github.com/quickspin-saas/qspin-shim/internal/launcher"
	"github.com/spf13/cobra"
)

var testTimeout = launcher.DefaultSmokeTimeout

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Smoke-test the installed qspin binary",
	Long:  `Runs "qspin version" against the installed binary and reports whether it works.`,
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func init() {
	testCmd.Flags().DurationVar(&testTimeout, "timeout", launcher.DefaultSmokeTimeout, "How long to wait for the binary")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing %s installation...\n", branding.BinaryName())

	binPath, err := installedBinary()
	if err != nil {
		return err
	}

	output, err := launcher.Smoke(cmd.Context(), binPath, testTimeout)
	if output != "" {
		fmt.Fprint(out, output)
	}
	if err != nil {
		failure.Fprintf(cmd.ErrOrStderr(), "❌ Test failed: %v\n", err)
		return &exitError{code: 1}
	}

	success.Fprintln(out, "✅ Test passed!")
	return nil
}
