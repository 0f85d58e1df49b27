package cli

import (
	"encoding/json"
	"fmt"

	"github.com/quickspin-saas/qspin-shim/internal/platform"
	"github.com/quickspin-saas/qspin-shim/internal/release"
	"github.com/spf13/cobra"
)

var platformJSON bool

type platformReport struct {
	Platform      string `json:"platform"`
	Archive       string `json:"archive"`
	Binary        string `json:"binary"`
	GOOS          string `json:"goos"`
	GOARCH        string `json:"goarch"`
	KernelArch    string `json:"kernel_arch,omitempty"`
	KernelVersion string `json:"kernel_version,omitempty"`
	Host          string `json:"host,omitempty"`
	HostFamily    string `json:"host_family,omitempty"`
	HostVersion   string `json:"host_version,omitempty"`
	Emulated      bool   `json:"emulated"`
}

func init() {
	platformCmd.Flags().BoolVar(&platformJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(platformCmd)
}

var platformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Show which release asset this host resolves to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := platform.Host()
		if err != nil {
			return err
		}
		info, err := platform.Describe(cmd.Context())
		if err != nil {
			return fmt.Errorf("describing host: %w", err)
		}

		report := platformReport{
			Platform:      spec.String(),
			Archive:       release.ArchiveExt(spec),
			Binary:        release.BinaryName(spec),
			GOOS:          info.GOOS,
			GOARCH:        info.GOARCH,
			KernelArch:    info.KernelArch,
			KernelVersion: info.KernelVersion,
			Host:          info.Platform,
			HostFamily:    info.PlatformFamily,
			HostVersion:   info.PlatformVersion,
			Emulated:      info.Emulated(),
		}

		out := cmd.OutOrStdout()
		if platformJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling platform report: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Platform:  %s\n", report.Platform)
		fmt.Fprintf(out, "Archive:   %s\n", report.Archive)
		fmt.Fprintf(out, "Binary:    %s\n", report.Binary)
		fmt.Fprintf(out, "Runtime:   %s/%s\n", report.GOOS, report.GOARCH)
		if report.Host != "" {
			fmt.Fprintf(out, "Host:      %s %s (%s)\n", report.Host, report.HostVersion, report.HostFamily)
		}
		if report.KernelVersion != "" {
			fmt.Fprintf(out, "Kernel:    %s (%s)\n", report.KernelVersion, report.KernelArch)
		}
		if report.Emulated {
			warning.Fprintf(out, "⚠️  Running under emulation: the kernel is %s but this shim is %s.\n", report.KernelArch, report.GOARCH)
		}
		return nil
	},
}
