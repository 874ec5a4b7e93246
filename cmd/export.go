package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hbt/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the habit report (pdf, json, yaml or text)",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var (
	flagExportFormat    string
	flagExportOutput    string
	flagExportDashboard bool
)

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "pdf",
		"Report format: "+strings.Join(formatNames(), ", "))
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", `Output file, "-" for stdout (default habit_report.<ext>)`)
	exportCmd.Flags().BoolVar(&flagExportDashboard, "dashboard", false, "Include the viewed month's dashboard (json, yaml)")
	rootCmd.AddCommand(exportCmd)
}

func formatNames() []string {
	names := make([]string, 0, len(report.Formats))
	for _, f := range report.Formats {
		names = append(names, string(f))
	}
	return names
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	f, err := report.ParseFormat(flagExportFormat)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.svc.Report(ctx, flagExportDashboard)
	if err != nil {
		return err
	}

	out := flagExportOutput
	if out == "" {
		out = f.Filename()
	}

	var w io.Writer = os.Stdout
	if out != "-" {
		file, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer file.Close()
		w = file
	}

	if err := report.Write(w, f, r); err != nil {
		return fmt.Errorf("writing %s report: %w", f, err)
	}
	if out != "-" {
		confirm("Wrote %d habits to %s", len(r.Totals), out)
	}
	return nil
}
