package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/diligence-cli/internal/export"
)

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a completed run's report to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "export")
		}
		if run.Report == nil {
			return eris.Errorf("run %s has no report (status: %s)", args[0], run.Status)
		}

		dir := exportDir
		if dir == "" {
			dir = cfg.Export.Dir
		}
		format := export.Format(exportFormat)
		if format == "" {
			format = export.Format(cfg.Export.Format)
		}

		path, err := export.Write(run.Report, dir, format)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		fmt.Println(path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "export format: json or xlsx (default from config)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (default from config)")
	rootCmd.AddCommand(exportCmd)
}
