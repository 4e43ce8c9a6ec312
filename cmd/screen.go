package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/assemble"
	"github.com/sells-group/diligence-cli/internal/export"
	"github.com/sells-group/diligence-cli/internal/metrics"
	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/pipeline"
	"github.com/sells-group/diligence-cli/internal/store"
)

var (
	screenCountry  string
	screenDomain   string
	screenDOB      string
	screenCorpCode string
	screenExport   string
	screenBatchIn  string
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run due-diligence screenings",
}

var screenCompanyCmd = &cobra.Command{
	Use:   "company <name>",
	Short: "Screen a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScreening(cmd.Context(), model.Subject{
			Kind:         model.SubjectCompany,
			Name:         args[0],
			Country:      screenCountry,
			Domain:       screenDomain,
			RegistryCode: screenCorpCode,
		})
	},
}

var screenIndividualCmd = &cobra.Command{
	Use:   "individual <name>",
	Short: "Screen an individual",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScreening(cmd.Context(), model.Subject{
			Kind:        model.SubjectIndividual,
			Name:        args[0],
			Country:     screenCountry,
			DateOfBirth: screenDOB,
		})
	},
}

var screenBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Screen subjects from a JSON file",
	Long:  "Reads a JSON array of subjects ({kind, name, country, ...}) and screens them with bounded concurrency.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(screenBatchIn)
		if err != nil {
			return eris.Wrap(err, "read batch file")
		}
		var subjects []model.Subject
		if err := json.Unmarshal(data, &subjects); err != nil {
			return eris.Wrap(err, "parse batch file")
		}
		if len(subjects) == 0 {
			return eris.New("batch file contains no subjects")
		}

		st, screener, err := initScreener(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		results := screener.ScreenBatch(ctx, subjects)

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				continue
			}
			exportReport(r.Run.Report)
		}
		zap.L().Info("batch complete",
			zap.Int("total", len(results)),
			zap.Int("failed", failed),
		)
		if failed > 0 {
			return eris.Errorf("%d of %d screenings failed", failed, len(results))
		}
		return nil
	},
}

func runScreening(ctx context.Context, subject model.Subject) error {
	st, screener, err := initScreener(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := screener.Screen(ctx, subject)
	if err != nil {
		return eris.Wrap(err, "screen")
	}

	exportReport(run.Report)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// initScreener builds the screener and its store from global config.
func initScreener(ctx context.Context) (store.Store, *pipeline.Screener, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	scoring := metrics.DefaultConfig()
	if cfg.Scoring.Path != "" {
		scoring, err = metrics.LoadConfig(cfg.Scoring.Path)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
	}

	screener := pipeline.New(cfg, st, pipeline.NewProviders(cfg), assemble.New(scoring))
	return st, screener, nil
}

// exportReport writes the report file when an export format is requested.
// Export failure is reported but never fails the screening.
func exportReport(report *model.Report) {
	format := export.Format(screenExport)
	if report == nil || format == "" {
		return
	}
	result := export.Attempt(report, cfg.Export.Dir, format)
	if result.Err != nil {
		zap.L().Error("export failed",
			zap.String("format", string(format)),
			zap.Error(result.Err),
		)
		return
	}
	zap.L().Info("report exported", zap.String("path", result.Path))
}

func init() {
	screenCompanyCmd.Flags().StringVar(&screenCountry, "country", "", "subject country code")
	screenCompanyCmd.Flags().StringVar(&screenDomain, "domain", "", "company website domain")
	screenCompanyCmd.Flags().StringVar(&screenCorpCode, "corp-code", "", "DART corporate registry code")

	screenIndividualCmd.Flags().StringVar(&screenCountry, "country", "", "subject country code")
	screenIndividualCmd.Flags().StringVar(&screenDOB, "dob", "", "date of birth (YYYY-MM-DD)")

	screenBatchCmd.Flags().StringVar(&screenBatchIn, "file", "", "JSON file of subjects (required)")
	_ = screenBatchCmd.MarkFlagRequired("file")

	for _, c := range []*cobra.Command{screenCompanyCmd, screenIndividualCmd, screenBatchCmd} {
		c.Flags().StringVar(&screenExport, "export", "", "export format (json, xlsx)")
	}

	screenCmd.AddCommand(screenCompanyCmd)
	screenCmd.AddCommand(screenIndividualCmd)
	screenCmd.AddCommand(screenBatchCmd)
	rootCmd.AddCommand(screenCmd)
}
