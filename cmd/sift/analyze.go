package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quarterclose/sift/internal/engine"
	"github.com/quarterclose/sift/internal/ingest"
	"github.com/quarterclose/sift/internal/model"
	"github.com/quarterclose/sift/internal/reconcile"
	"github.com/quarterclose/sift/internal/report"
	"github.com/quarterclose/sift/internal/rules"
	"github.com/quarterclose/sift/internal/schema"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the risk analysis over a ledger export",
		Long: `Analyze normalizes the ledger with the configured column mapping, ties it
to the trial balance, and runs the rule catalogue and offset matcher.

Column mappings and rule parameters come from the config file; the common
thresholds can be overridden with flags.`,
		RunE: runAnalyze,
	}

	cmd.Flags().String("ledger", "", "ledger export file (.csv or .xlsx)")
	cmd.Flags().String("trial-balance", "", "trial balance file (.csv or .xlsx)")
	cmd.Flags().String("mapping", "", "column mapping file (yaml, overrides the config's mapping)")
	cmd.Flags().Float64("large-threshold", 0, "large-transaction threshold override")
	cmd.Flags().Float64("rounded-threshold", 0, "rounded-number threshold override")
	cmd.Flags().Float64("auth-threshold", 0, "authorization threshold override")
	cmd.Flags().String("closing-date", "", "closing date (YYYY-MM-DD) override")
	cmd.Flags().StringSlice("enable", nil, "run only the listed rule ids")
	cmd.Flags().Bool("skip-gate", false, "run rules even if the completeness gate fails")
	cmd.Flags().Bool("save", false, "persist this run to the run history database")
	cmd.Flags().String("export", "", "write flagged entries to a CSV file")
	_ = cmd.MarkFlagRequired("ledger")

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ledgerPath, _ := cmd.Flags().GetString("ledger")
	tbPath, _ := cmd.Flags().GetString("trial-balance")

	ledger, err := ingest.ReadFile(ledgerPath)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	slog.Info("Loaded ledger", "file", ledgerPath, "rows", len(ledger.Rows))

	var trialBalance []model.TrialBalanceRow
	if tbPath != "" {
		table, err := ingest.ReadFile(tbPath)
		if err != nil {
			return fmt.Errorf("failed to read trial balance: %w", err)
		}
		trialBalance, err = reconcile.ParseTrialBalance(table)
		if err != nil {
			return fmt.Errorf("failed to parse trial balance: %w", err)
		}
		slog.Info("Loaded trial balance", "file", tbPath, "accounts", len(trialBalance))
	}

	mapping, err := loadMapping(cmd)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	eng := engine.New(cfg)
	result, err := eng.Run(ctx, ledger, mapping, trialBalance)
	if err != nil {
		return err
	}

	formatter := report.NewFormatter()
	fmt.Println(formatter.FormatSummary(result))

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		runID, err := store.SaveRun(ctx, ledgerPath, result)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		slog.Info("Run saved", "run_id", runID)
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := exportFlagged(exportPath, result); err != nil {
			return fmt.Errorf("failed to export flagged entries: %w", err)
		}
		slog.Info("Flagged entries exported", "file", exportPath)
	}

	return nil
}

// loadMapping reads the column mapping from --mapping or from the main
// config's "mapping" section.
func loadMapping(cmd *cobra.Command) (schema.Mapping, error) {
	raw := viper.GetStringMapString("mapping")

	if path, _ := cmd.Flags().GetString("mapping"); path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read mapping file: %w", err)
		}
		raw = v.GetStringMapString("mapping")
		if len(raw) == 0 {
			// A flat file of field: column pairs is also accepted.
			raw = map[string]string{}
			for _, key := range v.AllKeys() {
				raw[key] = v.GetString(key)
			}
		}
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("no column mapping configured; set the mapping section in the config or pass --mapping")
	}

	// Viper lower-cases keys; restore them against the canonical catalogue.
	canonical := make(map[string]string, len(raw))
	for _, f := range append(append([]model.Field{}, model.RequiredFields...), model.OptionalFields...) {
		if v, ok := raw[strings.ToLower(string(f))]; ok {
			canonical[string(f)] = v
		}
	}

	return schema.MappingFromStrings(canonical)
}

func buildConfig(cmd *cobra.Command) (engine.Config, error) {
	rc := rules.DefaultConfig()

	if viper.IsSet("rules.large_threshold") {
		rc.LargeThreshold = viper.GetFloat64("rules.large_threshold")
	}
	if viper.IsSet("rules.rounded_threshold") {
		rc.RoundedThreshold = viper.GetFloat64("rules.rounded_threshold")
	}
	if viper.IsSet("rules.auth_threshold") {
		rc.AuthThreshold = viper.GetFloat64("rules.auth_threshold")
	}
	if viper.IsSet("rules.seldom_use_min_count") {
		rc.SeldomUseMinCount = viper.GetInt("rules.seldom_use_min_count")
	}
	rc.AuthorizedUsers = viper.GetStringSlice("rules.authorized_users")
	rc.Keywords = viper.GetStringSlice("rules.keywords")
	rc.EnabledRules = viper.GetStringSlice("rules.enabled")

	for _, s := range viper.GetStringSlice("rules.holidays") {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return engine.Config{}, fmt.Errorf("invalid holiday date %q: %w", s, err)
		}
		rc.Holidays = append(rc.Holidays, t)
	}

	closing := viper.GetString("rules.closing_date")
	if v, _ := cmd.Flags().GetString("closing-date"); v != "" {
		closing = v
	}
	if closing != "" {
		t, err := time.Parse("2006-01-02", closing)
		if err != nil {
			return engine.Config{}, fmt.Errorf("invalid closing date %q: %w", closing, err)
		}
		rc.ClosingDate = &t
	}

	if v, _ := cmd.Flags().GetFloat64("large-threshold"); v > 0 {
		rc.LargeThreshold = v
	}
	if v, _ := cmd.Flags().GetFloat64("rounded-threshold"); v > 0 {
		rc.RoundedThreshold = v
	}
	if v, _ := cmd.Flags().GetFloat64("auth-threshold"); v > 0 {
		rc.AuthThreshold = v
	}
	if v, _ := cmd.Flags().GetStringSlice("enable"); len(v) > 0 {
		rc.EnabledRules = v
	}

	skipGate, _ := cmd.Flags().GetBool("skip-gate")

	return engine.Config{Rules: rc, SkipGate: skipGate}, nil
}

// exportFlagged writes the bundle's flagged entries as CSV. This is the
// boundary exporter role: it consumes only the bundle, never the pipeline's
// internals.
func exportFlagged(path string, result *engine.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"row", "transaction_id", "categories"}); err != nil {
		return err
	}
	for _, entry := range result.Bundle.Entries {
		record := []string{
			fmt.Sprintf("%d", entry.Row),
			entry.TransactionID,
			strings.Join(entry.Categories, "; "),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}
