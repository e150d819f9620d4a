package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quarterclose/sift/internal/rules"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalogue",
		Long: `Rules prints every rule in the catalogue with its id, category, and
whether the current configuration enables it. Rule ids are what the
rules.enabled config key and the analyze --enable flag accept.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := rules.DefaultConfig()
			cfg.EnabledRules = viper.GetStringSlice("rules.enabled")

			for _, rule := range rules.Catalogue() {
				state := "enabled"
				if !cfg.IsEnabled(rule.ID) {
					state = "disabled"
				}
				note := ""
				if rule.DatasetLevel {
					note = "  [dataset-level]"
				}
				fmt.Printf("%-24s %-28s %s%s\n", rule.ID, rule.Category, state, note)
			}
			return nil
		},
	}
}
