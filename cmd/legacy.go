/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/moamenhredeen/relcheck/internal/pipeline"
	"github.com/moamenhredeen/relcheck/internal/tester"
	"github.com/spf13/cobra"
)

// legacyCmd represents the legacy command
var legacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "Check that the legacy categoryId field still works",
	Long: `Create one product using the old singular "categoryId" field and check
that the service answers with a populated "category" object.

  SUCCESS          product created and category populated
  PARTIAL SUCCESS  product created but category missing or null
  FAILURE          product could not be created

The check is not scored and the product is not deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromCmd(cmd)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		w := os.Stdout
		printHeader(w, "LEGACY categoryId CHECK", cfg.Server, "")
		fmt.Fprintf(w, "User: %d, category: %d\n\n", cfg.Legacy.UserID, cfg.Legacy.CategoryID)

		t := tester.NewTester(tester.Config{Timeout: cfg.Timeout, RateLimit: cfg.Rate})
		res := pipeline.RunLegacy(cmd.Context(), pipeline.NewEnv(cfg, t))
		printCheck(w, res.Check, verbose)

		fmt.Fprintln(w)
		switch res.Outcome {
		case pipeline.LegacySuccess:
			name := tester.StringField(nestedObject(res.Product, "category"), "name", "?")
			fmt.Fprintf(w, "%s category populated: %s\n", green(res.Outcome), name)
		case pipeline.LegacyPartial:
			fmt.Fprintf(w, "%s product created but category is missing or null\n", yellow(res.Outcome))
		default:
			fmt.Fprintf(w, "%s %v\n", red(res.Outcome), res.Err)
		}

		if id, ok := tester.IDOf(res.Product); ok {
			logger.Info("legacy product left in place", "id", id)
		}
		return nil
	},
}

func nestedObject(obj map[string]any, key string) map[string]any {
	if nested, ok := obj[key].(map[string]any); ok {
		return nested
	}
	return nil
}

func init() {
	rootCmd.AddCommand(legacyCmd)

	flags := legacyCmd.Flags()
	flags.Int64("user-id", 1, "Owner of the legacy product")
	flags.Int64("category-id", 1, "Category sent in the legacy categoryId field")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show the curl line and duration")

	bindFlag("legacy.user_id", flags.Lookup("user-id"))
	bindFlag("legacy.category_id", flags.Lookup("category-id"))
}
