/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/moamenhredeen/relcheck/internal/parser"
	"github.com/moamenhredeen/relcheck/internal/tester"
	"github.com/spf13/cobra"
)

// routesCmd represents the routes command
var routesCmd = &cobra.Command{
	Use:   "routes [openapi-spec-file]",
	Short: "Check an OpenAPI document declares every endpoint relcheck calls",
	Long: `Parse the OpenAPI document of the service under test and report, for
every endpoint the runner calls, whether the document declares it.

Path parameter names are not compared: /api/products/{id} matches
/api/products/{productId}.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromCmd(cmd)

		p, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}

		if servers, err := p.GetServerURLs(); err != nil {
			logger.Warn("could not read servers", "error", err)
		} else if len(servers) > 0 {
			fmt.Printf("Servers: %v\n\n", servers)
		}

		coverage, err := p.CheckRoutes(tester.Routes)
		if err != nil {
			return err
		}

		declared := 0
		for _, c := range coverage {
			status := red("✗")
			if c.Declared {
				status = green("✓")
				declared++
			}
			fmt.Printf("%s %-7s %-38s %s\n", status, c.Route.Method, c.Route.Path, c.Route.Purpose)
		}

		fmt.Println()
		summary := fmt.Sprintf("%d/%d endpoints declared", declared, len(coverage))
		if declared == len(coverage) {
			fmt.Println(green(summary))
		} else {
			fmt.Println(yellow(summary))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
