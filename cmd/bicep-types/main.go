package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptoluganti/bicep/internal/cli"
	"github.com/ptoluganti/bicep/pkg/config"
)

func main() {
	root := &cobra.Command{
		Use:   "bicep-types",
		Short: "Load, import and inspect resource type schemas",
	}

	root.AddCommand(newMaterializeCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newDescribeCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newMaterializeCmd() *cobra.Command {
	var format string
	var resource string

	cmd := &cobra.Command{
		Use:   "materialize <schema-doc>",
		Short: "Materialize resource types from a schema document and print them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunMaterialize(cli.MaterializeParams{
				Input:    args[0],
				Format:   format,
				Resource: resource,
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatNative, "source format: native or openapi")
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "only this qualified resource type")
	return cmd
}

func newImportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "import <openapi-doc>",
		Short: "Convert an OpenAPI document into the native schema document format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunImport(cli.ImportParams{Input: args[0], Out: out})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var configPath string
	var format string
	var resource string
	var outDir string

	cmd := &cobra.Command{
		Use:   "describe [schema-doc]",
		Short: "Render markdown documentation for resource types",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return cli.RunDescribe(cli.DescribeParams{
				ConfigPath: configPath,
				Input:      input,
				Format:     format,
				Resource:   resource,
				OutDir:     outDir,
			})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file listing sources")
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatNative, "source format: native or openapi")
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "only this qualified resource type")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory for markdown files (default stdout)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <schema-doc>",
		Short: "Check that a schema document loads cleanly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(args[0], format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatNative, "source format: native or openapi")
	return cmd
}
