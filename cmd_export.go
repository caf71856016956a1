package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagExportOut string

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "target file path (default: <data-dir>/<project-id>.json)")
}

var exportCmd = &cobra.Command{
	Use:   "export <project-id>",
	Short: "Export a project's event log to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Shutdown(cmd.Context())

		if _, err := a.OpenProject(args[0]); err != nil {
			return fmt.Errorf("open project: %w", err)
		}
		path, err := a.ExportProject(flagExportOut)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Println(path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <project-id> <file>",
	Short: "Replace a project's history with an event log read from a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Shutdown(cmd.Context())

		if _, err := a.OpenProject(args[0]); err != nil {
			return fmt.Errorf("open project: %w", err)
		}
		if err := a.ImportProject(args[1]); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		return nil
	},
}
