package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"atelier/internal/app"
	"atelier/internal/service"
)

var (
	flagDataDir  string
	flagAutosave string
)

var rootCmd = &cobra.Command{
	Use:   "atelier",
	Short: "Event-sourced design engine for an infinite-canvas editor",
}

func init() {
	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".local", "share", "atelier")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", defaultDataDir, "directory for the project database and exports")
	rootCmd.PersistentFlags().StringVar(&flagAutosave, "autosave", "@every 5m", "cron spec for snapshot autosave, empty to disable")
}

// newApp builds and starts a headless app instance. The caller owns
// shutdown.
func newApp(cmd *cobra.Command) (*app.App, error) {
	a := app.New(app.Config{
		DataDir:      flagDataDir,
		AutosaveSpec: flagAutosave,
		Emitter:      service.NoopEmitter{},
	})
	if err := a.Startup(cmd.Context()); err != nil {
		return nil, fmt.Errorf("startup: %w", err)
	}
	return a, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
