// Command bgwire automates transfers through the bank's web interface:
// collecting batches interactively, queueing them durably on disk, and
// driving them through the remote UI one at a time.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bgwire/bgwire/internal/browser"
	"github.com/bgwire/bgwire/internal/config"
	"github.com/bgwire/bgwire/internal/engine"
	"github.com/bgwire/bgwire/internal/queue"
	"github.com/bgwire/bgwire/internal/ui"
)

var (
	configDir string

	// Signal-aware context for graceful cancellation.
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:           "bgwire",
	Short:         "Automate bank transfers through the remote web interface",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configDir == "" {
			dir, err := config.DefaultDir()
			if err != nil {
				return err
			}
			configDir = dir
		}
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return fmt.Errorf("creating configuration directory %s: %w", configDir, err)
		}
		return nil
	},
}

func main() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer rootCancel()

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/"+config.DefaultDirName+")")

	if err := rootCmd.ExecuteContext(rootCtx); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderFail("Error: "+err.Error()))
		os.Exit(1)
	}
}

// loadSettings reads the main configuration, prompting for the password on
// the terminal when the config file does not carry one.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	if settings.Password == "" {
		color.New(color.Bold).Fprintf(os.Stderr, "Password for %s: ", settings.Username)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		settings.Password = string(raw)
	}
	return settings, nil
}

// newEngine assembles the execution engine for one command invocation.
func newEngine(settings *config.Settings, store *queue.Store) *engine.Engine {
	var drv browser.Driver
	switch settings.Driver {
	case config.DriverSelenium:
		drv = browser.NewSelenium(settings.DriverEndpoint, settings.DriverBrowser)
	default:
		drv = browser.NewPhantomJS(settings.DriverEndpoint)
	}
	return engine.New(engine.Config{
		Session: browser.NewSession(drv),
		Site:    engine.SiteV2,
		Store:   store,
		Out:     os.Stdout,
		BaseURL: settings.BaseURL,
		Credentials: engine.Credentials{
			Username: settings.Username,
			Password: settings.Password,
		},
		WaitTimeout:  settings.WaitTimeout,
		PollInterval: settings.PollInterval,
	})
}
