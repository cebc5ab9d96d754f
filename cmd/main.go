// Package main is the production entry point for the Apparition visualizer.
//
// Apparition plays a looping audio clip and draws its spectrum over two
// cross-fading backgrounds, stamping decorative images on loud peaks:
// - Event-driven communication (no callbacks)
// - Dependency injection for testability
// - MVP pattern for UI decoupling
//
// Build:
//
//	go build -o build/apparition ./cmd
//
// Run:
//
//	./build/apparition --clip assets/apparition-ox-clip.mp3
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/apparition/internal/app"
	"github.com/tejashwikalptaru/apparition/internal/config"
)

// options holds the command-line flags.
type options struct {
	configPath string
	clip       string
	mock       bool
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCommand(run).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. runApp receives the resolved configuration.
func newRootCommand(runApp func(app.Config) error) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "apparition",
		Short:         "Audio-reactive visualizer",
		Version:       app.GetVersionInfo().Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runApp(cfg)
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "",
		"Path to a YAML config file (default "+config.DefaultPath+" when present)")
	flags.StringVar(&opts.clip, "clip", "", "MP3 or WAV clip to loop")
	flags.BoolVar(&opts.mock, "mock", false, "Use a synthesized signal instead of an audio device")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(app.GetVersionInfo().FullString())
		},
	})

	return rootCmd
}

// resolveConfig loads the config file and applies flags set on the command line.
func resolveConfig(cmd *cobra.Command, opts *options) (app.Config, error) {
	fileCfg, err := config.Load(opts.configPath)
	if err != nil {
		return app.Config{}, err
	}

	cfg := app.DefaultConfig()
	cfg.Config = fileCfg

	flags := cmd.Flags()
	if flags.Changed("clip") {
		cfg.Audio.Clip = opts.clip
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	cfg.UseMockAudio = opts.mock

	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// run creates the application and blocks until the window closes.
func run(cfg app.Config) error {
	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Blocks until the window is closed
	application.Run()
	return nil
}
