package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nubarte/marketplace-client/internal/config"
)

func main() {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "nubarte",
		Short: "Command-line client for the Nubarte marketplace",
		Long: `Command-line client for the Nubarte marketplace.

Handles credential login with two-factor verification, keeps the session
validated against the server, and stores credentials encrypted on disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		loginCmd(&configPath),
		logoutCmd(&configPath),
		statusCmd(&configPath),
		registerCmd(&configPath),
		verifyEmailCmd(&configPath),
		forgotPasswordCmd(&configPath),
		setupEmail2FACmd(&configPath),
		sessionsCmd(&configPath),
		totpCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func displayAppName() {
	myFigure := figure.NewFigure(config.New().GetAppName(), "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
