// Package main is the entry point for the skillcompass CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillcompass/skillcompass/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillcompass",
		Short: "SkillCompass talent development server",
		Long:  `SkillCompass keeps a catalog of courses, certifications and roles and serves AI-generated career trajectory, learning and role recommendations over HTTP.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
