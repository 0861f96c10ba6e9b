/*
Package main is the entry point for the room token server.

The root command loads configuration, initializes the global logger and runs one of
the subcommands: serve (the default) starts the HTTP server; issue prints a single token.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"roomtoken/internal/app/token"
	"roomtoken/internal/configs"
	"roomtoken/internal/pkg/logx"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "roomtoken",
		Short:        "roomtoken issues signed room capability tokens",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(serveCmd(), issueCmd())
	return cmd
}

// setup loads configuration and builds the issuer. Any failure here is fatal:
// the process must not issue tokens without its application identity and secret.
func setup() (*configs.AppConfig, *token.Issuer, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		return nil, nil, err
	}

	logx.InitGlobalLogger(cfg.IsDevelopment(), cfg.LogLevel)

	issuer, err := token.NewIssuer(cfg.IssuerConfig())
	if err != nil {
		logx.Error(err, "Failed to create token issuer")
		return nil, nil, err
	}

	return cfg, issuer, nil
}
