package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-grant-server/internal/config"
	"github.com/jrsteele09/go-grant-server/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "grant-server",
		Short:         "Issues authorization codes and exchanges them for access tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newCredentialsCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := config.New()
			logger := logging.New(c.GetEnv(), c.GetLogLevel())
			log.Logger = logger

			displayAppname(c.GetAppName())
			return run(cmd.Context(), c, logger)
		},
	}
}

func newCredentialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credentials",
		Short: "Print a freshly generated client ID and secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := config.New()
			credential, err := newCredentialIssuer(c).Generate()
			if err != nil {
				return fmt.Errorf("generate credentials: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "client_id=%s\nclient_secret=%s\n", credential.ID, credential.Secret)
			return nil
		},
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
