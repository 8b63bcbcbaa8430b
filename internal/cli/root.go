// Package cli wires the bookstore commands.
//
//	bookstore            start the HTTP server
//	bookstore serve      same as above
//	bookstore seed       insert sample books and users
package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entrypoint"
)

// NewRootCommand builds the command tree. Running the root without a
// subcommand starts the server.
func NewRootCommand(version string) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "bookstore",
		Short:         "Bookstore API server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(config.NewConfig(), version)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file to load before reading configuration")

	root.AddCommand(newServeCommand(version))
	root.AddCommand(newSeedCommand())
	return root
}

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(config.NewConfig(), version)
		},
	}
}

func newSeedCommand() *cobra.Command {
	seed := &SeedCommand{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample books and users",
		Long: "Insert a sample catalogue and two users into the configured store.\n" +
			"Books and users that already exist (same ISBN or email) are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			stores, err := entrypoint.OpenStores(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer closeStores(stores)

			books, users := entrypoint.NewServices(stores, cfg)
			_, err = seed.Run(ctx, books, users)
			return err
		},
	}
	cmd.Flags().IntVar(&seed.ExtraBooks, "extra-books", 0, "Number of generated books to add to the sample catalogue")
	cmd.Flags().BoolVarP(&seed.Verbose, "verbose", "v", false, "Log every inserted record")
	return cmd
}

func closeStores(stores *entrypoint.Stores) {
	if err := stores.Close(context.Background()); err != nil {
		log.Printf("Failed to close store: %v", err)
	}
}
