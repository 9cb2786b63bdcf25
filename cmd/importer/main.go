// Package main implements showoff-import, which seeds the catalog from TMDB.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"showoff/internal/config"
	"showoff/internal/database"
	"showoff/internal/importer"
	"showoff/internal/logging"
	"showoff/internal/repository"
	"showoff/internal/tmdb"
)

var (
	pages    int
	episodes bool
	timeout  time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "showoff-import",
	Short: "Seed and maintain the showoff catalog",
	Long: `showoff-import fills the shows and episodes tables from TMDB's popular
TV list and can reset derived average ratings.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall deadline for the command")

	importCmd.Flags().IntVar(&pages, "pages", 1, "number of popular-TV pages to fetch")
	importCmd.Flags().BoolVar(&episodes, "episodes", false, "also import season 1 episodes of each show")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import popular shows from TMDB",
	Long: `Import popular shows from TMDB into the catalog.

Examples:
  # Import the first two pages of shows
  showoff-import import --pages=2

  # Import shows and their season 1 episodes
  showoff-import import --episodes`,
	RunE: runImport,
}

var resetCmd = &cobra.Command{
	Use:   "reset-ratings",
	Short: "Zero every show and episode average rating",
	RunE:  runReset,
}

func runImport(cmd *cobra.Command, _ []string) error {
	if pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}
	return withImporter(func(ctx context.Context, im *importer.Importer) error {
		n := im.ImportShows(ctx, pages)
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d shows\n", n)
		if episodes {
			n = im.ImportEpisodes(ctx, pages)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d episodes\n", n)
		}
		return nil
	})
}

func runReset(cmd *cobra.Command, _ []string) error {
	return withImporter(func(ctx context.Context, im *importer.Importer) error {
		n, err := im.ResetRatings(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reset %d ratings\n", n)
		return nil
	})
}

func withImporter(run func(ctx context.Context, im *importer.Importer) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := database.NewPostgres(cfg.DB, log)
	if err != nil {
		return err
	}
	defer db.Close()

	client := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, log)
	im := importer.New(client, repository.NewCatalogRepository(db), cfg.TMDB.ImageBase, log)

	if err := run(ctx, im); err != nil {
		log.Error("import command failed", zap.Error(err))
		return err
	}
	return nil
}
