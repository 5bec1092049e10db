package main

import (
	"fmt"
	"os"

	"github.com/ikkim/animeroast-backend/config"
	"github.com/ikkim/animeroast-backend/internal/app/repository"
	"github.com/ikkim/animeroast-backend/internal/db"
	"github.com/ikkim/animeroast-backend/internal/export"
	"github.com/ikkim/animeroast-backend/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "export",
		Short:        "Export comments and shared roasts to xlsx",
		SilenceUsage: true,
	}
	root.AddCommand(newCommentsCommand(), newSharesCommand())
	return root
}

func newCommentsCommand() *cobra.Command {
	var (
		animeID uint
		out     string
	)
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Export every comment of one anime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(func(database *gorm.DB) error {
				comments, err := repository.NewCommentRepository(database).ListByAnime(cmd.Context(), animeID)
				if err != nil {
					return fmt.Errorf("failed to load comments: %w", err)
				}
				return writeFile(out, func(f *os.File) error { return export.WriteComments(f, comments) }, len(comments))
			})
		},
	}
	cmd.Flags().UintVar(&animeID, "anime-id", 0, "AniList id of the anime")
	cmd.Flags().StringVar(&out, "out", "comments.xlsx", "output file")
	_ = cmd.MarkFlagRequired("anime-id")
	return cmd
}

func newSharesCommand() *cobra.Command {
	var (
		limit int
		out   string
	)
	cmd := &cobra.Command{
		Use:   "shares",
		Short: "Export the most recent shared roasts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(func(database *gorm.DB) error {
				shares, err := repository.NewRoastShareRepository(database).List(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("failed to load shares: %w", err)
				}
				return writeFile(out, func(f *os.File) error { return export.WriteShares(f, shares) }, len(shares))
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum number of shares")
	cmd.Flags().StringVar(&out, "out", "shares.xlsx", "output file")
	return cmd
}

func withDatabase(fn func(*gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Initialize(logger.Config{Level: "warn", Format: "console"})

	database, err := db.Initialize(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(database)

	return fn(database)
}

func writeFile(path string, write func(*os.File) error, count int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported %d rows to %s\n", count, path)
	return nil
}
