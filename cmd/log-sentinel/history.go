package main

import (
	"errors"
	"fmt"
	"os"

	"log-sentinel/internal/archive"
	"log-sentinel/internal/output"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print alerts stored in an archive database, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("--archive is required")
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			// opening a missing path would create an empty database
			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}

			store, err := archive.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			alerts, err := store.Recent(limit)
			if err != nil {
				return err
			}

			format := "text"
			if asJSON {
				format = "json"
			}
			sink, err := output.New(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			for _, a := range alerts {
				if err := sink.Emit(a); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "archive", "", "SQLite archive written by --archive")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of alerts to print")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print alerts as JSON Lines")
	return cmd
}
