package main

import (
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/oddsdesk/internal/adapters/storage"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy the current snapshot into the SQLite store",
		Long: `Copy the current snapshot (--file, --url or the embedded sample) into the
SQLite database at storage.dsn. Later commands can read it with --sqlite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, closeSrc, err := a.source(false)
			if err != nil {
				return err
			}
			defer closeSrc()

			ds, err := src.Load(cmd.Context())
			if err != nil {
				return err
			}

			store, err := storage.NewSQLiteStore(a.cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Import(cmd.Context(), ds); err != nil {
				return err
			}

			slog.Info("snapshot imported",
				"dsn", a.cfg.Storage.DSN,
				"questions", len(ds.Questions),
				"quotes", len(ds.Quotes),
				"events", len(ds.Events),
			)
			fmt.Fprintf(a.out, "imported %d questions, %d quotes, %d events into %s\n",
				len(ds.Questions), len(ds.Quotes), len(ds.Events), a.cfg.Storage.DSN)
			return nil
		},
	}
}
