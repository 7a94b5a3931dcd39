package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"Gin_postgres_redis_key_loans/app"
	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/importer"
	"Gin_postgres_redis_key_loans/logger"
	"Gin_postgres_redis_key_loans/services"
)

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "import rooms|borrowers FILE.csv",
		Short:     "Import rooms or borrowers from a CSV file",
		Long:      "Rows whose identity is empty or already registered are skipped; the others are created one by one.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(importer.KindRooms), string(importer.KindBorrowers)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := importer.ParseKind(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			rows, err := importer.DecodeCSV(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}

			cfg, err := setup()
			if err != nil {
				return err
			}
			log := logger.Get()
			a, err := app.New(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := services.New(db.NewRepo(a.DB), a.Locker, log)
			rep, err := svc.Imports.Import(cmd.Context(), kind, filepath.Base(args[1]), rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows, %d created, %d skipped\n", kind, rep.Total, rep.Created, len(rep.Skipped))
			for _, s := range rep.Skipped {
				line := fmt.Sprintf("  row %d", s.Row)
				if s.Identity != "" {
					line += fmt.Sprintf(" (%s)", s.Identity)
				}
				line += ": " + string(s.Reason)
				if s.Detail != "" {
					line += ": " + s.Detail
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
