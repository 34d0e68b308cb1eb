// Command ledgerctl runs statement, numbering and backup tasks against the
// configured store without starting the HTTP server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_invoicing_app/internal/core/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/middleware"
	"github.com/SscSPs/ledger_invoicing_app/internal/platform/config"
	"github.com/SscSPs/ledger_invoicing_app/internal/platform/storage"
	"github.com/SscSPs/ledger_invoicing_app/internal/repositories/objectstore"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	app := &cli.App{
		Name:  "ledgerctl",
		Usage: "ledger statements, invoice numbering and backups",
		Commands: []*cli.Command{
			statementCommand(logger),
			nextInvoiceIDCommand(logger),
			backupCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("ledgerctl failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// env carries what every command needs once the store is open.
type env struct {
	cfg   *config.Config
	repos portsrepo.RepositoryProvider
}

func withStore(c *cli.Context, logger *slog.Logger, run func(env) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	ctx := middleware.WithLogger(c.Context, logger)
	repos, closeStore, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	c.Context = ctx
	return run(env{cfg: cfg, repos: repos})
}

func statementCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "statement",
		Usage: "render a customer's ledger statement to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "customer", Usage: "customer ID", Required: true},
			&cli.StringFlag{Name: "year", Usage: "financial year, e.g. 2024-25 (defaults to the current one)"},
			&cli.StringFlag{Name: "format", Value: "pdf", Usage: "pdf or html"},
			&cli.StringFlag{Name: "out", Usage: "output file (defaults to the statement's own file name)"},
		},
		Action: func(c *cli.Context) error {
			return withStore(c, logger, func(e env) error {
				container := services.NewServiceContainer(e.cfg, e.repos)
				doc, err := container.Statement.RenderStatement(c.Context, c.String("customer"), domain.FinancialYear(c.String("year")), c.String("format"))
				if err != nil {
					return err
				}

				out := c.String("out")
				if out == "" {
					out = doc.FileName
				}
				if err := os.WriteFile(out, doc.Body, 0o644); err != nil {
					return fmt.Errorf("failed to write statement: %w", err)
				}
				fmt.Fprintln(c.App.Writer, out)
				return nil
			})
		},
	}
}

func nextInvoiceIDCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "next-invoice-id",
		Usage: "print the id the next invoice created today would receive",
		Action: func(c *cli.Context) error {
			return withStore(c, logger, func(e env) error {
				container := services.NewServiceContainer(e.cfg, e.repos)
				id, _, err := container.Invoice.NextInvoiceID(c.Context)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, id)
				return nil
			})
		},
	}
}

func backupCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "export customers, invoices and ledger entries as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "directory to write the CSV files to", Required: true},
			&cli.BoolFlag{Name: "upload", Usage: "upload the files to BACKUP_S3_BUCKET"},
		},
		Action: func(c *cli.Context) error {
			return withStore(c, logger, func(e env) error {
				dir := filepath.Clean(c.String("dir"))
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create backup directory: %w", err)
				}

				var uploader portsrepo.BackupUploader
				if c.Bool("upload") {
					if e.cfg.BackupS3Bucket == "" {
						return fmt.Errorf("--upload needs BACKUP_S3_BUCKET to be set")
					}
					s3Uploader, err := objectstore.NewS3Uploader(e.cfg.BackupS3Bucket, e.cfg.BackupS3Region)
					if err != nil {
						return err
					}
					uploader = s3Uploader
				}

				backup := services.NewBackupService(e.repos, uploader, services.WithSettings(services.SettingsFromConfig(e.cfg)))
				paths, err := backup.Export(c.Context, dir)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintln(c.App.Writer, p)
				}

				if uploader == nil {
					return nil
				}
				// On a partial failure the files already uploaded are still listed.
				locations, err := backup.Upload(c.Context, paths)
				for _, l := range locations {
					fmt.Fprintln(c.App.Writer, l)
				}
				return err
			})
		},
	}
}
