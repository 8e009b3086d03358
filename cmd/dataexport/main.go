package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/snapshot"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/storage"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(context.Background(), os.Args, os.Stdout); err != nil {
		log.Error().Err(err).Msg("export failed")
		os.Exit(1)
	}
}

// exportConfig holds the dataexport flags
type exportConfig struct {
	Format    string
	Output    string
	FromStore bool
}

func (c *exportConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (json or yaml)",
			Value:       "json",
			Sources:     cli.EnvVars("EXPORT_FORMAT"),
			Destination: &c.Format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file, - for stdout",
			Value:       "-",
			Destination: &c.Output,
		},
		&cli.BoolFlag{
			Name:        "from-store",
			Usage:       "Read datasets from the configured store instead of the built-in fixtures",
			Sources:     cli.EnvVars("EXPORT_FROM_STORE"),
			Destination: &c.FromStore,
		},
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var cfg exportConfig

	app := &cli.Command{
		Name:  "dataexport",
		Usage: "Write the dashboard datasets as a single JSON or YAML document",
		Flags: cfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			format, err := snapshot.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}

			var store storage.Store = storage.NewFixtureStore()
			if cfg.FromStore {
				store, err = storage.NewStore(ctx, log.Logger)
				if err != nil {
					return fmt.Errorf("failed to open store: %w", err)
				}
			}

			snap, err := storage.BuildSnapshot(ctx, store)
			if err != nil {
				return err
			}

			if cfg.Output == "-" {
				if err := snapshot.Encode(stdout, snap, format); err != nil {
					return fmt.Errorf("failed to encode snapshot: %w", err)
				}
			} else if err := writeFile(cfg.Output, snap, format); err != nil {
				return err
			}

			log.Info().
				Str("format", string(format)).
				Str("output", cfg.Output).
				Int("reports", len(snap.Reports)).
				Msg("snapshot exported")
			return nil
		},
	}

	return app.Run(ctx, args)
}

// writeFile encodes the snapshot into path; a failed close fails the export
func writeFile(path string, snap *types.Snapshot, format snapshot.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := snapshot.Encode(f, snap, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
