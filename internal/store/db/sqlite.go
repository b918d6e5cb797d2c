package db // import "github.com/Takashicc/repub/internal/store/db"

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/Takashicc/repub/internal/log"
	"github.com/Takashicc/repub/internal/store"
	"go.uber.org/zap"
)

// SchemaVersion is recorded in migration_history once the latest schema
// has been applied.
const SchemaVersion = "0.1.0"

const latestSchemaFileName = "LATEST_SCHEMA.sql"

//go:embed migration
var migrationFS embed.FS

type DB struct {
	*sql.DB
	dsn string
}

// NewDB opens the sqlite database at dsn. ":memory:" is accepted; the pool
// is limited to one connection so every query sees the same database.
func NewDB(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}

	d, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dsn)
	}
	d.SetMaxOpenConns(1)

	return &DB{DB: d, dsn: dsn}, nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}

// Migrate applies the latest schema unless this version is already recorded.
func (d *DB) Migrate(ctx context.Context) error {
	exist, err := d.CheckTableExists(ctx, "migration_history")
	if err != nil {
		return errors.Wrap(err, "failed to check database table")
	}
	if exist {
		list, err := d.FindMigrationHistoryList(ctx, &store.FindMigrationHistory{})
		if err != nil {
			return errors.Wrap(err, "failed to find migration history list")
		}
		for _, h := range list {
			if h.Version == SchemaVersion {
				return nil
			}
		}
	}

	log.Debug("Applying latest schema", zap.String("dsn", d.dsn), zap.String("version", SchemaVersion))
	if err := d.applyLatestSchema(ctx); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	if _, err := d.UpsertMigrationHistory(ctx, &store.UpsertMigrationHistory{
		Version: SchemaVersion,
	}); err != nil {
		return errors.Wrap(err, "failed to upsert migration history")
	}
	return nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	latestSchemaPath := fmt.Sprintf("migration/%s", latestSchemaFileName)
	buf, err := migrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaPath)
	}

	stmt := string(buf)
	if err := d.execute(ctx, stmt); err != nil {
		return errors.Wrapf(err, "failed to apply latest schema: %s", latestSchemaPath)
	}
	return nil
}

// execute runs a single SQL statement within a transaction.
func (d *DB) execute(ctx context.Context, stmt string) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}

	return tx.Commit()
}
