package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/colonyops/extguard/internal/core/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migration is one schema step. Versions are contiguous from 1 and the
// applied version is tracked in SQLite's user_version pragma.
type migration struct {
	version int
	name    string
	up      string
	down    string
}

// readMigrations loads NNNN_name.up.sql / NNNN_name.down.sql pairs from fsys.
func readMigrations(fsys fs.FS) ([]migration, error) {
	ups, err := fs.Glob(fsys, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	downs, err := fs.Glob(fsys, "migrations/*.down.sql")
	if err != nil {
		return nil, err
	}
	if len(ups) != len(downs) {
		return nil, fmt.Errorf("found %d up and %d down migrations", len(ups), len(downs))
	}

	out := make([]migration, 0, len(ups))
	for _, upPath := range ups {
		base := strings.TrimSuffix(path.Base(upPath), ".up.sql")
		version, name, err := parseMigrationName(base)
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", path.Base(upPath), err)
		}

		up, err := fs.ReadFile(fsys, upPath)
		if err != nil {
			return nil, err
		}
		down, err := fs.ReadFile(fsys, path.Join(path.Dir(upPath), base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("migration %04d has no down file: %w", version, err)
		}

		out = append(out, migration{version: version, name: name, up: string(up), down: string(down)})
	}

	slices.SortFunc(out, func(a, b migration) int { return a.version - b.version })
	for i, m := range out {
		if m.version != i+1 {
			return nil, fmt.Errorf("migration versions must run 1..%d without gaps; found %04d at position %d", len(out), m.version, i+1)
		}
	}
	return out, nil
}

// parseMigrationName splits "0002_kv_expiry_index" into (2, "kv_expiry_index").
func parseMigrationName(base string) (int, string, error) {
	num, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("expected NNNN_name")
	}
	version, err := strconv.Atoi(num)
	if err != nil {
		return 0, "", fmt.Errorf("version %q is not a number", num)
	}
	if version <= 0 {
		return 0, "", fmt.Errorf("version must be positive, got %d", version)
	}
	return version, name, nil
}

// schemaVersion returns the last applied migration version.
func schemaVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// step runs sqlText and records version as the schema version in one
// transaction.
func step(ctx context.Context, conn *sql.DB, sqlText string, version int) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, sqlText); err != nil {
		return err
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, "PRAGMA user_version = "+strconv.Itoa(version)); err != nil {
		return err
	}
	return tx.Commit()
}

func migrateUp(ctx context.Context, conn *sql.DB) error {
	log := logging.Component("db")

	migrations, err := readMigrations(migrationsFS)
	if err != nil {
		return err
	}
	current, err := schemaVersion(ctx, conn)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", current, len(migrations))
	}

	for _, m := range migrations[current:] {
		log.Info().Int("version", m.version).Str("name", m.name).Msg("applying migration")
		if err := step(ctx, conn, m.up, m.version); err != nil {
			return fmt.Errorf("migration %04d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// MigrateDown reverts the last n applied migrations.
func MigrateDown(ctx context.Context, conn *sql.DB, n int) error {
	if n <= 0 {
		return fmt.Errorf("n must be positive, got %d", n)
	}

	migrations, err := readMigrations(migrationsFS)
	if err != nil {
		return err
	}
	current, err := schemaVersion(ctx, conn)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", current, len(migrations))
	}
	if n > current {
		return fmt.Errorf("requested %d down migrations but only %d are applied", n, current)
	}

	log := logging.Component("db")
	for v := current; v > current-n; v-- {
		m := migrations[v-1]
		log.Info().Int("version", m.version).Str("name", m.name).Msg("reverting migration")
		if err := step(ctx, conn, m.down, v-1); err != nil {
			return fmt.Errorf("revert migration %04d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}
