package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"skillcheck/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFiles embed.FS

const versionTable = "schema_migrations"

// RunMigrations applies the embedded *.up.sql files for dialect ("oracle" or
// "sqlite") in name order. Applied versions are tracked in
// schema_migrations, so running it again is a no-op.
func RunMigrations(ctx context.Context, db *sqlx.DB, dialect string) error {
	dir := path.Join("migrations", dialect)
	entries, err := fs.ReadDir(migrationFiles, dir)
	if err != nil {
		return fmt.Errorf("no migrations for dialect %q: %w", dialect, err)
	}

	if err := ensureVersionTable(ctx, db); err != nil {
		return err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		version := strings.TrimSuffix(name, ".up.sql")
		if applied[version] {
			continue
		}

		content, err := migrationFiles.ReadFile(path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("could not read migration %s: %w", name, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		insert := db.Rebind("INSERT INTO " + versionTable + " (version, applied_at) VALUES (?, ?)")
		if _, err := db.ExecContext(ctx, insert, version, time.Now().UTC()); err != nil {
			return fmt.Errorf("could not record migration %s: %w", name, err)
		}
		logger.Get().Info("applied migration", zap.String("version", version))
	}
	return nil
}

// SplitStatements splits a migration file into statements on ';'. go-ora
// executes one statement per call and rejects a trailing semicolon.
func SplitStatements(content string) []string {
	var stmts []string
	for _, part := range strings.Split(content, ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func ensureVersionTable(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+versionTable); err == nil {
		return nil
	}
	_, err := db.ExecContext(ctx, "CREATE TABLE "+versionTable+" (version VARCHAR(64) PRIMARY KEY, applied_at TIMESTAMP NOT NULL)")
	if err != nil {
		return fmt.Errorf("could not create %s: %w", versionTable, err)
	}
	return nil
}

func appliedVersions(ctx context.Context, db *sqlx.DB) (map[string]bool, error) {
	var versions []string
	if err := db.SelectContext(ctx, &versions, "SELECT version FROM "+versionTable); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", versionTable, err)
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}
