package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"onlinecourse/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const versionTable = "schema_migrations"

// Migrator applies the embedded migrations. golang-migrate ships no Oracle
// database driver, so its iofs source provides ordering and file access while
// statements run through sqlx one at a time.
type Migrator struct {
	db  *sqlx.DB
	src source.Driver
}

func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

// Up applies every migration newer than the recorded ones and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}
	pending, err := m.pending(applied)
	if err != nil {
		return 0, err
	}

	for _, version := range pending {
		r, identifier, err := m.src.ReadUp(version)
		if err != nil {
			return 0, fmt.Errorf("could not read migration %d: %w", version, err)
		}
		if err := m.run(ctx, r); err != nil {
			return 0, fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, err)
		}
		if _, err := m.db.ExecContext(ctx, `INSERT INTO `+versionTable+` (version) VALUES (:1)`, version); err != nil {
			return 0, fmt.Errorf("could not record migration %d: %w", version, err)
		}
		logger.Get().Info("Executed migration", zap.Uint("version", version), zap.String("name", identifier))
	}
	return len(pending), nil
}

// Down reverts the latest steps migrations.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}
	versions := make([]uint, 0, len(applied))
	for v := range applied {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })
	if steps > 0 && steps < len(versions) {
		versions = versions[:steps]
	}

	for _, version := range versions {
		r, identifier, err := m.src.ReadDown(version)
		if err != nil {
			return 0, fmt.Errorf("could not read down migration %d: %w", version, err)
		}
		if err := m.run(ctx, r); err != nil {
			return 0, fmt.Errorf("could not revert migration %d_%s: %w", version, identifier, err)
		}
		if _, err := m.db.ExecContext(ctx, `DELETE FROM `+versionTable+` WHERE version = :1`, version); err != nil {
			return 0, fmt.Errorf("could not unrecord migration %d: %w", version, err)
		}
		logger.Get().Info("Reverted migration", zap.Uint("version", version), zap.String("name", identifier))
	}
	return len(versions), nil
}

func (m *Migrator) Close() error {
	return m.src.Close()
}

func (m *Migrator) pending(applied map[uint]struct{}) ([]uint, error) {
	var out []uint
	version, err := m.src.First()
	for {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return out, nil
			}
			return nil, fmt.Errorf("could not list migrations: %w", err)
		}
		if _, ok := applied[version]; !ok {
			out = append(out, version)
		}
		version, err = m.src.Next(version)
	}
}

func (m *Migrator) run(ctx context.Context, r io.ReadCloser) error {
	defer r.Close()
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	for _, stmt := range SplitStatements(string(body)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w (statement: %.80s)", err, stmt)
		}
	}
	return nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	var count int
	err := m.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM user_tables WHERE table_name = :1`, strings.ToUpper(versionTable))
	if err != nil {
		return fmt.Errorf("could not check %s: %w", versionTable, err)
	}
	if count > 0 {
		return nil
	}
	_, err = m.db.ExecContext(ctx, `CREATE TABLE `+versionTable+` (
    version    NUMBER(19) NOT NULL,
    applied_at TIMESTAMP DEFAULT SYSTIMESTAMP NOT NULL,
    CONSTRAINT pk_schema_migrations PRIMARY KEY (version)
)`)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", versionTable, err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[uint]struct{}, error) {
	var versions []int64
	if err := m.db.SelectContext(ctx, &versions, `SELECT version FROM `+versionTable); err != nil {
		return nil, fmt.Errorf("could not read applied migrations: %w", err)
	}
	applied := make(map[uint]struct{}, len(versions))
	for _, v := range versions {
		applied[uint(v)] = struct{}{}
	}
	return applied, nil
}

// SplitStatements breaks a migration file into single statements. Oracle
// executes one statement per call and rejects the trailing semicolon.
func SplitStatements(script string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(cur.String())
			out = append(out, strings.TrimSuffix(stmt, ";"))
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}
