// Package db stores emote records in PostgreSQL.
package db

import (
	"context"
	"database/sql"
	"embed"

	"emperror.dev/errors"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/starshine-sys/nbot/common/log"

	migrate "github.com/rubenv/sql-migrate"

	// pgx driver for migrations
	_ "github.com/jackc/pgx/v4/stdlib"
)

// sq is a squirrel builder for postgres
var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var _ EmoteStore = (*DB)(nil)

type DB struct {
	*pgxpool.Pool
}

// New connects to the database at url.
// If migrate is true, all pending migrations are run first.
func New(ctx context.Context, url string, migrate bool) (*DB, error) {
	if migrate {
		_, err := RunMigrations(url, 0)
		if err != nil {
			return nil, errors.Wrap(err, "running migrations")
		}
	}

	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}

	return &DB{Pool: pool}, nil
}

// Close closes all connections in the pool.
func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}

//go:embed migrations
var fs embed.FS

// RunMigrations runs up to max pending migrations in migrations/, or all of them if max is 0.
func RunMigrations(url string, max int) (n int, err error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return 0, errors.Wrap(err, "opening database")
	}

	// we close this because we end up using pgx's native driver for all other queries.
	defer db.Close()

	err = db.Ping()
	if err != nil {
		return 0, errors.Wrap(err, "pinging database")
	}

	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "migrations",
	}

	migrate.SetTable("migration_history")

	n, err = migrate.ExecMax(db, "postgres", migrations, migrate.Up, max)
	if err != nil {
		return n, errors.Wrap(err, "running migrations")
	}

	if n != 0 {
		log.Debugf("Performed %v migrations!", n)
	}
	return n, nil
}
