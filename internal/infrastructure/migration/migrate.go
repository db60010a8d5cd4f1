package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Blank imports register the database drivers and the file source.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"passvault/internal/app/server/config"
	"passvault/migrations"
)

// Migrator is the subset of migrate.Migrate the runner needs.
type Migrator interface {
	Up() error
	Version() (uint, bool, error)
	Close() (error, error)
}

// Source names where migrations come from: a migrate source URL, or an
// fs.FS subdirectory when URL is empty.
type Source struct {
	URL string
	FS  fs.FS
	Dir string
}

// MigrationEngine builds a migrator, so tests never touch a file system or
// database.
type MigrationEngine func(src Source, databaseURL string) (Migrator, error)

type Migration struct {
	cfg    *config.Config
	engine MigrationEngine
}

func NewMigration(conf *config.Config, engine MigrationEngine) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{
		cfg:    conf,
		engine: engine,
	}
}

func DefaultEngine(src Source, databaseURL string) (Migrator, error) {
	if src.URL != "" {
		return migrate.New(src.URL, databaseURL)
	}

	driver, err := iofs.New(src.FS, src.Dir)
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	return migrate.NewWithSourceInstance("iofs", driver, databaseURL)
}

// Up applies every pending migration. Already applied ones are skipped.
func (mg *Migration) Up() (err error) {
	src, err := mg.source()
	if err != nil {
		return err
	}

	dbURL, err := DatabaseURL(mg.cfg.DB.Driver, mg.cfg.DB.DatabaseURI)
	if err != nil {
		return err
	}

	m, err := mg.engine(src, dbURL)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	return nil
}

// Version reports the applied schema version.
func (mg *Migration) Version() (version uint, dirty bool, err error) {
	src, err := mg.source()
	if err != nil {
		return 0, false, err
	}

	dbURL, err := DatabaseURL(mg.cfg.DB.Driver, mg.cfg.DB.DatabaseURI)
	if err != nil {
		return 0, false, err
	}

	m, err := mg.engine(src, dbURL)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (mg *Migration) source() (Source, error) {
	if mg.cfg.DB.Migrations != "" {
		return Source{URL: "file://" + mg.cfg.DB.Migrations}, nil
	}

	switch mg.cfg.DB.Driver {
	case config.DriverPostgres:
		return Source{FS: migrations.FS, Dir: "postgres"}, nil
	case config.DriverSQLite:
		return Source{FS: migrations.FS, Dir: "sqlite"}, nil
	}
	return Source{}, fmt.Errorf("unsupported database driver %q", mg.cfg.DB.Driver)
}

// DatabaseURL turns the configured DSN into the URL form golang-migrate
// expects for the driver.
func DatabaseURL(driver, dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("database URI is not set")
	}

	switch driver {
	case config.DriverPostgres:
		return dsn, nil
	case config.DriverSQLite:
		if strings.HasPrefix(dsn, "sqlite3://") {
			return dsn, nil
		}
		path := strings.TrimPrefix(dsn, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		return "sqlite3://" + path, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}
