// Package gormw provides a wrapped gorm.
package gormw

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"

	"github.com/charleshuang3/teamcrm/internal/logging"
	"github.com/charleshuang3/teamcrm/internal/models"
)

var (
	logger = logging.Component("db")

	postgresDSNRE = regexp.MustCompile(`^postgres(ql)?://`)
	mysqlDSNRE    = regexp.MustCompile(`^mysql://|@(tcp|unix)\(`)
)

type DB struct {
	*gorm.DB
}

type Config struct {
	// DSN the Data Source Name.
	DSN string `yaml:"dsn"`

	// Disable automatic ping.
	DisableAutomaticPing bool `yaml:"disable_automatic_ping"`

	// Max DB open connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// Max DB idle connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	LogLevel glog.LogLevel `yaml:"log_level"`
}

func (cfg *Config) applyDefaults() {
	if cfg.DSN == "" {
		// use sqlite DB memory mode by default.
		cfg.DSN = ":memory:"
		logger.Warn().Msg("Using in-memory sqlite DB, should not be used in production")
	}

	if cfg.DSN == ":memory:" {
		// every new connection would see its own empty memory DB.
		cfg.MaxOpenConns = 1
	}

	if cfg.MaxIdleConns <= 0 {
		// golang's default.
		cfg.MaxIdleConns = 2
	}

	if cfg.LogLevel < glog.Silent || cfg.LogLevel > glog.Info {
		// INFO by default.
		cfg.LogLevel = glog.Info
	}
}

// dialector picks the driver from the DSN shape: postgres URL or key=value
// list, mysql URL or go-sql-driver DSN, otherwise a sqlite file.
func dialector(dsn string) gorm.Dialector {
	switch {
	case postgresDSNRE.MatchString(dsn) || len(strings.Fields(dsn)) >= 3:
		return postgres.New(postgres.Config{
			DSN: dsn,
		})
	case mysqlDSNRE.MatchString(dsn):
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://"))
	default:
		return sqlite.Open(dsn)
	}
}

func Open(cfg *Config) (*DB, error) {
	cfg.applyDefaults()

	db, err := gorm.Open(dialector(cfg.DSN), &gorm.Config{
		Logger: glog.New(
			&logger,
			glog.Config{
				SlowThreshold:             100 * time.Millisecond,
				LogLevel:                  cfg.LogLevel,
				IgnoreRecordNotFoundError: true,
				ParameterizedQueries:      false,
				Colorful:                  false,
			},
		),
		PrepareStmt:          true,
		DisableAutomaticPing: cfg.DisableAutomaticPing,
	})
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil /* ignore error */ {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return &DB{db}, nil
}

// Migrate creates the tables of the graph-shaped CRM store: nodes (users,
// teams, invitations, files) and edges (memberships, shared files).
func (db *DB) Migrate() error {
	return db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Membership{},
		&models.Invitation{},
		&models.File{},
		&models.SharedFile{},
	)
}

// MigrateRelational creates the auxiliary relational tables. It may run on
// the same DB as Migrate or on a separate one.
func (db *DB) MigrateRelational() error {
	return db.AutoMigrate(
		&models.Listing{},
		&models.CSVData{},
	)
}

// Ctx returns a DB whose queries are bound to ctx.
func (db *DB) Ctx(ctx context.Context) *DB {
	return &DB{db.WithContext(ctx)}
}
