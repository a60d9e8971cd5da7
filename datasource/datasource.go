package datasource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/syssam/magicdao/action"
	"github.com/syssam/magicdao/config"
	"github.com/syssam/magicdao/dialect"
	"github.com/syssam/magicdao/dialect/sql"
)

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger used for debug and slow statement logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// Source is a data source with separate read and write connection pools.
// When no read pool is configured both modes share the write pool.
type Source struct {
	dialect string
	write   *sql.StatsDriver
	read    *sql.StatsDriver
	writer  dialect.ExecQuerier
	reader  dialect.ExecQuerier
	logger  *slog.Logger
}

// Open opens the pools described by cfg.
func Open(cfg *config.Config, opts ...Option) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	write, err := open(cfg.Dialect, cfg.Write)
	if err != nil {
		return nil, fmt.Errorf("datasource: open write pool: %w", err)
	}
	var read *sql.Driver
	if cfg.Read != nil {
		if read, err = open(cfg.Dialect, *cfg.Read); err != nil {
			return nil, errors.Join(fmt.Errorf("datasource: open read pool: %w", err), write.Close())
		}
	}
	return New(cfg, write, read, opts...), nil
}

// New returns a Source over already opened drivers. A nil read driver shares
// the write driver.
func New(cfg *config.Config, write, read *sql.Driver, opts ...Option) *Source {
	s := &Source{dialect: cfg.Dialect, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	statsOpts := []sql.StatsOption{sql.WithSlowThreshold(cfg.Stats.SlowThreshold)}
	if cfg.Stats.LogSlow {
		statsOpts = append(statsOpts, sql.WithSlowQueryLog(s.logger))
	}
	s.write = sql.NewStatsDriver(write, statsOpts...)
	s.read = s.write
	if read != nil {
		s.read = sql.NewStatsDriver(read, statsOpts...)
	}
	s.writer, s.reader = s.write, s.read
	if cfg.Debug {
		s.writer = sql.NewDebugDriver(s.write, s.logger)
		s.reader = sql.NewDebugDriver(s.read, s.logger)
	}
	return s
}

func open(name string, db config.DB) (*sql.Driver, error) {
	dsn := db.DSN
	if name == dialect.MySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}
	drv, err := sql.Open(name, dsn)
	if err != nil {
		return nil, err
	}
	configure(drv, db)
	return drv, nil
}

// configure applies the pool settings that are set in db.
func configure(drv *sql.Driver, db config.DB) {
	pool := drv.DB()
	if db.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(db.MaxOpenConns)
	}
	if db.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(db.MaxIdleConns)
	}
	if db.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(db.ConnMaxLifetime)
	}
}

// mysqlDSN enables parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("datasource: mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Driver implements magicdao.DataSource.
func (s *Source) Driver(mode action.Mode) dialect.ExecQuerier {
	if mode.IsWrite() {
		return s.writer
	}
	return s.reader
}

// Dialect implements magicdao.DataSource.
func (s *Source) Dialect() string { return s.dialect }

// Shared reports whether reads and writes use the same pool.
func (s *Source) Shared() bool { return s.read == s.write }

// Stats returns the statement statistics of the write and read pools.
func (s *Source) Stats() (write, read sql.StatsSnapshot) {
	return s.write.QueryStats().Stats(), s.read.QueryStats().Stats()
}

// Ping checks both pools concurrently.
func (s *Source) Ping(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.write.Ping(ctx); err != nil {
			return fmt.Errorf("datasource: ping write pool: %w", err)
		}
		return nil
	})
	if !s.Shared() {
		g.Go(func() error {
			if err := s.read.Ping(ctx); err != nil {
				return fmt.Errorf("datasource: ping read pool: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Apply updates the settings that can change without reopening the pools.
func (s *Source) Apply(cfg *config.Config) {
	if cfg.Dialect != s.dialect {
		s.logger.Warn("datasource: dialect change requires a restart",
			slog.String("current", s.dialect),
			slog.String("configured", cfg.Dialect),
		)
	}
	s.write.SetSlowThreshold(cfg.Stats.SlowThreshold)
	s.read.SetSlowThreshold(cfg.Stats.SlowThreshold)
	configure(s.write.Driver, cfg.Write)
	if !s.Shared() {
		configure(s.read.Driver, cfg.ReadDB())
	}
	s.logger.Info("datasource: settings applied", slog.Duration("slow_threshold", cfg.Stats.SlowThreshold))
}

// Watch applies the configuration file at path each time it changes.
// It blocks until ctx is done.
func (s *Source) Watch(ctx context.Context, path string) error {
	return config.Watch(ctx, path, s.Apply, config.WithLogger(s.logger))
}

// Close closes both pools.
func (s *Source) Close() error {
	err := s.write.Close()
	if !s.Shared() {
		err = errors.Join(err, s.read.Close())
	}
	return err
}
