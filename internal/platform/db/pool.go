package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type PoolConfig struct {
	DatabaseURL string
	MaxConns    int32
	MinConns    int32
	// LogLevel is a pgx tracelog level name ("warn", "debug", ...). Empty
	// disables query logging.
	LogLevel string
}

func NewPool(ctx context.Context, pc PoolConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pc.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		cfg.MinConns = pc.MinConns
	}

	if pc.LogLevel != "" {
		level, err := tracelog.LogLevelFromString(pc.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("db log level: %w", err)
		}
		cfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger(logger.With().Str("component", "pgx").Logger()),
			LogLevel: level,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// queryLogger forwards pgx trace events to zerolog.
func queryLogger(logger zerolog.Logger) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		var evt *zerolog.Event
		switch level {
		case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
			evt = logger.Debug()
		case tracelog.LogLevelInfo:
			evt = logger.Info()
		case tracelog.LogLevelWarn:
			evt = logger.Warn()
		default:
			evt = logger.Error()
		}
		evt.Fields(data).Msg(msg)
	})
}
