package store

import (
	"censusbq/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithCH injects a ready ClickHouse seam (tests, or a caller that owns the connection)
func WithCH(c Clickhouse) Option {
	return func(s *Store) error {
		s.CH = c
		return nil
	}
}
