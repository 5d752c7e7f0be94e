package jsonsurf

import (
	"time"

	"go.uber.org/zap"

	"github.com/sgrust01/json-surf/internal/domain"
)

// Option configures Open.
type Option interface {
	apply(*surferConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*surferConfig)

func (f optionFunc) apply(c *surferConfig) { f(c) }

type surferConfig struct {
	logger             *zap.Logger
	writerMemoryBudget uint64
	lockTimeout        time.Duration
	openConcurrency    int
	query              domain.QueryConfig
}

func defaultSurferConfig() *surferConfig {
	return &surferConfig{
		logger:             zap.NewNop(),
		writerMemoryBudget: domain.DefaultWriterMemoryBudget,
		query:              domain.DefaultQueryConfig(),
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *surferConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithWriterMemoryBudget sets the per-collection writer budget in bytes.
// Staged documents are flushed whenever the budget is reached.
func WithWriterMemoryBudget(bytes uint64) Option {
	return optionFunc(func(c *surferConfig) {
		c.writerMemoryBudget = bytes
	})
}

// WithLockTimeout bounds the wait for an index locked by another process.
func WithLockTimeout(d time.Duration) Option {
	return optionFunc(func(c *surferConfig) {
		c.lockTimeout = d
	})
}

// WithOpenConcurrency limits how many collections are opened at once.
func WithOpenConcurrency(n int) Option {
	return optionFunc(func(c *surferConfig) {
		c.openConcurrency = n
	})
}

// WithDefaultLimit sets the per-condition candidate limit used when a call
// passes no limit.
func WithDefaultLimit(n int) Option {
	return optionFunc(func(c *surferConfig) {
		if n > 0 {
			c.query.DefaultLimit = n
		}
	})
}

// WithMinScore sets the score cutoff used when a call passes none.
func WithMinScore(score float64) Option {
	return optionFunc(func(c *surferConfig) {
		c.query.DefaultMinScore = score
	})
}

// WithSelectLimit sets the per-condition candidate limit used by Select.
func WithSelectLimit(n int) Option {
	return optionFunc(func(c *surferConfig) {
		if n > 0 {
			c.query.SelectLimit = n
		}
	})
}
