package domain

// Defaults shared by the registry, the lifecycle manager and the query engine.
const (
	// DefaultHome is the index home directory when none is configured.
	DefaultHome = "indexes"
	// DefaultWriterMemoryBudget is the per-collection writer budget in bytes.
	DefaultWriterMemoryBudget = 50_000_000
	// DefaultLimit caps the candidates retrieved per term or text query.
	DefaultLimit = 10
	// DefaultMinScore is the score cutoff used on every read path.
	DefaultMinScore = 0.0
	// SelectLimit is the candidate cap used by Select.
	SelectLimit = 100
)

// QueryConfig holds read-path defaults.
type QueryConfig struct {
	DefaultLimit    int
	DefaultMinScore float64
	SelectLimit     int
}

// DefaultQueryConfig returns the built-in read-path defaults.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		DefaultLimit:    DefaultLimit,
		DefaultMinScore: DefaultMinScore,
		SelectLimit:     SelectLimit,
	}
}

// ResolveLimit returns limit, or the default when limit is not positive.
func (c QueryConfig) ResolveLimit(limit int) int {
	if limit > 0 {
		return limit
	}
	if c.DefaultLimit > 0 {
		return c.DefaultLimit
	}
	return DefaultLimit
}

// ResolveMinScore returns *score, or the default when score is nil.
func (c QueryConfig) ResolveMinScore(score *float64) float64 {
	if score != nil {
		return *score
	}
	return c.DefaultMinScore
}
