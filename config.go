package itqlsh

import "fmt"

// Config carries the ITQ-LSH parameters from spec.md §3 (L, D, N, S, I)
// plus the operational knobs for the shard store and query defaults.
// Plain-text config-file parsing is an external collaborator (spec.md
// §1) — Config is always built programmatically, by the CLI's flags, or
// by a caller-supplied struct literal.
type Config struct {
	// L is the number of independent hash tables.
	L int
	// D is the vector dimensionality.
	D int
	// N is the number of bits per code (and PCA components retained).
	N int
	// S is the training sample size per table.
	S int
	// I is the number of ITQ rotation-refinement iterations.
	I int
	// Seed is the base PRNG seed; table k uses a seed derived from it so
	// tables are decorrelated (spec.md §4.3).
	Seed int64

	// SingleMaxMiB is the target shard size in MiB (spec.md §4.8).
	SingleMaxMiB int
	// MaxMemoryMiB bounds the shard cache's resident memory.
	MaxMemoryMiB int

	// K is the default top-K result size for queries.
	K int
	// HammingRadius is the default Hamming expansion radius for queries.
	HammingRadius int
}

// DefaultConfig returns a Config with conservative defaults; callers
// still must set D (and usually N, S) before calling Validate.
func DefaultConfig() Config {
	return Config{
		L:             4,
		N:             16,
		I:             50,
		Seed:          1,
		SingleMaxMiB:  100,
		MaxMemoryMiB:  512,
		K:             10,
		HammingRadius: 0,
	}
}

// Validate checks the parameter invariants from spec.md §7 against a
// dataset of the given size, returning a ParamError-kind error on
// violation.
func (c Config) Validate(datasetSize int) error {
	switch {
	case c.L <= 0:
		return Wrap(KindParam, "validate", fmt.Errorf("%w: L must be positive, got %d", ErrInvalidParams, c.L))
	case c.D <= 0:
		return Wrap(KindParam, "validate", fmt.Errorf("%w: D must be positive, got %d", ErrInvalidParams, c.D))
	case c.N <= 0 || c.N > 256:
		return Wrap(KindParam, "validate", fmt.Errorf("%w: N must be in [1,256], got %d", ErrInvalidParams, c.N))
	case c.N > c.D:
		return Wrap(KindParam, "validate", fmt.Errorf("%w: N (%d) must not exceed D (%d)", ErrInvalidParams, c.N, c.D))
	case c.S <= 0:
		return Wrap(KindParam, "validate", fmt.Errorf("%w: S must be positive, got %d", ErrInvalidParams, c.S))
	case c.S > datasetSize:
		return Wrap(KindParam, "validate", fmt.Errorf("%w: S (%d) must not exceed dataset size (%d)", ErrInvalidParams, c.S, datasetSize))
	case c.I < 0:
		return Wrap(KindParam, "validate", fmt.Errorf("%w: I must be non-negative, got %d", ErrInvalidParams, c.I))
	case c.K <= 0:
		return Wrap(KindParam, "validate", fmt.Errorf("%w: K must be positive, got %d", ErrInvalidParams, c.K))
	case c.HammingRadius < 0 || c.HammingRadius > c.N:
		return Wrap(KindParam, "validate", fmt.Errorf("%w: hamming radius must be in [0,N], got %d", ErrInvalidParams, c.HammingRadius))
	}
	return nil
}
