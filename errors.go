package itqlsh

import (
	"errors"
	"fmt"
)

// Kind classifies an index error per the error handling design: IoError,
// FormatError, ParamError, NumericError.
type Kind int

const (
	// KindIO covers failures to open, read, or write a path.
	KindIO Kind = iota
	// KindFormat covers short reads, bad counts, or code-length mismatches
	// found while decoding a persisted index or shard.
	KindFormat
	// KindParam covers invalid parameter combinations (N>D, S>size, r>N,
	// K=0, dimension mismatches).
	KindParam
	// KindNumeric covers training that failed to converge to finite values.
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IoError"
	case KindFormat:
		return "FormatError"
	case KindParam:
		return "ParamError"
	case KindNumeric:
		return "NumericError"
	default:
		return "UnknownError"
	}
}

// Common sentinel errors, matched with errors.Is through IndexError.Unwrap.
var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrInvalidParams     = errors.New("invalid index parameters")
	ErrShortRead         = errors.New("truncated read")
	ErrNonFinite         = errors.New("non-finite value produced during training")
	ErrIndexClosed       = errors.New("index is closed")
)

// IndexError wraps an underlying error with a Kind and an operation name,
// the way StoreError does in the teacher's errors.go.
type IndexError struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("itqlsh: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("itqlsh: %s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *IndexError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *IndexError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// Wrap wraps err with a Kind and an operation name. Returns nil if err
// is nil. Subpackages (pkg/itq, pkg/shardstore, pkg/vector) use this to
// report errors in the same IndexError shape the root package uses.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &IndexError{Kind: kind, Op: op, Err: err}
}
