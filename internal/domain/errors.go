package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// ValidationError reports a malformed or out-of-range input field.
// It is raised before any calculation runs.
type ValidationError struct {
	Field string // JSON name of the offending field (e.g., "hash_rate")
	Err   error
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CalculationError reports an arithmetic failure inside the calculator.
// Op names the calculation that failed.
type CalculationError struct {
	Op  string
	Err error
}

func (e *CalculationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// NewCalculationError wraps err as a failure of the named calculation.
func NewCalculationError(op string, err error) *CalculationError {
	return &CalculationError{Op: op, Err: err}
}

// FetchError represents a failure of the network data collaborator.
type FetchError struct {
	Op        string // Operation that failed (e.g., "request", "decode")
	Err       error  // Underlying error
	Retriable bool   // Whether another attempt may succeed
}

func (e *FetchError) Error() string {
	return "fetch network stats: " + e.Op + ": " + e.Err.Error()
}

func (e *FetchError) IsRetriable() bool {
	return e.Retriable
}

// Unwrap exposes both ErrFetchFailed and the cause to errors.Is.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}

// NewFetchError creates a retriable fetch error
func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err, Retriable: true}
}

// NewFatalFetchError creates a non-retriable fetch error
func NewFatalFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err, Retriable: false}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrDivisionByZero is returned when a denominator is exactly zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNonNumeric is returned when an operand is NaN or infinite.
	ErrNonNumeric = errors.New("non-numeric operand")

	// ErrOverflow is returned when a result does not fit the target representation.
	ErrOverflow = errors.New("result out of range")

	// ErrNonPositive is returned when an input that must be strictly positive is not.
	ErrNonPositive = errors.New("must be positive")

	// ErrFetchFailed is returned when the network statistics endpoint cannot supply a snapshot.
	ErrFetchFailed = errors.New("network data unavailable")
)
