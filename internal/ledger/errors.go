package ledger

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/spendtrack/internal/model"
)

var (
	// ErrUnsupportedFormat is wrapped by a ParseError for unknown import formats.
	ErrUnsupportedFormat = errors.New("unsupported file format (want csv or xlsx)")
	// ErrColumnMismatch means the header row does not match the ledger schema.
	ErrColumnMismatch = errors.New("columns do not match Date,Source,Description,Category,Spender,Amount")
	// ErrMissingField means a row has fewer cells than the header.
	ErrMissingField = errors.New("row has missing fields")
	// ErrExtraField means a row has non-blank cells past the last header column.
	ErrExtraField = errors.New("row has more fields than the header")
	// ErrNoSuchRow is returned for an out-of-range row index.
	ErrNoSuchRow = errors.New("no such row")
	// ErrInvalidLimit is returned for a negative limit or an empty name.
	ErrInvalidLimit = errors.New("limit must have a name and a non-negative value")
	// ErrNoSuchLimit is returned when deleting a limit that does not exist.
	ErrNoSuchLimit = errors.New("no such limit")
)

// ParseError reports user-correctable input: a malformed import file or a
// rejected cell edit. Row is the 1-based data row, 0 when not row-specific.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	var fe *model.FieldError
	if !errors.As(e.Err, &fe) {
		if e.Column != "" {
			msg = e.Column + ": " + msg
		}
		if e.Value != "" {
			msg = fmt.Sprintf("%s (got %q)", msg, e.Value)
		}
	}
	if e.Row > 0 {
		msg = fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError reports a backing file that could not be read or written.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
