// Package ledger owns the persisted transaction ledger and the payment and
// budget limit mappings. Every mutation is written through to disk before it
// becomes visible in memory.
package ledger

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Paths locates the backing files.
type Paths struct {
	Ledger        string
	PaymentLimits string
	BudgetLimits  string
}

// Store is the single writer for a ledger and its limit files. Construct one
// with Open and share it.
type Store struct {
	paths Paths
	log   zerolog.Logger

	mu            sync.Mutex
	records       []model.Record
	paymentLimits map[string]decimal.Decimal
	budgetLimits  map[string]decimal.Decimal
}

// ImportOptions controls how imported rows combine with the ledger.
type ImportOptions struct {
	Replace bool // discard existing rows instead of appending
}

// ImportResult describes a successful import.
type ImportResult struct {
	Records       []model.Record // rows read from the file
	LedgerSize    int            // rows in the ledger afterwards
	MissingLimits []string       // non-exempt sources with no payment limit, first-seen order
}

// Open loads the ledger and limit files, creating an empty ledger file with
// its header row if none exists.
func Open(paths Paths, log zerolog.Logger) (*Store, error) {
	s := &Store{paths: paths, log: log}

	if _, err := os.Stat(paths.Ledger); errors.Is(err, os.ErrNotExist) {
		if err := s.writeLedger(nil); err != nil {
			return nil, err
		}
		s.log.Info().Str("path", paths.Ledger).Msg("initialized empty ledger")
	}

	if _, err := s.Load(); err != nil {
		return nil, err
	}

	var err error
	if s.paymentLimits, err = readLimits(paths.PaymentLimits); err != nil {
		return nil, err
	}
	if s.budgetLimits, err = readLimits(paths.BudgetLimits); err != nil {
		return nil, err
	}
	return s, nil
}

// Paths returns the backing file locations.
func (s *Store) Paths() Paths {
	return s.paths
}

// Load re-reads the ledger file and replaces the working set. Rows are
// returned in storage order; a corrupt file fails with *StorageError.
func (s *Store) Load() ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.paths.Ledger)
	if err != nil {
		return nil, &StorageError{Op: "read", Path: s.paths.Ledger, Err: err}
	}

	var records []model.Record
	if len(bytes.TrimSpace(data)) > 0 {
		if records, err = decodeCSV(data); err != nil {
			return nil, &StorageError{Op: "parse", Path: s.paths.Ledger, Err: err}
		}
	}

	s.records = records
	s.log.Debug().Int("records", len(records)).Msg("ledger loaded")
	return cloneRecords(records), nil
}

// Records returns a copy of the working set.
func (s *Store) Records() []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.records)
}

// Len returns the number of rows in the working set.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Save atomically replaces the ledger with records.
func (s *Store) Save(records []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(cloneRecords(records))
}

// Clear empties the ledger.
func (s *Store) Clear() error {
	return s.Save(nil)
}

// Append adds one record at the end of the ledger.
func (s *Store) Append(r model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Record, len(s.records), len(s.records)+1)
	copy(next, s.records)
	return s.commit(append(next, r))
}

// DeleteRow removes the row at index row (0-based).
func (s *Store) DeleteRow(row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row < 0 || row >= len(s.records) {
		return ErrNoSuchRow
	}
	next := make([]model.Record, 0, len(s.records)-1)
	next = append(next, s.records[:row]...)
	next = append(next, s.records[row+1:]...)
	return s.commit(next)
}

// EditCell sets one cell from text after validating it against the column's
// schema kind. A rejected edit returns *ParseError and leaves the ledger as
// it was.
func (s *Store) EditCell(row int, col model.Field, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row < 0 || row >= len(s.records) {
		return ErrNoSuchRow
	}
	updated, err := s.records[row].WithCell(col, text)
	if err != nil {
		return &ParseError{Row: row + 1, Column: col.String(), Value: text, Err: err}
	}

	next := cloneRecords(s.records)
	next[row] = updated
	return s.commit(next)
}

// Import parses raw in the given format and appends the rows to the ledger,
// or replaces it when opts.Replace is set. Nothing is written unless every
// row parses.
func (s *Store) Import(raw []byte, format Format, opts ImportOptions) (ImportResult, error) {
	imported, err := decode(raw, format)
	if err != nil {
		s.log.Warn().Err(err).Str("format", string(format)).Msg("import rejected")
		return ImportResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var next []model.Record
	if !opts.Replace {
		next = append(next, s.records...)
	}
	next = append(next, imported...)
	if err := s.commit(next); err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{
		Records:       cloneRecords(imported),
		LedgerSize:    len(next),
		MissingLimits: s.missingLimitsLocked(imported),
	}
	s.log.Info().
		Int("imported", len(imported)).
		Int("ledger_size", res.LedgerSize).
		Bool("replace", opts.Replace).
		Msg("import committed")
	return res, nil
}

// MissingLimits lists sources in records that need a payment limit and have
// none, in first-seen order.
func (s *Store) MissingLimits(records []model.Record) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missingLimitsLocked(records)
}

func (s *Store) missingLimitsLocked(records []model.Record) []string {
	seen := make(map[string]struct{})
	var missing []string
	for _, r := range records {
		if _, ok := seen[r.Source]; ok {
			continue
		}
		seen[r.Source] = struct{}{}
		if _, ok := s.paymentLimits[r.Source]; !ok && model.RequiresLimit(r.Source) {
			missing = append(missing, r.Source)
		}
	}
	return missing
}

// commit writes next to disk and only then adopts it as the working set.
func (s *Store) commit(next []model.Record) error {
	if err := s.writeLedger(next); err != nil {
		s.log.Warn().Err(err).Msg("ledger save failed")
		return err
	}
	s.records = next
	s.log.Debug().Int("records", len(next)).Msg("ledger saved")
	return nil
}

func (s *Store) writeLedger(records []model.Record) error {
	data, err := encodeCSV(records)
	if err != nil {
		return &StorageError{Op: "encode", Path: s.paths.Ledger, Err: err}
	}
	if err := writeFileAtomic(s.paths.Ledger, data, 0o600); err != nil {
		return &StorageError{Op: "save", Path: s.paths.Ledger, Err: err}
	}
	return nil
}

// PaymentLimits returns a copy of the payment-method limits.
func (s *Store) PaymentLimits() map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLimits(s.paymentLimits)
}

// SetPaymentLimit adds or updates a payment-method limit.
func (s *Store) SetPaymentLimit(source string, limit decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := validLimit(source, limit)
	if err != nil {
		return err
	}
	next := cloneLimits(s.paymentLimits)
	next[name] = limit
	if err := writeLimits(s.paths.PaymentLimits, next); err != nil {
		return err
	}
	s.paymentLimits = next
	s.log.Debug().Str("source", name).Str("limit", limit.String()).Msg("payment limit set")
	return nil
}

// DeletePaymentLimit removes a payment-method limit.
func (s *Store) DeletePaymentLimit(source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	source = strings.TrimSpace(source)
	if _, ok := s.paymentLimits[source]; !ok {
		return ErrNoSuchLimit
	}
	next := cloneLimits(s.paymentLimits)
	delete(next, source)
	if err := writeLimits(s.paths.PaymentLimits, next); err != nil {
		return err
	}
	s.paymentLimits = next
	return nil
}

// BudgetLimits returns a copy of the category budgets.
func (s *Store) BudgetLimits() map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLimits(s.budgetLimits)
}

// SetBudgetLimit adds or updates a category budget.
func (s *Store) SetBudgetLimit(category string, limit decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := validLimit(category, limit)
	if err != nil {
		return err
	}
	next := cloneLimits(s.budgetLimits)
	next[name] = limit
	if err := writeLimits(s.paths.BudgetLimits, next); err != nil {
		return err
	}
	s.budgetLimits = next
	s.log.Debug().Str("category", name).Str("limit", limit.String()).Msg("budget limit set")
	return nil
}

// DeleteBudgetLimit removes a category budget.
func (s *Store) DeleteBudgetLimit(category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category = strings.TrimSpace(category)
	if _, ok := s.budgetLimits[category]; !ok {
		return ErrNoSuchLimit
	}
	next := cloneLimits(s.budgetLimits)
	delete(next, category)
	if err := writeLimits(s.paths.BudgetLimits, next); err != nil {
		return err
	}
	s.budgetLimits = next
	return nil
}

func cloneRecords(records []model.Record) []model.Record {
	if records == nil {
		return nil
	}
	out := make([]model.Record, len(records))
	copy(out, records)
	return out
}
