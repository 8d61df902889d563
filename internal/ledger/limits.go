package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// readLimits loads a name→number JSON mapping. A missing file is an empty
// mapping.
func readLimits(path string) (map[string]decimal.Decimal, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from local config
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]decimal.Decimal{}, nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	var limits map[string]decimal.Decimal
	if err := json.Unmarshal(data, &limits); err != nil {
		return nil, &StorageError{Op: "parse", Path: path, Err: err}
	}
	if limits == nil {
		limits = map[string]decimal.Decimal{}
	}
	for name, v := range limits {
		if v.IsNegative() {
			return nil, &StorageError{
				Op:   "parse",
				Path: path,
				Err:  fmt.Errorf("%q: %w", name, ErrInvalidLimit),
			}
		}
	}
	return limits, nil
}

// writeLimits persists a mapping with numbers unquoted and keys sorted.
func writeLimits(path string, limits map[string]decimal.Decimal) error {
	out := make(map[string]json.Number, len(limits))
	for name, v := range limits {
		out[name] = json.Number(v.String())
	}
	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return &StorageError{Op: "encode", Path: path, Err: err}
	}
	data = append(data, '\n')
	if err := writeFileAtomic(path, data, 0o600); err != nil {
		return &StorageError{Op: "save", Path: path, Err: err}
	}
	return nil
}

func validLimit(name string, limit decimal.Decimal) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || limit.IsNegative() {
		return "", ErrInvalidLimit
	}
	return name, nil
}

func cloneLimits(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
