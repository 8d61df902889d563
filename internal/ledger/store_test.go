package ledger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/spendtrack/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const header = "Date,Source,Description,Category,Spender,Amount\n"

func testPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		Ledger:        filepath.Join(dir, "ledger.csv"),
		PaymentLimits: filepath.Join(dir, "payment_limits.json"),
		BudgetLimits:  filepath.Join(dir, "budget_limits.json"),
	}
}

func openStore(t *testing.T, paths Paths) *Store {
	t.Helper()
	s, err := Open(paths, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestOpen_CreatesHeaderOnlyLedger(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)

	assert.Empty(t, s.Records())
	data, err := os.ReadFile(paths.Ledger)
	require.NoError(t, err)
	assert.Equal(t, header, string(data))
	assert.Empty(t, s.PaymentLimits())
	assert.Empty(t, s.BudgetLimits())
}

func TestOpen_CorruptLedger(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(paths.Ledger, []byte("Date,Amount\n2025-01-01,5\n"), 0o600))

	_, err := Open(paths, zerolog.Nop())
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "parse", se.Op)
	assert.ErrorIs(t, err, ErrColumnMismatch)
}

func TestOpen_LedgerRowWithStrayCell(t *testing.T) {
	paths := testPaths(t)
	body := header + "2025-01-05,HDFC,lunch,Food,Alice,10,oops\n"
	require.NoError(t, os.WriteFile(paths.Ledger, []byte(body), 0o600))

	_, err := Open(paths, zerolog.Nop())
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, ErrExtraField)

	data, err := os.ReadFile(paths.Ledger)
	require.NoError(t, err)
	assert.Equal(t, body, string(data), "a rejected ledger is left as is")
}

func TestOpen_EmptyFileIsEmptyLedger(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(paths.Ledger, nil, 0o600))

	s := openStore(t, paths)
	assert.Empty(t, s.Records())
}

func TestImport_AppendsAndPersists(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)

	csv := header +
		"2025-01-05,HDFC,lunch,Food,Alice,120.50\n" +
		"2025-01-09,Cash,bus,Car,Bob,40\n"
	res, err := s.Import([]byte(csv), FormatCSV, ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, 2, res.LedgerSize)
	assert.Equal(t, []string{"HDFC"}, res.MissingLimits)

	res, err = s.Import([]byte(header+"2025-02-01,ICICI Debit,,Rent,Alice,1000\n"), FormatCSV, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.LedgerSize)
	assert.Empty(t, res.MissingLimits)

	reopened := openStore(t, paths)
	got := reopened.Records()
	require.Len(t, got, 3)
	assert.Equal(t, "HDFC", got[0].Source)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("120.5")))
	assert.Equal(t, "", got[2].Description)
}

func TestImport_Replace(t *testing.T) {
	s := openStore(t, testPaths(t))
	_, err := s.Import([]byte(header+"2025-01-05,HDFC,lunch,Food,Alice,10\n"), FormatCSV, ImportOptions{})
	require.NoError(t, err)

	res, err := s.Import([]byte(header+"2025-03-01,Cash,tea,Food,Bob,5\n"), FormatCSV, ImportOptions{Replace: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.LedgerSize)
	assert.Equal(t, "Cash", s.Records()[0].Source)
}

func TestImport_ReorderedCaseInsensitiveHeader(t *testing.T) {
	s := openStore(t, testPaths(t))
	csv := "amount,SPENDER,category,description,source,date\n" +
		"99,Bob,OTT,netflix,HDFC,2025-04-02\n"
	_, err := s.Import([]byte(csv), FormatCSV, ImportOptions{})
	require.NoError(t, err)

	r := s.Records()[0]
	assert.Equal(t, "netflix", r.Description)
	assert.Equal(t, "2025-04-02", r.Date.Format(model.DateLayout))
}

func TestImport_MissingColumnLeavesLedgerUntouched(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)
	_, err := s.Import([]byte(header+"2025-01-05,HDFC,lunch,Food,Alice,10\n"), FormatCSV, ImportOptions{})
	require.NoError(t, err)
	before, err := os.ReadFile(paths.Ledger)
	require.NoError(t, err)

	bad := "Date,Source,Description,Category,Spender\n2025-01-06,HDFC,x,Food,Alice\n"
	_, err = s.Import([]byte(bad), FormatCSV, ImportOptions{Replace: true})

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, ErrColumnMismatch)
	assert.Equal(t, "Amount", pe.Column)

	after, err := os.ReadFile(paths.Ledger)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, s.Records(), 1)
}

func TestImport_RowErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		row    int
		column string
		target error
	}{
		{"bad amount", "2025-01-05,HDFC,x,Food,Alice,ten\n", 1, "Amount", nil},
		{"bad date", "2025-01-05,HDFC,x,Food,Alice,1\n05/01/2025,HDFC,x,Food,Alice,1\n", 2, "Date", nil},
		{"blank spender", "2025-01-05,HDFC,x,Food,,1\n", 1, "Spender", model.ErrBlank},
		{"short row", "2025-01-05,HDFC,x\n", 1, "", ErrMissingField},
		{"stray cell", "2025-01-05,HDFC,lunch,Food,Alice,10,oops\n", 1, "", ErrExtraField},
		{"extra column", "2025-01-05,HDFC,x,Food,Alice,1,zzz\n", 0, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openStore(t, testPaths(t))
			body := header + tt.body
			if tt.name == "extra column" {
				body = "Date,Source,Description,Category,Spender,Amount,Notes\n" + tt.body
			}
			_, err := s.Import([]byte(body), FormatCSV, ImportOptions{})

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.row, pe.Row)
			if tt.column != "" {
				assert.Equal(t, tt.column, pe.Column)
			}
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			assert.Empty(t, s.Records())
		})
	}
}

func TestImport_SkipsBlankRows(t *testing.T) {
	s := openStore(t, testPaths(t))
	csv := header + "2025-01-05,HDFC,x,Food,Alice,1\n,,,,,\n2025-01-06,HDFC,y,Food,Alice,2\n"
	res, err := s.Import([]byte(csv), FormatCSV, ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
}

func TestImport_TrailingBlankCellsAllowed(t *testing.T) {
	s := openStore(t, testPaths(t))
	res, err := s.Import([]byte(header+"2025-01-05,HDFC,x,Food,Alice,1,,\n"), FormatCSV, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "1", res.Records[0].Amount.String())
}

func TestImport_UnsupportedFormat(t *testing.T) {
	s := openStore(t, testPaths(t))
	_, err := s.Import([]byte("whatever"), Format("ods"), ImportOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = FormatFromPath("expenses.ods")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	f, err := FormatFromPath("Expenses.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
}

func TestImport_XLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"Date", "Source", "Description", "Category", "Spender", "Amount"},
		{"2025-01-05", "HDFC", "groceries", "Grocery", "Alice", 250.75},
		{"2025-01-07", "Cash", "", "Food", "Bob", 30},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	require.NoError(t, wb.Close())

	s := openStore(t, testPaths(t))
	res, err := s.Import(buf.Bytes(), FormatXLSX, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Grocery", res.Records[0].Category)
	assert.True(t, res.Records[0].Amount.Equal(decimal.RequireFromString("250.75")))
	assert.Equal(t, "2025-01-07", res.Records[1].Date.Format(model.DateLayout))
	assert.Equal(t, "", res.Records[1].Description)
}

func TestSaveLoad_RoundTripIsStable(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)
	_, err := s.Import([]byte(header+
		"2025-01-05,HDFC,\"lunch, office\",Food,Alice,120.5\n"+
		"2025-01-09,Cash,,Car,Bob,40\n"), FormatCSV, ImportOptions{})
	require.NoError(t, err)
	first, err := os.ReadFile(paths.Ledger)
	require.NoError(t, err)

	loaded, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, s.Save(loaded))
	second, err := os.ReadFile(paths.Ledger)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, "lunch, office", loaded[0].Description)
}

func TestEditCell(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)
	_, err := s.Import([]byte(header+"2025-01-05,HDFC,lunch,Food,Alice,120\n"), FormatCSV, ImportOptions{})
	require.NoError(t, err)

	require.NoError(t, s.EditCell(0, model.FieldAmount, "80.25"))
	assert.True(t, s.Records()[0].Amount.Equal(decimal.RequireFromString("80.25")))

	err = s.EditCell(0, model.FieldAmount, "abc")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, "Amount", pe.Column)
	assert.True(t, s.Records()[0].Amount.Equal(decimal.RequireFromString("80.25")))

	err = s.EditCell(0, model.FieldDate, "yesterday")
	require.ErrorAs(t, err, &pe)

	assert.ErrorIs(t, s.EditCell(5, model.FieldAmount, "1"), ErrNoSuchRow)
	assert.ErrorIs(t, s.EditCell(-1, model.FieldAmount, "1"), ErrNoSuchRow)

	reopened := openStore(t, paths)
	assert.True(t, reopened.Records()[0].Amount.Equal(decimal.RequireFromString("80.25")))
}

func TestAppendDeleteClear(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)

	r, err := model.ParseRecord([]string{"2025-02-01", "Cash", "", "Food", "Bob", "12"})
	require.NoError(t, err)
	require.NoError(t, s.Append(r))
	r.Amount = decimal.NewFromInt(30)
	require.NoError(t, s.Append(r))
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.DeleteRow(0))
	require.Equal(t, 1, s.Len())
	assert.True(t, s.Records()[0].Amount.Equal(decimal.NewFromInt(30)))
	assert.ErrorIs(t, s.DeleteRow(1), ErrNoSuchRow)

	require.NoError(t, s.Clear())
	assert.Zero(t, s.Len())
	data, err := os.ReadFile(paths.Ledger)
	require.NoError(t, err)
	assert.Equal(t, header, string(data))
}

func TestRecordsReturnsCopy(t *testing.T) {
	s := openStore(t, testPaths(t))
	_, err := s.Import([]byte(header+"2025-01-05,HDFC,lunch,Food,Alice,120\n"), FormatCSV, ImportOptions{})
	require.NoError(t, err)

	got := s.Records()
	got[0].Category = "mutated"
	assert.Equal(t, "Food", s.Records()[0].Category)
}

func TestSave_FailureKeepsWorkingSet(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)
	_, err := s.Import([]byte(header+"2025-01-05,HDFC,lunch,Food,Alice,120\n"), FormatCSV, ImportOptions{})
	require.NoError(t, err)

	// A directory where the ledger should be makes the rename fail.
	s.paths.Ledger = t.TempDir()
	err = s.Save(nil)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, s.Len())
}

func TestPaymentLimits(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)

	require.NoError(t, s.SetPaymentLimit("HDFC", decimal.NewFromInt(50000)))
	require.NoError(t, s.SetPaymentLimit("ICICI", decimal.RequireFromString("1500.5")))
	assert.ErrorIs(t, s.SetPaymentLimit("HDFC", decimal.NewFromInt(-1)), ErrInvalidLimit)
	assert.ErrorIs(t, s.SetPaymentLimit("  ", decimal.NewFromInt(1)), ErrInvalidLimit)

	data, err := os.ReadFile(paths.PaymentLimits)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"HDFC\": 50000,\n    \"ICICI\": 1500.5\n}\n", string(data))

	require.NoError(t, s.DeletePaymentLimit(" ICICI "))
	assert.ErrorIs(t, s.DeletePaymentLimit("ICICI"), ErrNoSuchLimit)

	reopened := openStore(t, paths)
	limits := reopened.PaymentLimits()
	require.Len(t, limits, 1)
	assert.True(t, limits["HDFC"].Equal(decimal.NewFromInt(50000)))
}

func TestBudgetLimitsPersist(t *testing.T) {
	paths := testPaths(t)
	s := openStore(t, paths)

	require.NoError(t, s.SetBudgetLimit("Food", decimal.NewFromInt(100)))
	require.NoError(t, s.SetBudgetLimit("Rent", decimal.NewFromInt(1000)))

	reopened := openStore(t, paths)
	budgets := reopened.BudgetLimits()
	require.Len(t, budgets, 2)
	assert.True(t, budgets["Food"].Equal(decimal.NewFromInt(100)))

	require.NoError(t, reopened.DeleteBudgetLimit("Food\t"))
	assert.ErrorIs(t, reopened.DeleteBudgetLimit("Food"), ErrNoSuchLimit)
}

func TestOpen_RejectsBadLimitsFile(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(paths.PaymentLimits, []byte(`{"HDFC": -5}`), 0o600))

	_, err := Open(paths, zerolog.Nop())
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.True(t, errors.Is(err, ErrInvalidLimit))
}

func TestMissingLimits(t *testing.T) {
	s := openStore(t, testPaths(t))
	require.NoError(t, s.SetPaymentLimit("HDFC", decimal.NewFromInt(1)))

	var records []model.Record
	for _, src := range []string{"Amex", "HDFC", "cash", "SBI Debit Card", "Amex", "Axis"} {
		records = append(records, model.Record{Source: src})
	}
	assert.Equal(t, []string{"Amex", "Axis"}, s.MissingLimits(records))
}
