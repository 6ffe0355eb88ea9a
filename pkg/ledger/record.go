package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Bank identifies the institution a notification came from. The set is
// closed: extraction dispatches on it and the digest groups by it.
type Bank string

const (
	BankICICI Bank = "ICICI"
	BankHDFC  Bank = "HDFC"
	BankAmex  Bank = "Amex"
)

// Banks returns every supported bank in extraction order.
func Banks() []Bank {
	return []Bank{BankICICI, BankHDFC, BankAmex}
}

type Direction string

const (
	Debit  Direction = "Debit"
	Credit Direction = "Credit"
)

// Ledger sheets store dates in this layout. ParseDate also accepts the
// date-only form since spreadsheet display formatting can strip the time.
const (
	DateLayout      = "01/02/2006 15:04:05"
	DateOnlyLayout  = "01/02/2006"
	DisplayedFormat = "MM/dd/yyyy"
)

// Columns of a personal ledger sheet, in order. Card Last 4 is reserved and
// always written blank. The master ledger appends a Source column.
var Headers = []interface{}{
	"Bank", "Date", "Amount", "Transaction Info", "Transaction Type",
	"Category", "Card Last 4", "Month", "Year",
}

var MasterHeaders = append(append([]interface{}{}, Headers...), "Source")

// TransactionRecord is one extracted transaction. It is created exactly once
// by a bank parser and never mutated after it is appended to a ledger.
type TransactionRecord struct {
	Bank        Bank
	Timestamp   time.Time
	Amount      decimal.Decimal
	Description string
	Direction   Direction
	Category    string
	CardLast4   string
	// Source is set on master ledger rows only.
	Source string
}

// Month and Year are derived display fields.
func (r TransactionRecord) Month() string { return r.Timestamp.Month().String() }
func (r TransactionRecord) Year() string  { return r.Timestamp.Format("2006") }

// Validate enforces the persistence invariants: bank, timestamp, amount and
// description populated, amount strictly positive.
func (r TransactionRecord) Validate() error {
	if r.Bank == "" {
		return fmt.Errorf("record has no bank")
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("record has no timestamp")
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("record amount %s is not positive", r.Amount)
	}
	if r.Description == "" {
		return fmt.Errorf("record has no description")
	}
	return nil
}

// Row encodes the record as a personal ledger row.
func (r TransactionRecord) Row() []interface{} {
	return []interface{}{
		string(r.Bank),
		r.Timestamp.Format(DateLayout),
		r.Amount.StringFixed(2),
		r.Description,
		string(r.Direction),
		r.Category,
		r.CardLast4,
		r.Month(),
		r.Year(),
	}
}

// MasterRow encodes the record as a master ledger row with its source label.
func (r TransactionRecord) MasterRow() []interface{} {
	return append(r.Row(), r.Source)
}

// RecordFromRow decodes a ledger row. Rows shorter than the header or with a
// missing/non-positive amount are rejected; these are exactly the rows the
// merger drops.
func RecordFromRow(row []interface{}) (TransactionRecord, error) {
	if len(row) < len(Headers) {
		return TransactionRecord{}, fmt.Errorf("row has %d columns, want %d", len(row), len(Headers))
	}

	bank := cellString(row[0])
	if bank == "" {
		return TransactionRecord{}, fmt.Errorf("row has no bank")
	}

	ts, err := ParseDate(cellString(row[1]))
	if err != nil {
		return TransactionRecord{}, err
	}

	amount, err := ParseAmount(cellString(row[2]))
	if err != nil {
		return TransactionRecord{}, err
	}

	record := TransactionRecord{
		Bank:        Bank(bank),
		Timestamp:   ts,
		Amount:      amount,
		Description: cellString(row[3]),
		Direction:   Direction(cellString(row[4])),
		Category:    cellString(row[5]),
		CardLast4:   cellString(row[6]),
	}
	if len(row) > len(Headers) {
		record.Source = cellString(row[9])
	}

	if err := record.Validate(); err != nil {
		return TransactionRecord{}, err
	}

	return record, nil
}

// sheetEpoch is day zero of a spreadsheet serial number.
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a stored date cell: a spreadsheet serial number as
// returned by unformatted reads, the stored layout, or its date-only form.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("row has no date")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		seconds := math.Round(serial * 24 * 60 * 60)
		return sheetEpoch.Add(time.Duration(seconds) * time.Second), nil
	}

	for _, layout := range []string{DateLayout, DateOnlyLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}

// ParseAmount parses a stored or notification amount, tolerating thousands
// separators. The returned amount must be strictly positive to survive
// Validate.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, fmt.Errorf("row has no amount")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse amount %q: %s", s, err.Error())
	}

	return amount, nil
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
