package bankparser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/classifier"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

// DefaultAmexFormatCutoff is when Amex switched alert templates. Messages
// before it use the legacy OTP-subject format, messages after it the
// labelled Merchant/Amount/Date block.
var DefaultAmexFormatCutoff = time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

const amexDateLayout = "2 January, 2006"

var (
	amexLegacyAmountPattern = regexp.MustCompile(`INR\s([\d,]+\.\d{2})`)
	amexLegacyInfoPattern   = regexp.MustCompile(`(?i)at\s([A-Za-z0-9\s\-&\.,]+)`)

	amexMerchantPattern = regexp.MustCompile(`(?i)Merchant:\s*\n*\s*(.*?)\s*\n`)
	amexAmountPattern   = regexp.MustCompile(`(?i)Amount:\s*\n*INR\s*([\d,]+\.\d{2})`)
	amexDatePattern     = regexp.MustCompile(`(?i)Date:\s*\n*\s*([0-9]{1,2}\s\w+,\s20\d{2})`)
)

// AmexParser handles American Express alerts across both template
// generations. The current format carries an explicit transaction date which
// overrides the message arrival time. Amex sends no credit alerts, so every
// record is a debit.
type AmexParser struct {
	categories   *classifier.Classifier
	formatCutoff time.Time
}

func NewAmexParser(categories *classifier.Classifier, formatCutoff time.Time) *AmexParser {
	if formatCutoff.IsZero() {
		formatCutoff = DefaultAmexFormatCutoff
	}
	return &AmexParser{categories: categories, formatCutoff: formatCutoff}
}

func (p *AmexParser) Bank() ledger.Bank { return ledger.BankAmex }

func (p *AmexParser) Parse(n Notification) (*ledger.TransactionRecord, error) {
	var (
		rawAmount string
		info      string
		ok        bool
		timestamp = n.Date
	)

	switch {
	case n.Date.Before(p.formatCutoff) && strings.Contains(n.Subject, "One-Time Password"):
		rawAmount, ok = firstSubmatch(amexLegacyAmountPattern, n.Body)
		if !ok {
			return nil, nil
		}
		if info, ok = firstSubmatch(amexLegacyInfoPattern, n.Body); !ok {
			info = "Unknown Merchant"
		}

	case strings.Contains(n.PlainBody, "Merchant:"):
		rawAmount, ok = firstSubmatch(amexAmountPattern, n.PlainBody)
		if !ok {
			return nil, nil
		}
		if info, ok = firstSubmatch(amexMerchantPattern, n.PlainBody); !ok {
			info = "Unknown Merchant"
		}
		if raw, ok := firstSubmatch(amexDatePattern, n.PlainBody); ok {
			t, err := time.Parse(amexDateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("unable to parse Amex transaction date %q: %s", raw, err.Error())
			}
			timestamp = t
		}

	default:
		// Promotional or statement mail matched by the broad sender filter.
		return nil, nil
	}

	amount, err := ledger.ParseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	record := &ledger.TransactionRecord{
		Bank:        ledger.BankAmex,
		Timestamp:   timestamp,
		Amount:      amount,
		Description: info,
		Direction:   ledger.Debit,
		Category:    p.categories.Classify(info),
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Amex record: %s", err.Error())
	}

	return record, nil
}
