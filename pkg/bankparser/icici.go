package bankparser

import (
	"fmt"
	"regexp"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/classifier"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

var (
	iciciAmountPattern = regexp.MustCompile(`INR\s([\d,]+\.\d{2})`)
	iciciInfoPattern   = regexp.MustCompile(`Info:\s(.*?)\.`)
)

// ICICIParser handles ICICI transaction alert mails. The amount is the sole
// hard gate; a missing Info marker still yields a record with a placeholder
// description.
type ICICIParser struct {
	categories *classifier.Classifier
}

func NewICICIParser(categories *classifier.Classifier) *ICICIParser {
	return &ICICIParser{categories: categories}
}

func (p *ICICIParser) Bank() ledger.Bank { return ledger.BankICICI }

func (p *ICICIParser) Parse(n Notification) (*ledger.TransactionRecord, error) {
	raw, ok := firstSubmatch(iciciAmountPattern, n.Body)
	if !ok {
		// OTP and service mails from the same senders carry no amount.
		return nil, nil
	}

	amount, err := ledger.ParseAmount(raw)
	if err != nil {
		return nil, err
	}

	info, ok := firstSubmatch(iciciInfoPattern, n.Body)
	if !ok {
		info = "Unknown"
	}

	record := &ledger.TransactionRecord{
		Bank:        ledger.BankICICI,
		Timestamp:   n.Date,
		Amount:      amount,
		Description: info,
		Direction:   direction(n.Body),
		Category:    p.categories.Classify(info),
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ICICI record: %s", err.Error())
	}

	return record, nil
}
