package bankparser

import (
	"fmt"
	"regexp"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/classifier"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

var hdfcAmountPattern = regexp.MustCompile(`(?i)Rs\.?\s?([\d,]+\.\d{2})`)

// hdfcInfoChain is tried in order; HDFC alert templates anchor the merchant
// with different prepositions depending on the transaction kind.
var hdfcInfoChain = []*regexp.Regexp{
	regexp.MustCompile(`(?i)towards\s(.+?)\son`),
	regexp.MustCompile(`(?i)at\s(.+?)\son`),
	regexp.MustCompile(`(?i)for\s(.+?)\son`),
}

// HDFCParser handles HDFC credit card alert mails.
type HDFCParser struct {
	categories *classifier.Classifier
}

func NewHDFCParser(categories *classifier.Classifier) *HDFCParser {
	return &HDFCParser{categories: categories}
}

func (p *HDFCParser) Bank() ledger.Bank { return ledger.BankHDFC }

func (p *HDFCParser) Parse(n Notification) (*ledger.TransactionRecord, error) {
	raw, ok := firstSubmatch(hdfcAmountPattern, n.Body)
	if !ok {
		return nil, nil
	}

	amount, err := ledger.ParseAmount(raw)
	if err != nil {
		return nil, err
	}

	info, ok := chainSubmatch(hdfcInfoChain, n.Body)
	if !ok {
		info = "Unknown"
	}

	record := &ledger.TransactionRecord{
		Bank:        ledger.BankHDFC,
		Timestamp:   n.Date,
		Amount:      amount,
		Description: info,
		Direction:   direction(n.Body),
		Category:    p.categories.Classify(info),
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid HDFC record: %s", err.Error())
	}

	return record, nil
}
