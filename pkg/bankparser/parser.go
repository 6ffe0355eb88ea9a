// Package bankparser turns semi-structured card alert notifications into
// ledger records. Each bank has its own template, so each bank gets its own
// parser; a parser never panics past its boundary and reports a notification
// that is not a transaction alert as (nil, nil).
package bankparser

import (
	"regexp"
	"strings"
	"time"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/classifier"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

// Notification is one inbound message as exposed by the message store.
type Notification struct {
	// Date is the arrival time of the message, not necessarily the
	// transaction time.
	Date      time.Time
	Subject   string
	Body      string
	PlainBody string
}

// Parser extracts zero or one transaction from a notification.
//
// A nil record with a nil error means the notification is not a transaction
// alert (OTP mail, promotions caught by a broad sender filter); a non-nil
// error means the notification looked like an alert but a field could not be
// extracted or validated. Callers log the latter and continue.
type Parser interface {
	Bank() ledger.Bank
	Parse(n Notification) (*ledger.TransactionRecord, error)
}

// ForBank returns the parser for a bank. The switch is exhaustive over
// ledger.Banks().
func ForBank(bank ledger.Bank, categories *classifier.Classifier, amexFormatCutoff time.Time) Parser {
	switch bank {
	case ledger.BankICICI:
		return NewICICIParser(categories)
	case ledger.BankHDFC:
		return NewHDFCParser(categories)
	case ledger.BankAmex:
		return NewAmexParser(categories, amexFormatCutoff)
	}
	return nil
}

// firstSubmatch returns the first capture group of the first match, trimmed.
func firstSubmatch(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// chainSubmatch tries each pattern in order and short-circuits on the first
// one that matches.
func chainSubmatch(chain []*regexp.Regexp, s string) (string, bool) {
	for _, re := range chain {
		if v, ok := firstSubmatch(re, s); ok {
			return v, true
		}
	}
	return "", false
}

// direction applies the shared credited/received heuristic.
func direction(body string) ledger.Direction {
	if strings.Contains(body, "credited") || strings.Contains(body, "Payment received") {
		return ledger.Credit
	}
	return ledger.Debit
}
