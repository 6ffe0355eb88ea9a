package bankparser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/classifier"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

func TestHDFCParseTowards(t *testing.T) {
	p := NewHDFCParser(testCategories)
	arrival := time.Date(2025, time.January, 4, 12, 5, 0, 0, time.UTC)
	body := `Dear Card Member, Rs. 1,250.00 is debited from your HDFC Bank
Credit Card ending 4412 towards Big Bazaar on 04-01-2025 12:04:58.
Avl bal: Rs. 48,750.00.`

	record, err := p.Parse(Notification{Date: arrival, Body: body})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, ledger.BankHDFC, record.Bank)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("1250.00")))
	assert.Equal(t, "Big Bazaar", record.Description)
	assert.Equal(t, ledger.Debit, record.Direction)
	assert.Equal(t, classifier.DefaultCategory, record.Category)
	assert.True(t, record.Timestamp.Equal(arrival))
}

func TestHDFCParseAtFallback(t *testing.T) {
	p := NewHDFCParser(testCategories)
	body := `Dear Card Member, Thank you for using your HDFC Bank Credit Card
ending 4412 for Rs.640.00 spent using card at ZEPTO MARKETPLACE on
07-02-2025 19:31:10.`

	record, err := p.Parse(Notification{Date: time.Now(), Body: body})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "ZEPTO MARKETPLACE", record.Description)
	assert.Equal(t, "Grocery", record.Category)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("640.00")))
}

func TestHDFCParseForFallback(t *testing.T) {
	p := NewHDFCParser(testCategories)
	body := `Dear Card Member,
Rs. 399.00 has been debited for NETFLIX SUBSCRIPTION on 05-01-2025
09:00:02 from your HDFC Bank Credit Card.`

	record, err := p.Parse(Notification{Date: time.Now(), Body: body})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "NETFLIX SUBSCRIPTION", record.Description)
	assert.Equal(t, "Netflix", record.Category)
}

func TestHDFCParseCredit(t *testing.T) {
	p := NewHDFCParser(testCategories)
	body := `Dear Card Member, Payment received towards your HDFC Bank Credit
Card. Rs. 10,000.00 credited towards CARD PAYMENT on 01-02-2025.`

	record, err := p.Parse(Notification{Date: time.Now(), Body: body})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, ledger.Credit, record.Direction)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("10000.00")))
}

func TestHDFCNoMerchantAnchorUsesPlaceholder(t *testing.T) {
	p := NewHDFCParser(testCategories)
	body := `Rs. 120.00 has been debited.`

	record, err := p.Parse(Notification{Date: time.Now(), Body: body})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "Unknown", record.Description)
}

func TestHDFCNoAmountIsNotATransaction(t *testing.T) {
	p := NewHDFCParser(testCategories)
	body := `Your HDFC Bank NetBanking OTP is 291847. Valid for 5 minutes.`

	record, err := p.Parse(Notification{Date: time.Now(), Body: body})
	assert.NoError(t, err)
	assert.Nil(t, record)
}
