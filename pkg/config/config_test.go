package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	c := Config{}
	applyDefaults(&c)

	assert.Equal(t, 24, c.Extraction.WindowHours)
	assert.Equal(t, "Master", c.Merger.MasterSheetName)
	assert.Equal(t, "2025-01-01", c.Goals.StartDate)
	assert.Equal(t, "@daily", c.UpdateFrequency)
	assert.NotEmpty(t, c.Goals.ExcludedCategories)
}

func TestApplyDefaultsKeepsConfiguredValues(t *testing.T) {
	c := Config{UpdateFrequency: "@hourly"}
	c.Extraction.WindowHours = 48
	applyDefaults(&c)

	assert.Equal(t, 48, c.Extraction.WindowHours)
	assert.Equal(t, "@hourly", c.UpdateFrequency)
}

func TestBankQuery(t *testing.T) {
	c := ExtractionConfig{Banks: []BankQueryConfig{
		{Bank: "HDFC", Query: "from:custom@hdfcbank.net"},
		{Bank: "Amex", Query: ""},
	}}

	assert.Equal(t, "from:custom@hdfcbank.net", c.BankQuery("HDFC"))
	// Unset or empty overrides fall back to the stock filters.
	assert.Contains(t, c.BankQuery("Amex"), "americanexpress.com")
	assert.Contains(t, c.BankQuery("ICICI"), "icicibank.com")
}
