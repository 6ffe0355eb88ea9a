package config

import (
	"encoding/json"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/Shopify/ejson"
	"github.com/caarlos0/env/v6"
	"github.com/ghodss/yaml"
)

var config Config
var secrets Secrets

// Stock Gmail filters per bank; intentionally broader than "only
// transactions", the parsers reject what the filter lets through.
var defaultBankQueries = map[string]string{
	"ICICI": `from:credit_cards@icicibank.com OR from:alerts@icicibank.com subject:"Transaction alert"`,
	"HDFC":  `from:alerts@hdfcbank.net subject:("Alert : Update on your HDFC Bank Credit Card" OR "debited via Credit Card")`,
	"Amex":  `(from:AmericanExpress@welcome.americanexpress.com OR from:alerts@americanexpress.com)`,
}

var defaultExcludedCategories = []string{
	"Others",
	"Google Subscription",
	"Youtube Subscription",
	"Netflix",
	"Subscription",
	"Apple",
}

func ReadConfig(configEnvVar, configFile, secretsFile string) error {
	_, err := readConfig(configEnvVar, configFile)
	if err != nil {
		return err
	}

	_, err = readSecrets(secretsFile)
	if err != nil {
		return err
	}

	applyDefaults(&config)

	return nil
}

func CurrentConfig() *Config {
	return &config
}

func CurrentSecrets() *Secrets {
	return &secrets
}

func CurrentExtractionConfig() *ExtractionConfig {
	return &config.Extraction
}

func CurrentMergerConfig() *MergerConfig {
	return &config.Merger
}

func CurrentGoalsConfig() *GoalsConfig {
	return &config.Goals
}

func CurrentAnalyticsConfig() *AnalyticsConfig {
	return &config.Analytics
}

func CurrentTelegramSecrets() *TelegramSecrets {
	return &secrets.Telegram
}

func CurrentGoogleSecrets() *GoogleSecrets {
	return &secrets.Google
}

func CurrentSqlSecrets() *SqlSecrets {
	return &secrets.SQL
}

func CurrentInfluxSecrets() *InfluxSecrets {
	return &secrets.Influx
}

// BankQuery returns the configured mail filter for a bank, falling back to
// the stock one.
func (c *ExtractionConfig) BankQuery(bank string) string {
	for _, b := range c.Banks {
		if b.Bank == bank && b.Query != "" {
			return b.Query
		}
	}
	return defaultBankQueries[bank]
}

func applyDefaults(c *Config) {
	if c.Extraction.WindowHours == 0 {
		c.Extraction.WindowHours = 24
	}
	if c.Merger.MasterSheetName == "" {
		c.Merger.MasterSheetName = "Master"
	}
	if len(c.Goals.ExcludedCategories) == 0 {
		c.Goals.ExcludedCategories = defaultExcludedCategories
	}
	if c.Goals.StartDate == "" {
		c.Goals.StartDate = "2025-01-01"
	}
	if c.UpdateFrequency == "" {
		c.UpdateFrequency = "@daily"
	}
}

func readConfig(envName, filename string) (*Config, error) {
	var raw []byte
	var err error

	rawEnv := os.Getenv(envName)
	if rawEnv != "" {
		fmt.Printf("Reading config from environment variable %s\n", envName)
		raw = []byte(rawEnv)
	} else {
		raw, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	err = yaml.Unmarshal(raw, &config)

	return &config, err
}

func readSecrets(filename string) (*Secrets, error) {
	ejsonSecrets, ejsonErr := readEjsonSecrets(filename)

	envSecrets, envErr := readEnvSecrets()

	if ejsonErr == nil && envErr == nil {
		err := mergo.Merge(envSecrets, *ejsonSecrets)
		secrets = *envSecrets
		if err != nil {
			return nil, fmt.Errorf("Failed to merge secrets: %v", err)
		}
	} else if ejsonErr != nil && envErr == nil {
		fmt.Printf("Warning: Error to parse ejson secret. Ejson error: %v\n", ejsonErr)
		secrets = *envSecrets
	} else if ejsonErr == nil && envErr != nil {
		fmt.Printf("Warning: Error to parse env secret. Env error: %v\n", envErr)
		secrets = *ejsonSecrets
	} else {
		return nil, fmt.Errorf("Failed to parse secrets. Ejson error: %v. Env error: %v", ejsonErr, envErr)
	}

	return &secrets, nil
}

func readEjsonSecrets(filename string) (*Secrets, error) {
	ejsonSecrets := Secrets{}
	ejsonKeyFile := os.Getenv("MONITOR_EJSON_SECRET_KEY")
	ejsonKey := []byte{}
	var err error

	if ejsonKeyFile != "" {
		ejsonKey, err = os.ReadFile(ejsonKeyFile)
		if err != nil {
			return nil, err
		}
	}
	raw, err := ejson.DecryptFile(filename, "/opt/ejson/keys", string(ejsonKey))
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(raw, &ejsonSecrets)
	return &ejsonSecrets, err
}

func readEnvSecrets() (*Secrets, error) {
	envSecrets := Secrets{}
	err := env.Parse(&envSecrets)
	return &envSecrets, err
}
