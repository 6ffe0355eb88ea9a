package config

type Config struct {
	Extraction ExtractionConfig
	Merger     MergerConfig
	Goals      GoalsConfig
	Analytics  AnalyticsConfig

	// Cron schedule used when not running with -single-run.
	UpdateFrequency string
}

type Secrets struct {
	Telegram TelegramSecrets
	Google   GoogleSecrets
	SQL      SqlSecrets
	Influx   InfluxSecrets

	// Alternative to the SQL struct, designed to be used with the heroku
	// env variable.
	DatabaseURL string `env:"DATABASE_URL"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Extraction
///////////////////////////////////////////////////////////////////////////////////////

type ExtractionConfig struct {
	SpreadsheetID string `json:"spreadsheetId"`
	SheetName     string `json:"sheetName"`
	// WindowHours is the trailing re-scan window; rows newer than
	// now-WindowHours are deleted and re-extracted every run.
	WindowHours int `json:"windowHours"`
	// AmexFormatCutoff (YYYY-MM-DD) selects between the legacy and current
	// Amex alert formats.
	AmexFormatCutoff string `json:"amexFormatCutoff"`
	// Banks overrides the per-bank mail queries; unset banks keep the
	// stock filters.
	Banks []BankQueryConfig `json:"banks"`
	// Categories is the ordered keyword table for the merchant classifier.
	// Order is significant: first match wins. Empty means the stock table.
	Categories []CategoryRule `json:"categories"`
}

type BankQueryConfig struct {
	Bank  string `json:"bank"`
	Query string `json:"query"`
}

type CategoryRule struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Merger
///////////////////////////////////////////////////////////////////////////////////////

type MergerConfig struct {
	MasterSpreadsheetID string              `json:"masterSpreadsheetId"`
	MasterSheetName     string              `json:"masterSheetName"`
	Sources             []MergeSourceConfig `json:"sources"`
}

type MergeSourceConfig struct {
	SpreadsheetID string `json:"spreadsheetId"`
	SheetName     string `json:"sheetName"`
	SourceLabel   string `json:"sourceLabel"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Goals
///////////////////////////////////////////////////////////////////////////////////////

type GoalsConfig struct {
	// StartDate (YYYY-MM-DD) anchors the progressive reduction phases.
	StartDate string `json:"startDate"`
	// ExcludedCategories are skipped for goal baselines and tracked as
	// subscriptions instead.
	ExcludedCategories []string `json:"excludedCategories"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Analytics
///////////////////////////////////////////////////////////////////////////////////////

type AnalyticsConfig struct {
	SQL struct {
		Database          string
		TransactionsTable string
	}
	InfluxDatabase string `json:"influxDatabase"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Secrets
///////////////////////////////////////////////////////////////////////////////////////

type TelegramSecrets struct {
	BotToken string `json:"botToken" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `json:"chatId" env:"TELEGRAM_CHAT_ID"`
}

type GoogleSecrets struct {
	// CredentialsJSON is the service account key used for both Gmail and
	// Sheets access.
	CredentialsJSON string `json:"credentialsJson" env:"GOOGLE_CREDENTIALS_JSON"`
}

type SqlSecrets struct {
	SqlHost     string `env:"SQL_HOST"`
	SqlUsername string `env:"SQL_USERNAME"`
	SqlPassword string `env:"SQL_PASSWORD"`
}

type InfluxSecrets struct {
	InfluxEndpoint string `env:"INFLUX_ENDPOINT"`
	InfluxUsername string `env:"INFLUX_USERNAME"`
	InfluxPassword string `env:"INFLUX_PASSWORD"`
}
