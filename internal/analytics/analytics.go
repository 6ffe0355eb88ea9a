// Package analytics mirrors the master ledger into Postgres and InfluxDB
// for dashboards. It is a downstream consumer only: nothing here writes back
// to any ledger sheet.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"k8s.io/klog"

	influx "github.com/influxdata/influxdb/client/v2"

	"github.com/aavugari/Smart-Expense-Monitor/internal/influxHelper"
	"github.com/aavugari/Smart-Expense-Monitor/internal/sheetstore"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/config"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/postgresutils"
)

type SQLTransaction struct {
	bun.BaseModel    `bun:"table:transactions"`
	ID               int64  `bun:",pk,autoincrement"`
	Key              string `bun:",unique"`
	Bank             string
	TransactionDate  time.Time
	TransactionMonth time.Time
	Amount           float64
	Description      string `bun:"type:text"`
	TransactionType  string
	Category         string
	Source           string
	UpdatedAt        time.Time
}

type AnalyticsRunner struct {
	master       sheetstore.Store
	db           *bun.DB
	influxClient influx.Client
	database     string
}

func New(master sheetstore.Store, db *bun.DB, influxClient influx.Client, database string) *AnalyticsRunner {
	return &AnalyticsRunner{master: master, db: db, influxClient: influxClient, database: database}
}

// NewAnalyticsRunner wires the runner from configuration.
func NewAnalyticsRunner() (*AnalyticsRunner, error) {
	ctx := context.Background()
	mergerCfg := config.CurrentMergerConfig()
	cfg := config.CurrentAnalyticsConfig()

	svc, err := sheetstore.NewSheetsService(ctx, config.CurrentGoogleSecrets().CredentialsJSON)
	if err != nil {
		return nil, err
	}

	master, err := sheetstore.OpenGoogleSheet(ctx, svc, mergerCfg.MasterSpreadsheetID, mergerCfg.MasterSheetName)
	if err != nil {
		return nil, fmt.Errorf("Error opening master sheet: %s", err.Error())
	}

	db, err := postgresutils.CreatePostgresClient(cfg.SQL.Database)
	if err != nil {
		return nil, fmt.Errorf("Error connecting to postgres DB: %s", err)
	}

	influxClient, err := influxHelper.CreateInfluxClient(*config.CurrentInfluxSecrets())
	if err != nil {
		return nil, fmt.Errorf("Error creating InfluxDB Client: %s", err.Error())
	}

	return New(master, db, influxClient, cfg.InfluxDatabase), nil
}

func (r *AnalyticsRunner) Run() error {
	records, err := sheetstore.ReadRecords(r.master, len(ledger.MasterHeaders))
	if err != nil {
		return fmt.Errorf("Error reading master ledger: %s", err.Error())
	}

	if err := r.exportSQL(records); err != nil {
		return err
	}

	return r.exportInflux(records)
}

func (r *AnalyticsRunner) exportSQL(records []ledger.TransactionRecord) error {
	ctx := context.Background()

	_, err := r.db.NewCreateTable().Model((*SQLTransaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	sqlRecords := make([]SQLTransaction, 0, len(records))
	for _, record := range records {
		sqlRecords = append(sqlRecords, sqlForRecord(record))
	}

	_, err = r.db.NewInsert().
		Model(&sqlRecords).
		On("CONFLICT (key) DO UPDATE").
		Set(postgresutils.TableSetString(r.db, (*SQLTransaction)(nil), "id", "key")).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("error writing to sql: %w", err)
	}

	klog.Infof("Wrote %d transactions to sql\n", len(sqlRecords))
	return nil
}

func (r *AnalyticsRunner) exportInflux(records []ledger.TransactionRecord) error {
	err := influxHelper.DropDatabase(r.influxClient, r.database)
	if err != nil {
		return fmt.Errorf("Error dropping DB: %s", err.Error())
	}
	err = influxHelper.CreateDatabase(r.influxClient, r.database)
	if err != nil {
		return fmt.Errorf("Error creating DB: %s", err.Error())
	}

	bp, err := influx.NewBatchPoints(influx.BatchPointsConfig{
		Database:  r.database,
		Precision: "h",
	})
	if err != nil {
		return fmt.Errorf("Error creating InfluxDB point batch: %s", err.Error())
	}

	for _, record := range records {
		amount, _ := record.Amount.Float64()

		tags := map[string]string{
			"bank":            string(record.Bank),
			"category":        record.Category,
			"transactionType": string(record.Direction),
			"source":          record.Source,
		}
		fields := map[string]interface{}{
			"amount": amount,
		}

		pt, err := influx.NewPoint(r.database, tags, fields, record.Timestamp)
		if err != nil {
			return fmt.Errorf("Error adding new point: %s", err.Error())
		}
		bp.AddPoint(pt)
	}

	err = r.influxClient.Write(bp)
	if err != nil {
		return fmt.Errorf("Error writing to influx: %s", err.Error())
	}

	klog.Infof("Wrote %d transactions to influx\n", len(records))
	return nil
}

func sqlForRecord(record ledger.TransactionRecord) SQLTransaction {
	amount, _ := record.Amount.Float64()
	month := time.Date(record.Timestamp.Year(), record.Timestamp.Month(), 1, 0, 0, 0, 0, record.Timestamp.Location())

	return SQLTransaction{
		Key:              RecordKey(record),
		Bank:             string(record.Bank),
		TransactionDate:  record.Timestamp,
		TransactionMonth: month,
		Amount:           amount,
		Description:      record.Description,
		TransactionType:  string(record.Direction),
		Category:         record.Category,
		Source:           record.Source,
		UpdatedAt:        time.Now(),
	}
}

// RecordKey is the deterministic upsert key: re-exporting the same ledger
// updates rows instead of duplicating them.
func RecordKey(record ledger.TransactionRecord) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s",
		record.Source,
		record.Bank,
		record.Timestamp.Format(time.RFC3339),
		record.Amount.StringFixed(2),
		record.Description,
	)
}
