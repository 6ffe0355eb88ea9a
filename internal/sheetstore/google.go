package sheetstore

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewSheetsService builds the shared Sheets API client from service account
// credentials.
func NewSheetsService(ctx context.Context, credentialsJSON string) (*sheets.Service, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("Error creating sheets client: %s", err.Error())
	}
	return svc, nil
}

// GoogleSheet is a Store backed by one sheet of a Google spreadsheet.
type GoogleSheet struct {
	ctx           context.Context
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
}

// OpenGoogleSheet resolves the sheet's numeric ID; ErrSheetNotFound when the
// named sheet is absent from the spreadsheet.
func OpenGoogleSheet(ctx context.Context, svc *sheets.Service, spreadsheetID, sheetName string) (*GoogleSheet, error) {
	meta, err := svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("Error fetching spreadsheet %s: %s", spreadsheetID, err.Error())
	}

	for _, s := range meta.Sheets {
		if s.Properties.Title == sheetName {
			return &GoogleSheet{
				ctx:           ctx,
				svc:           svc,
				spreadsheetID: spreadsheetID,
				sheetName:     sheetName,
				sheetID:       s.Properties.SheetId,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrSheetNotFound, sheetName, spreadsheetID)
}

func (g *GoogleSheet) AppendRow(values []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, g.sheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(g.ctx).Do()
	if err != nil {
		return fmt.Errorf("Error appending row to %s: %s", g.sheetName, err.Error())
	}
	return nil
}

func (g *GoogleSheet) ReadRange(startRow, rowCount, colCount int) ([][]interface{}, error) {
	if rowCount <= 0 {
		return nil, nil
	}

	// Unformatted reads return date cells as serial numbers with full time
	// precision. A formatted read would render the date column through its
	// display format, which truncates the stored time to midnight.
	readRange := fmt.Sprintf("%s!A%d:%s%d", g.sheetName, startRow, columnLetter(colCount), startRow+rowCount-1)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(g.ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("Error reading %s: %s", readRange, err.Error())
	}
	return resp.Values, nil
}

func (g *GoogleSheet) DeleteRow(rowIndex int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    g.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex - 1),
					EndIndex:   int64(rowIndex),
				},
			},
		}},
	}

	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(g.ctx).Do()
	if err != nil {
		return fmt.Errorf("Error deleting row %d from %s: %s", rowIndex, g.sheetName, err.Error())
	}
	return nil
}

func (g *GoogleSheet) LastRowIndex() (int, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.sheetName).Context(g.ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("Error reading %s: %s", g.sheetName, err.Error())
	}
	return len(resp.Values), nil
}

func (g *GoogleSheet) Clear() error {
	_, err := g.svc.Spreadsheets.Values.Clear(g.spreadsheetID, g.sheetName, &sheets.ClearValuesRequest{}).
		Context(g.ctx).Do()
	if err != nil {
		return fmt.Errorf("Error clearing %s: %s", g.sheetName, err.Error())
	}
	return nil
}

// FormatDateColumn applies a display number format to every data row of the
// given 1-based column.
func (g *GoogleSheet) FormatDateColumn(column int, pattern string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          g.sheetID,
					StartRowIndex:    1,
					StartColumnIndex: int64(column - 1),
					EndColumnIndex:   int64(column),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{Type: "DATE", Pattern: pattern},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		}},
	}

	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(g.ctx).Do()
	if err != nil {
		return fmt.Errorf("Error formatting date column of %s: %s", g.sheetName, err.Error())
	}
	return nil
}

func columnLetter(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}
