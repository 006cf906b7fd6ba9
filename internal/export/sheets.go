// Package export writes ledger snapshots to a Google Spreadsheet so the trip
// budget can be eyeballed outside the app.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"gastos/internal/config"
	"gastos/internal/core"
)

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter creates an exporter using service account credentials
// from the config, either inline JSON or a file path.
func NewSheetsExporter(ctx context.Context, cfg *config.Config) (*SheetsExporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	var credentialsJSON []byte
	switch {
	case cfg.GoogleCredentialsJSON != "":
		credentialsJSON = []byte(cfg.GoogleCredentialsJSON)
	case cfg.GoogleCredentialsFile != "":
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

// Export replaces the sheet contents with a header row and one row per
// expense, amounts converted into all three currencies.
func (e *SheetsExporter) Export(ctx context.Context, expenses []core.ExpenseWithConversion) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:J", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", e.sheetName, err)
	}

	rows := buildRows(expenses)
	writeRange := fmt.Sprintf("%s!A1:J%d", e.sheetName, len(rows))
	vr := &gsheet.ValueRange{Values: rows}

	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported expenses to spreadsheet",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		"rows", len(expenses))
	return nil
}

func buildRows(expenses []core.ExpenseWithConversion) [][]any {
	rows := make([][]any, 0, len(expenses)+1)
	rows = append(rows, []any{
		"Date", "Title", "Category", "Amount", "Currency",
		"Paid By", "Created By", "USD", "BRL", "ARS",
	})
	for _, e := range expenses {
		rows = append(rows, []any{
			e.Date, e.Title, e.Category, e.Amount, string(e.Currency),
			string(e.PaidBy), string(e.CreatedBy),
			e.Converted.USD, e.Converted.BRL, e.Converted.ARS,
		})
	}
	return rows
}
