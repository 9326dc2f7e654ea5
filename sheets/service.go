// Package sheets backs the registration flow with a Google Spreadsheet:
// the first worksheet accumulates completed registrations and a separate
// worksheet holds the city directory.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loyaltybot/core/logger"
	"loyaltybot/registration"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Header is the first row of the records worksheet.
var Header = []string{"Город", "Имя", "Телефон", "Username", "User ID", "Дата"}

// usernamePlaceholder substitutes a missing Telegram username in saved rows.
const usernamePlaceholder = "Не указан"

// submittedAtLayout renders registration timestamps in saved rows.
const submittedAtLayout = "02.01.2006 15:04"

// Service talks to a single spreadsheet.
type Service struct {
	api             *gsheets.Service
	spreadsheetID   string
	citiesWorksheet string
}

var (
	_ registration.Directory   = (*Service)(nil)
	_ registration.RecordStore = (*Service)(nil)
)

// New builds a Service authorized via a service-account credentials file.
func New(ctx context.Context, credentialsPath, spreadsheetID, citiesWorksheet string) (*Service, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}

	start := time.Now()
	api, err := gsheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("sheets: client init: %w", err)
	}

	logger.SVCSheets.Info("client ready",
		slog.String("event", "sheets.init"),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	return &Service{
		api:             api,
		spreadsheetID:   spreadsheetID,
		citiesWorksheet: citiesWorksheet,
	}, nil
}

// Stats returns the total number of saved registrations and how many of
// them were saved today. Rows that do not parse as registrations are
// counted as total only.
func (s *Service) Stats(ctx context.Context) (total, today int, err error) {
	resp, err := s.api.Spreadsheets.Values.
		Get(s.spreadsheetID, "A2:F").
		Context(ctx).
		Do()
	if err != nil {
		return 0, 0, fmt.Errorf("sheets: read records: %w", err)
	}

	now := time.Now()
	todayPrefix := now.Format("02.01.2006")
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		total++
		if len(row) >= 6 {
			if ts, ok := row[5].(string); ok && len(ts) >= len(todayPrefix) && ts[:len(todayPrefix)] == todayPrefix {
				today++
			}
		}
	}
	return total, today, nil
}

// Info returns spreadsheet metadata for diagnostics: its title and the
// list of worksheet titles with row counts.
func (s *Service) Info(ctx context.Context) (title string, worksheets []WorksheetInfo, err error) {
	meta, err := s.api.Spreadsheets.
		Get(s.spreadsheetID).
		Fields("properties.title", "sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return "", nil, fmt.Errorf("sheets: read metadata: %w", err)
	}

	title = meta.Properties.Title
	for _, sh := range meta.Sheets {
		if sh.Properties == nil {
			continue
		}
		info := WorksheetInfo{Title: sh.Properties.Title}
		if sh.Properties.GridProperties != nil {
			info.Rows = sh.Properties.GridProperties.RowCount
		}
		worksheets = append(worksheets, info)
	}
	return title, worksheets, nil
}

// WorksheetInfo describes one worksheet inside the spreadsheet.
type WorksheetInfo struct {
	Title string
	Rows  int64
}

// recordsSheetID resolves the numeric sheet id of the first worksheet,
// which is where records live.
func (s *Service) recordsSheetID(ctx context.Context) (int64, error) {
	meta, err := s.api.Spreadsheets.
		Get(s.spreadsheetID).
		Fields("sheets.properties.sheetId,sheets.properties.index").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: read metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Index == 0 {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheets: records worksheet not found")
}
