package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"loyaltybot/core/logger"
	"loyaltybot/registration"

	gsheets "google.golang.org/api/sheets/v4"
)

type headerStep int

const (
	headerOK headerStep = iota
	// headerAppend: the worksheet is empty, the header becomes the first row.
	headerAppend
	// headerInsert: data exists but the first row is not the header; a new
	// row is inserted above it so no data is lost.
	headerInsert
)

// EnsureHeader guarantees the records worksheet starts with the expected
// header row, inserting one above existing data when needed.
func (s *Service) EnsureHeader(ctx context.Context) error {
	resp, err := s.api.Spreadsheets.Values.
		Get(s.spreadsheetID, "A1:F1").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: read header: %w", err)
	}

	switch headerAction(resp.Values) {
	case headerOK:
		return nil
	case headerAppend:
		if err := s.appendRow(ctx, headerRow()); err != nil {
			return fmt.Errorf("sheets: write header: %w", err)
		}
	case headerInsert:
		if err := s.insertHeaderRow(ctx); err != nil {
			return fmt.Errorf("sheets: insert header: %w", err)
		}
	}

	// Formatting is cosmetic; a failure here must not block registration.
	if err := s.formatHeader(ctx); err != nil {
		logger.SVCSheets.Warn("header formatting failed",
			slog.String("event", "sheets.header.format"),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

// headerAction decides what EnsureHeader must do given the current first row.
func headerAction(rows [][]interface{}) headerStep {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return headerAppend
	}
	first := rows[0]
	if len(first) < len(Header) {
		return headerInsert
	}
	for i, want := range Header {
		got, _ := first[i].(string)
		if got != want {
			return headerInsert
		}
	}
	return headerOK
}

// Append saves one completed registration as a new row, making sure the
// header exists first.
func (s *Service) Append(ctx context.Context, rec registration.Record) error {
	if err := s.EnsureHeader(ctx); err != nil {
		return err
	}

	start := time.Now()
	if err := s.appendRow(ctx, recordRow(rec)); err != nil {
		return fmt.Errorf("sheets: append record: %w", err)
	}

	logger.SVCSheets.Info("record saved",
		slog.String("event", "sheets.append"),
		slog.Int64("user_id", rec.UserID),
		slog.String("city", rec.City),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}

// recordRow renders a registration as a spreadsheet row in Header order.
func recordRow(rec registration.Record) []interface{} {
	username := rec.Username
	if username == "" {
		username = usernamePlaceholder
	}
	return []interface{}{
		rec.City,
		rec.Name,
		rec.Phone,
		username,
		strconv.FormatInt(rec.UserID, 10),
		rec.SubmittedAt.Format(submittedAtLayout),
	}
}

func headerRow() []interface{} {
	row := make([]interface{}, len(Header))
	for i, h := range Header {
		row[i] = h
	}
	return row
}

func (s *Service) appendRow(ctx context.Context, row []interface{}) error {
	_, err := s.api.Spreadsheets.Values.
		Append(s.spreadsheetID, "A1", &gsheets.ValueRange{
			Values: [][]interface{}{row},
		}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (s *Service) insertHeaderRow(ctx context.Context) error {
	sheetID, err := s.recordsSheetID(ctx)
	if err != nil {
		return err
	}

	_, err = s.api.Spreadsheets.BatchUpdate(s.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			InsertDimension: &gsheets.InsertDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: 0,
					EndIndex:   1,
				},
				InheritFromBefore: false,
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return err
	}

	_, err = s.api.Spreadsheets.Values.
		Update(s.spreadsheetID, "A1:F1", &gsheets.ValueRange{
			Values: [][]interface{}{headerRow()},
		}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// formatHeader makes the header row bold, centered, on a light background.
func (s *Service) formatHeader(ctx context.Context) error {
	sheetID, err := s.recordsSheetID(ctx)
	if err != nil {
		return err
	}

	_, err = s.api.Spreadsheets.BatchUpdate(s.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			RepeatCell: &gsheets.RepeatCellRequest{
				Range: &gsheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(Header)),
				},
				Cell: &gsheets.CellData{
					UserEnteredFormat: &gsheets.CellFormat{
						TextFormat:          &gsheets.TextFormat{Bold: true},
						BackgroundColor:     &gsheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
						HorizontalAlignment: "CENTER",
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor,horizontalAlignment)",
			},
		}},
	}).Context(ctx).Do()
	return err
}
