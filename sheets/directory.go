package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loyaltybot/core/logger"
)

// addressPlaceholder substitutes a missing address in the city directory.
const addressPlaceholder = "Адрес не указан"

// FetchDirectory reads the city directory worksheet and returns the list
// of cities in sheet order together with a city -> address map. Rows with
// an empty city column are skipped; an empty address is replaced with a
// placeholder.
func (s *Service) FetchDirectory(ctx context.Context) ([]string, map[string]string, error) {
	readRange := fmt.Sprintf("'%s'!A2:B", s.citiesWorksheet)

	start := time.Now()
	resp, err := s.api.Spreadsheets.Values.
		Get(s.spreadsheetID, readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, nil, fmt.Errorf("sheets: read directory: %w", err)
	}

	cities, addresses := parseDirectory(resp.Values)

	logger.SVCSheets.Debug("directory loaded",
		slog.String("event", "sheets.directory"),
		slog.Int("cities", len(cities)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return cities, addresses, nil
}

func parseDirectory(rows [][]interface{}) ([]string, map[string]string) {
	cities := make([]string, 0, len(rows))
	addresses := make(map[string]string, len(rows))

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		city, _ := row[0].(string)
		city = strings.TrimSpace(city)
		if city == "" {
			continue
		}

		address := ""
		if len(row) > 1 {
			address, _ = row[1].(string)
			address = strings.TrimSpace(address)
		}
		if address == "" {
			address = addressPlaceholder
		}

		if _, seen := addresses[city]; !seen {
			cities = append(cities, city)
		}
		addresses[city] = address
	}
	return cities, addresses
}
