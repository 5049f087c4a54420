package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tradeflow/internal/models"
)

// csvHeader is the fixed column layout of the export format.
var csvHeader = []string{"Date", "Asset", "Direction", "Entry", "Exit", "Lots", "P&L"}

// ExportCSV writes the trade history in the journal export format.
// The P&L column carries an explicit leading "+" for non-negative results
// and two decimal places, matching the dashboard rendering.
func ExportCSV(w io.Writer, trades []models.Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range trades {
		record := []string{
			t.Date,
			t.Pair,
			t.Direction,
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(t.Lots, 'f', -1, 64),
			FormatPNL(t.Result),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatPNL renders a signed monetary result, e.g. "+150.00" or "-42.50".
func FormatPNL(result float64) string {
	if result >= 0 {
		return fmt.Sprintf("+%.2f", result)
	}
	return fmt.Sprintf("%.2f", result)
}

// ImportCSV reads trades back from the export format. The sign prefix on
// the P&L column is stripped before parsing, so an export/import round trip
// recovers the original values.
func ImportCSV(r io.Reader) ([]models.Trade, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected csv header %v", header)
	}

	var trades []models.Trade
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		entry, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid entry price %q: %w", record[3], err)
		}
		exit, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid exit price %q: %w", record[4], err)
		}
		lots, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lots %q: %w", record[5], err)
		}
		result, err := strconv.ParseFloat(strings.TrimPrefix(record[6], "+"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid result %q: %w", record[6], err)
		}

		trades = append(trades, models.Trade{
			Date:       record[0],
			Pair:       record[1],
			Direction:  record[2],
			EntryPrice: entry,
			ExitPrice:  exit,
			Lots:       lots,
			Result:     result,
		})
	}
	return trades, nil
}
