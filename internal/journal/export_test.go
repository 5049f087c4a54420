package journal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradeflow/internal/models"
)

func TestExportCSV(t *testing.T) {
	trades := []models.Trade{
		{Date: "2024-03-01", Pair: "XAUUSD", Direction: "Long", EntryPrice: 2000, ExitPrice: 2050, Lots: 0.05, Result: 250},
		{Date: "2024-03-04", Pair: "DJ30", Direction: "Short", EntryPrice: 39000, ExitPrice: 39120, Lots: 0.1, Result: -60},
		{Date: "2024-03-05", Pair: "BTCUSD", Direction: "Long", EntryPrice: 67000, ExitPrice: 67000, Lots: 0.01, Result: 0},
	}

	var buf bytes.Buffer
	err := ExportCSV(&buf, trades)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Date,Asset,Direction,Entry,Exit,Lots,P&L", lines[0])
	assert.Equal(t, "2024-03-01,XAUUSD,Long,2000,2050,0.05,+250.00", lines[1])
	assert.Equal(t, "2024-03-04,DJ30,Short,39000,39120,0.1,-60.00", lines[2])
	// Zero is rendered with the explicit plus as well.
	assert.Equal(t, "2024-03-05,BTCUSD,Long,67000,67000,0.01,+0.00", lines[3])
}

func TestFormatPNL(t *testing.T) {
	assert.Equal(t, "+150.00", FormatPNL(150))
	assert.Equal(t, "-42.50", FormatPNL(-42.5))
	assert.Equal(t, "+0.00", FormatPNL(0))
}

// TestExportImportRoundTrip checks that re-parsing an export recovers the
// original field values, including the sign-prefixed P&L column.
func TestExportImportRoundTrip(t *testing.T) {
	trades := []models.Trade{
		{Date: "2024-03-01", Pair: "XAUUSD", Direction: "Long", EntryPrice: 2000.5, ExitPrice: 2050.25, Lots: 0.05, Result: 250},
		{Date: "2024-03-04", Pair: "DAX40", Direction: "Short", EntryPrice: 18000, ExitPrice: 18040, Lots: 0.2, Result: -60.5},
	}

	var buf bytes.Buffer
	assert.NoError(t, ExportCSV(&buf, trades))

	parsed, err := ImportCSV(&buf)
	assert.NoError(t, err)
	assert.Len(t, parsed, 2)

	for i, trade := range trades {
		assert.Equal(t, trade.Date, parsed[i].Date)
		assert.Equal(t, trade.Pair, parsed[i].Pair)
		assert.Equal(t, trade.Direction, parsed[i].Direction)
		assert.InDelta(t, trade.EntryPrice, parsed[i].EntryPrice, 1e-9)
		assert.InDelta(t, trade.ExitPrice, parsed[i].ExitPrice, 1e-9)
		assert.InDelta(t, trade.Lots, parsed[i].Lots, 1e-9)
		assert.InDelta(t, trade.Result, parsed[i].Result, 1e-9)
	}
}

func TestImportCSV_BadHeader(t *testing.T) {
	_, err := ImportCSV(strings.NewReader("Date,Asset\n"))
	assert.Error(t, err)
}

func TestImportCSV_BadNumber(t *testing.T) {
	input := "Date,Asset,Direction,Entry,Exit,Lots,P&L\n2024-03-01,XAUUSD,Long,abc,2050,0.05,+250.00\n"
	_, err := ImportCSV(strings.NewReader(input))
	assert.Error(t, err)
}
