package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/degenlabs/launchpad/internal/curve"
)

func generateTestTrades() []curve.Trade {
	return []curve.Trade{
		{
			ID:          "trade1",
			Wallet:      "alice",
			Direction:   curve.DirectionBuy,
			Timestamp:   1_700_000_010,
			InputValue:  100_000,
			TokensOut:   99,
			Fee:         1000,
			PriceBefore: 1000,
			PriceAfter:  1000,
			SupplyAfter: 99,
			Accepted:    true,
		},
		{
			ID:        "trade2",
			Wallet:    "alice",
			Direction: curve.DirectionBuy,
			Timestamp: 1_700_000_015,
			Accepted:  false,
			Reason:    curve.ReasonTransactionCooldown,
		},
		{
			ID:          "trade3",
			Wallet:      "bob",
			Direction:   curve.DirectionSell,
			Timestamp:   1_700_000_100,
			InputTokens: 50,
			ValueOut:    49_500,
			Fee:         500,
			PriceBefore: 1000,
			PriceAfter:  1000,
			SupplyAfter: 49,
			Accepted:    true,
		},
	}
}

func TestTradeExportCSV(t *testing.T) {
	exporter := NewTradeExporter(zap.NewNop())

	outputPath, err := exporter.ExportTrades("test", generateTestTrades(), Options{
		Format:    FormatCSV,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus three trades")
	assert.Equal(t, csvHeaders(), records[0])
	assert.Equal(t, "trade1", records[1][0])
	assert.Equal(t, "transaction_cooldown", records[2][len(records[2])-1])
}

func TestTradeExportJSON(t *testing.T) {
	exporter := NewTradeExporter(zap.NewNop())

	outputPath, err := exporter.ExportTrades("test", generateTestTrades(), Options{
		Format:    FormatJSON,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var exported struct {
		TradeCount int           `json:"trade_count"`
		Trades     []curve.Trade `json:"trades"`
		Summary    Summary       `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(content, &exported))
	assert.Equal(t, 3, exported.TradeCount)
	assert.Equal(t, generateTestTrades(), exported.Trades)
	assert.Equal(t, 2, exported.Summary.Accepted)
	assert.Equal(t, 1, exported.Summary.Rejected)
}

func TestTradeExportFilters(t *testing.T) {
	exporter := NewTradeExporter(zap.NewNop())
	trades := generateTestTrades()

	sells := exporter.filterTrades(trades, Options{DirectionFilter: curve.DirectionSell})
	require.Len(t, sells, 1)
	assert.Equal(t, "trade3", sells[0].ID)

	accepted := exporter.filterTrades(trades, Options{OnlyAccepted: true})
	assert.Len(t, accepted, 2)

	_, err := exporter.ExportTrades("empty", nil, Options{
		Format:    FormatCSV,
		OutputDir: t.TempDir(),
	})
	assert.ErrorContains(t, err, "no trades match")
}

func TestExportSummaryCalculation(t *testing.T) {
	summary := calculateSummary(generateTestTrades())

	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, uint64(100_000), summary.BuyVolume)
	assert.Equal(t, uint64(50), summary.SellVolume)
	assert.Equal(t, uint64(1500), summary.FeesCharged)
}

func TestFilenameGeneration(t *testing.T) {
	exporter := NewTradeExporter(zap.NewNop())

	tests := []struct {
		name     string
		options  Options
		expected string
	}{
		{
			name:     "anti-bot",
			options:  Options{Format: FormatCSV},
			expected: "trades_all_anti-bot",
		},
		{
			name:     "",
			options:  Options{Format: FormatJSON, DirectionFilter: curve.DirectionBuy},
			expected: "trades_buy",
		},
		{
			name:     "graduation",
			options:  Options{Format: FormatCSV, DirectionFilter: curve.DirectionSell},
			expected: "trades_sell_graduation",
		},
	}

	for _, tt := range tests {
		filename := exporter.generateFilename(tt.name, tt.options)
		assert.True(t, strings.HasPrefix(filename, tt.expected),
			"expected %s to start with %s", filename, tt.expected)
		assert.True(t, strings.HasSuffix(filename, "."+string(tt.options.Format)))
	}
}
