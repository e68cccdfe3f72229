package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/degenlabs/launchpad/internal/curve"
)

// Format represents the export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Options configures the export behavior
type Options struct {
	Format          Format
	DirectionFilter curve.Direction // empty exports both directions
	OnlyAccepted    bool
	OutputDir       string
}

// TradeExporter writes a curve's trade history to disk.
type TradeExporter struct {
	logger *zap.Logger
}

// NewTradeExporter creates a new trade exporter
func NewTradeExporter(logger *zap.Logger) *TradeExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradeExporter{logger: logger.Named("trade_exporter")}
}

// ExportTrades writes the filtered trade history and returns the output path.
// History is already in execution order, so no sorting is needed.
func (te *TradeExporter) ExportTrades(name string, trades []curve.Trade, options Options) (string, error) {
	filtered := te.filterTrades(trades, options)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no trades match the export criteria")
	}

	outputPath := filepath.Join(options.OutputDir, te.generateFilename(name, options))
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = te.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = te.exportToJSON(name, filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	te.logger.Info("Trades exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// filterTrades applies filters to the trade list
func (te *TradeExporter) filterTrades(trades []curve.Trade, options Options) []curve.Trade {
	var filtered []curve.Trade

	for _, trade := range trades {
		if options.DirectionFilter != "" && trade.Direction != options.DirectionFilter {
			continue
		}
		if options.OnlyAccepted && !trade.Accepted {
			continue
		}
		filtered = append(filtered, trade)
	}

	return filtered
}

// generateFilename creates a filename based on export options
func (te *TradeExporter) generateFilename(name string, options Options) string {
	timestamp := time.Now().Format("20060102_150405")

	prefix := "trades_all"
	if options.DirectionFilter != "" {
		prefix = fmt.Sprintf("trades_%s", options.DirectionFilter)
	}
	if name != "" {
		prefix += "_" + name
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

func csvHeaders() []string {
	return []string{
		"id", "wallet", "direction", "timestamp",
		"input_value", "input_tokens", "tokens_out", "value_out",
		"fee", "creator_fee", "platform_fee",
		"price_before", "price_after", "supply_after", "price_impact_bps",
		"accepted", "reason",
	}
}

func csvRecord(t curve.Trade) []string {
	return []string{
		t.ID,
		t.Wallet,
		string(t.Direction),
		strconv.FormatInt(t.Timestamp, 10),
		strconv.FormatUint(t.InputValue, 10),
		strconv.FormatUint(t.InputTokens, 10),
		strconv.FormatUint(t.TokensOut, 10),
		strconv.FormatUint(t.ValueOut, 10),
		strconv.FormatUint(t.Fee, 10),
		strconv.FormatUint(t.CreatorFee, 10),
		strconv.FormatUint(t.PlatformFee, 10),
		strconv.FormatUint(t.PriceBefore, 10),
		strconv.FormatUint(t.PriceAfter, 10),
		strconv.FormatUint(t.SupplyAfter, 10),
		strconv.FormatUint(t.PriceImpactBps, 10),
		strconv.FormatBool(t.Accepted),
		string(t.Reason),
	}
}

// exportToCSV exports trades to CSV format
func (te *TradeExporter) exportToCSV(trades []curve.Trade, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, trade := range trades {
		if err := writer.Write(csvRecord(trade)); err != nil {
			return fmt.Errorf("failed to write trade: %w", err)
		}
	}

	return nil
}

// Summary aggregates the exported trades.
type Summary struct {
	Accepted    int    `json:"accepted"`
	Rejected    int    `json:"rejected"`
	BuyVolume   uint64 `json:"buy_volume_lamports"`
	SellVolume  uint64 `json:"sell_volume_tokens"`
	FeesCharged uint64 `json:"fees_charged_lamports"`
}

func calculateSummary(trades []curve.Trade) Summary {
	var s Summary
	for _, trade := range trades {
		if !trade.Accepted {
			s.Rejected++
			continue
		}
		s.Accepted++
		s.FeesCharged += trade.Fee
		switch trade.Direction {
		case curve.DirectionBuy:
			s.BuyVolume += trade.InputValue
		case curve.DirectionSell:
			s.SellVolume += trade.InputTokens
		}
	}
	return s
}

// exportToJSON exports trades to JSON format
func (te *TradeExporter) exportToJSON(name string, trades []curve.Trade, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		Scenario   string        `json:"scenario,omitempty"`
		ExportTime time.Time     `json:"export_time"`
		TradeCount int           `json:"trade_count"`
		Trades     []curve.Trade `json:"trades"`
		Summary    Summary       `json:"summary"`
	}{
		Scenario:   name,
		ExportTime: time.Now(),
		TradeCount: len(trades),
		Trades:     trades,
		Summary:    calculateSummary(trades),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
