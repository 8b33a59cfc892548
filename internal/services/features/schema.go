package features

import "fmt"

// SchemaVersion identifies the feature-column contract. Bump it whenever a
// column is added, removed or reordered; trained models remember the version
// they were fitted against and refuse vectors from another one.
const SchemaVersion = 1

// Technical indicator column names.
const (
	ColReturn1d      = "return_1d"
	ColReturn5d      = "return_5d"
	ColReturn10d     = "return_10d"
	ColReturn20d     = "return_20d"
	ColPriceToSMA5   = "price_to_sma5"
	ColPriceToSMA20  = "price_to_sma20"
	ColPriceToSMA50  = "price_to_sma50"
	ColVolatility10d = "volatility_10d"
	ColVolatility20d = "volatility_20d"
	ColRSI14         = "rsi_14"
	ColMACD          = "macd"
	ColMACDSignal    = "macd_signal"
	ColMACDHist      = "macd_histogram"
	ColBBPosition    = "bb_position"
	ColATR14         = "atr_14"
	ColMomentum5     = "momentum_5"
	ColMomentum10    = "momentum_10"
	ColMomentum20    = "momentum_20"
	ColROC5          = "roc_5"
	ColROC10         = "roc_10"
)

// Side-channel column names (broadcast as constants across all rows).
const (
	ColPERatio       = "pe_ratio"
	ColPBRatio       = "pb_ratio"
	ColROE           = "roe"
	ColProfitMargin  = "profit_margin"
	ColSentScore     = "sentiment_score"
	ColSentMagnitude = "sentiment_magnitude"
	ColDeliveryPct   = "delivery_pct"
	ColDeliveryAvg   = "avg_delivery_pct"
	ColFIIFlow       = "fii_flow"
	ColDIIFlow       = "dii_flow"
)

// Column describes one feature column. Default is the neutral constant used
// when the column's side-channel signal is absent.
type Column struct {
	Name    string
	Default float64
}

// Schema is the ordered feature-column contract shared by the extractor and
// every model that consumes feature vectors.
type Schema struct {
	version int
	columns []Column
	index   map[string]int
}

// NewSchema returns the canonical feature schema.
func NewSchema() *Schema {
	cols := []Column{
		{Name: ColReturn1d},
		{Name: ColReturn5d},
		{Name: ColReturn10d},
		{Name: ColReturn20d},
		{Name: ColPriceToSMA5},
		{Name: ColPriceToSMA20},
		{Name: ColPriceToSMA50},
		{Name: ColVolatility10d},
		{Name: ColVolatility20d},
		{Name: ColRSI14},
		{Name: ColMACD},
		{Name: ColMACDSignal},
		{Name: ColMACDHist},
		{Name: ColBBPosition},
		{Name: ColATR14},
		{Name: ColMomentum5},
		{Name: ColMomentum10},
		{Name: ColMomentum20},
		{Name: ColROC5},
		{Name: ColROC10},
		{Name: ColPERatio, Default: 0.0},
		{Name: ColPBRatio, Default: 0.0},
		{Name: ColROE, Default: 0.0},
		{Name: ColProfitMargin, Default: 0.0},
		{Name: ColSentScore, Default: 0.0},
		{Name: ColSentMagnitude, Default: 0.5},
		{Name: ColDeliveryPct, Default: 50.0},
		{Name: ColDeliveryAvg, Default: 50.0},
		{Name: ColFIIFlow, Default: 0.0},
		{Name: ColDIIFlow, Default: 0.0},
	}

	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c.Name] = i
	}
	return &Schema{version: SchemaVersion, columns: cols, index: idx}
}

// Version returns the schema version.
func (s *Schema) Version() int { return s.version }

// Width returns the number of feature columns.
func (s *Schema) Width() int { return len(s.columns) }

// Columns returns the ordered column list.
func (s *Schema) Columns() []Column { return s.columns }

// Index returns the position of a column by name.
func (s *Schema) Index(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("features: unknown column %q", name)
	}
	return i, nil
}

// CheckWidth verifies a feature vector matches the schema width.
func (s *Schema) CheckWidth(n int) error {
	if n != len(s.columns) {
		return fmt.Errorf("features: vector width %d does not match schema v%d width %d", n, s.version, len(s.columns))
	}
	return nil
}
