package models

import "time"

// PricePredictionRequest is the /predict/price payload. Side-channel signal
// blocks are optional; absent values fall back to the neutral defaults the
// feature schema defines.
type PricePredictionRequest struct {
	Symbol           string        `json:"symbol" validate:"required"`
	HistoricalPrices []float64     `json:"historical_prices" validate:"required"`
	CurrentPrice     float64       `json:"current_price" validate:"required,gt=0"`
	Fundamentals     *Fundamentals `json:"fundamentals,omitempty"`
	Sentiment        *Sentiment    `json:"sentiment,omitempty"`
	Delivery         *DeliveryData `json:"delivery,omitempty"`
	Flows            *FlowData     `json:"flows,omitempty"`
}

// Signals groups the optional side-channel inputs.
func (r *PricePredictionRequest) Signals() SignalSet {
	return SignalSet{
		Fundamentals: r.Fundamentals,
		Sentiment:    r.Sentiment,
		Delivery:     r.Delivery,
		Flows:        r.Flows,
	}
}

// IntradayPredictionRequest is the /predict/intraday payload.
type IntradayPredictionRequest struct {
	Symbol          string    `json:"symbol" validate:"required"`
	RecentPrices    []float64 `json:"recent_prices" validate:"required"`
	IntervalSeconds int       `json:"interval_seconds" default:"60" validate:"gte=1"`
}

// Fundamentals holds valuation and profitability ratios. Nil fields mean the
// upstream source had no value.
type Fundamentals struct {
	PERatio      *float64 `json:"pe_ratio"`
	PBRatio      *float64 `json:"pb_ratio"`
	ROE          *float64 `json:"roe"`
	ProfitMargin *float64 `json:"profit_margin"`
}

// Sentiment holds an aggregate news-sentiment score and its magnitude.
type Sentiment struct {
	Score     *float64 `json:"score"`
	Magnitude *float64 `json:"magnitude"`
}

// DeliveryData holds delivery-volume percentages (share of traded volume
// settled by actual delivery).
type DeliveryData struct {
	DeliveryPct    *float64 `json:"delivery_pct"`
	AvgDeliveryPct *float64 `json:"avg_delivery_pct"`
}

// FlowData holds net institutional buy/sell flows.
type FlowData struct {
	FIIFlow *float64 `json:"fii_flow"`
	DIIFlow *float64 `json:"dii_flow"`
}

// SignalSet carries all optional side-channel signals through the pipeline.
type SignalSet struct {
	Fundamentals *Fundamentals
	Sentiment    *Sentiment
	Delivery     *DeliveryData
	Flows        *FlowData
}

// ChartPoint is one element of the chart series. Upper/Lower are only set on
// predicted points.
type ChartPoint struct {
	Day   int      `json:"day"`
	Price float64  `json:"price"`
	Upper *float64 `json:"upper,omitempty"`
	Lower *float64 `json:"lower,omitempty"`
	Type  string   `json:"type"`
}

// HorizonPrediction summarizes the forecast at one horizon.
type HorizonPrediction struct {
	Price      float64    `json:"price"`
	ChangePct  float64    `json:"change_pct"`
	Confidence [2]float64 `json:"confidence"`
}

// TechnicalSignals summarizes the last feature row.
type TechnicalSignals struct {
	RSI        float64 `json:"rsi"`
	RSISignal  string  `json:"rsi_signal"`
	MACDTrend  string  `json:"macd_trend"`
	MACDValue  float64 `json:"macd_value"`
	MACDSignal float64 `json:"macd_signal"`
}

// PredictionResult is the full-horizon ensemble output.
type PredictionResult struct {
	Symbol           string                       `json:"symbol"`
	CurrentPrice     float64                      `json:"current_price"`
	ChartData        []ChartPoint                 `json:"chart_data"`
	Predictions      map[string]HorizonPrediction `json:"predictions"`
	ModelWeights     map[string]float64           `json:"model_weights"`
	ModelPredictions map[string][]float64         `json:"model_predictions"`
	TechnicalSignals TechnicalSignals             `json:"technical_signals"`
	TrainingTimeMs   int64                        `json:"training_time_ms"`
	Cached           bool                         `json:"cached"`
}

// IntradayHorizon is the short-horizon forecast for one label (5min/15min/30min).
type IntradayHorizon struct {
	Price     float64 `json:"price"`
	Upper     float64 `json:"upper"`
	Lower     float64 `json:"lower"`
	Direction string  `json:"direction"`
	ChangePct float64 `json:"change_pct"`
}

// IntradayResult is the intraday estimator output.
type IntradayResult struct {
	Symbol       string                     `json:"symbol"`
	CurrentPrice float64                    `json:"current_price"`
	Predictions  map[string]IntradayHorizon `json:"predictions"`
	Momentum     float64                    `json:"momentum"`
	Volatility   float64                    `json:"volatility"`
	Trend        string                     `json:"trend"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status    string   `json:"status"`
	Models    []string `json:"models"`
	CacheSize int64    `json:"cache_size"`
}

// PredictionEvent is published to the events topic after a fresh
// full-horizon prediction.
type PredictionEvent struct {
	Symbol         string                       `json:"symbol"`
	CurrentPrice   float64                      `json:"current_price"`
	Predictions    map[string]HorizonPrediction `json:"predictions"`
	TrainingTimeMs int64                        `json:"training_time_ms"`
	GeneratedAt    time.Time                    `json:"generated_at"`
}
