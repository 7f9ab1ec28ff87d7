package models

import "time"

// PriceBar is one daily OHLCV bar as delivered by a market-data provider.
// Bars are ordered by date ascending with unique dates.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// CleanedBar is a bar reduced to what the prediction pipeline needs.
// TomorrowClose is the next bar's close; for the most recent bar it is
// unknown and HasTarget is false. Such rows never enter training or testing.
type CleanedBar struct {
	Date          time.Time
	Close         float64
	TomorrowClose float64
	Target        int // 1 iff TomorrowClose > Close
	HasTarget     bool
}

// Quote is the latest-day snapshot for a symbol.
type Quote struct {
	Symbol    string  `json:"symbol"`
	High      float64 `json:"High"`
	Low       float64 `json:"Low"`
	Close     float64 `json:"Close"`
	ForwardPE float64 `json:"Forward PE"`
	MarketCap string  `json:"Market Cap"`
}
