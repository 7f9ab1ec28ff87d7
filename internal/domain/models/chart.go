package models

// ChartPoint is one {date, close} pair for charting.
type ChartPoint struct {
	Date  string  `json:"Date"`
	Close float64 `json:"Close"`
}

// CloseRange is the min/max close over a chart window. Pointers so the
// response degrades to nulls when the window is short.
type CloseRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ChartSeries is the charting payload for a trailing period.
type ChartSeries struct {
	StockData     []ChartPoint `json:"stock_data"`
	PercentChange *float64     `json:"percent_change"`
	CloseRange    CloseRange   `json:"closing_cost_range"`
}

// Article is one news item, reduced to what the frontend shows.
type Article struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}
