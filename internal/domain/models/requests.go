package models

// Requests for the stock HTTP endpoints. Defined in domain for consistency and reuse.

type AdviseRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}

type StockDataRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	// Period is not constrained to the known set: unknown values fall
	// back to 1y downstream, matching the chart usecase.
	Period string `query:"period" json:"period" default:"1y"`
}

type TodayInfoRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}

type NewsRequest struct {
	Name string `query:"name" json:"name" validate:"required,min=1,max=64"`
}

type LiveRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
}
