package models

// Requests for the read API. Defined in domain for consistency and reuse.

type HistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=50"`
}
