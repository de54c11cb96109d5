// Package models defines data structures for MarketLens
package models

import (
	"time"
)

// Holding represents a user-entered portfolio position. Shares == 0 denotes
// a watchlist entry tracked for visibility only — excluded from valuation
// and XIRR arithmetic.
type Holding struct {
	Symbol       string    `json:"symbol"`
	Shares       float64   `json:"shares"`
	AvgPrice     float64   `json:"avg_price"`
	PurchaseDate time.Time `json:"purchase_date"`
	AddedAt      time.Time `json:"added_at"`
}

// IsWatchlist reports whether this entry carries no position.
func (h Holding) IsWatchlist() bool {
	return h.Shares == 0
}

// EnrichedHolding is a holding joined with live market data.
type EnrichedHolding struct {
	Holding
	Name         string  `json:"name"`
	Sector       string  `json:"sector"`   // canonical
	Industry     string  `json:"industry"` // canonical
	CurrentPrice float64 `json:"current_price"`
	Value        float64 `json:"value"`
	Cost         float64 `json:"cost"`
	Gain         float64 `json:"gain"`
	GainPct      float64 `json:"gain_pct"`
	Degraded     bool    `json:"degraded"` // quote fetch failed; current price fell back to avg price
}

// PortfolioSummary is the aggregated valuation of a portfolio.
type PortfolioSummary struct {
	TotalValue    float64  `json:"total_value"`
	TotalCost     float64  `json:"total_cost"`
	TotalGain     float64  `json:"total_gain"`
	TotalGainPct  float64  `json:"total_gain_pct"`
	XIRR          *float64 `json:"xirr"` // annualized %, nil when not computable

	SectorAllocation   map[string]float64 `json:"sector_allocation"`   // percent by canonical sector, sums to 100
	IndustryAllocation map[string]float64 `json:"industry_allocation"` // percent by canonical industry, sums to 100

	Holdings  []EnrichedHolding `json:"holdings"`
	Watchlist []EnrichedHolding `json:"watchlist,omitempty"`

	AsOf time.Time `json:"as_of"`
}

// Note is a free-text user note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserDocument is the opaque per-user record: portfolio entries plus notes.
// Reads are point-in-time snapshots; writes replace the full arrays.
type UserDocument struct {
	UserID    string    `json:"user_id" badgerhold:"key"`
	Portfolio []Holding `json:"portfolio"`
	Notes     []Note    `json:"notes"`
	UpdatedAt time.Time `json:"updated_at"`
}
