package server

import (
	"net/http"
	"time"

	"github.com/marketlens/marketlens/internal/fetch"
	"github.com/marketlens/marketlens/internal/services/stock"
)

// writeMarketError maps the fetch/assembly error taxonomy onto HTTP status
// codes. Every branch carries the {error, message} envelope; anything
// unrecognized is a plain 500.
func writeMarketError(w http.ResponseWriter, err error) {
	switch {
	case stock.IsInvalidSymbol(err):
		WriteErrorMessage(w, http.StatusNotFound, "invalid symbol", err.Error())
	case fetch.IsRateLimited(err):
		WriteErrorMessage(w, http.StatusTooManyRequests, "rate limited", "Rate limit exceeded, try again shortly")
	default:
		WriteErrorMessage(w, http.StatusInternalServerError, "market data request failed", err.Error())
	}
}

// handleSearch handles GET /api/search/{query}. Thin proxy over the
// provider's symbol lookup.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := PathParam(r.URL.Path, "/api/search/", "")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	results, err := s.app.Market.Search(r.Context(), query)
	if err != nil {
		writeMarketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":     query,
		"results":   results,
		"timestamp": time.Now().UTC(),
	})
}

// handleQuote handles GET /api/quote/{symbol}. Thin proxy over the
// provider's quote endpoint.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r.URL.Path, "/api/quote/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote, err := s.app.Market.GetQuote(r.Context(), symbol)
	if err != nil {
		writeMarketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    quote.Symbol,
		"quote":     quote,
		"timestamp": time.Now().UTC(),
	})
}

// handleStockDetail handles GET /api/stocks/{symbol}: full assembly plus
// risk and recommendation scoring.
func (s *Server) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r.URL.Path, "/api/stocks/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	detail, err := s.app.Stocks.Assemble(r.Context(), symbol)
	if err != nil {
		writeMarketError(w, err)
		return
	}

	// A slow assembly can be overtaken by a fresher request for the same
	// symbol; the stale result is discarded rather than served.
	if detail.Generation < s.app.Stocks.LatestGeneration(detail.Symbol) {
		WriteError(w, http.StatusConflict, "Result superseded by a newer request")
		return
	}

	detail.Risk, detail.Recommendation = s.app.Signals.Score(detail)

	WriteJSON(w, http.StatusOK, detail)
}
