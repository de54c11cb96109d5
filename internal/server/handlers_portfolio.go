package server

import (
	"net/http"
	"strings"

	"github.com/marketlens/marketlens/internal/models"
)

// routePortfolio dispatches /api/portfolio/{userID}[/...] requests.
func (s *Server) routePortfolio(w http.ResponseWriter, r *http.Request) {
	rest := PathParam(r.URL.Path, "/api/portfolio/", "")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	parts := strings.Split(rest, "/")
	userID := parts[0]

	switch {
	case len(parts) == 1:
		s.handlePortfolioGet(w, r, userID)
	case len(parts) == 2 && parts[1] == "summary":
		s.handlePortfolioSummary(w, r, userID)
	case len(parts) == 2 && parts[1] == "chart":
		s.handlePortfolioChart(w, r, userID)
	case len(parts) == 2 && parts[1] == "holdings":
		s.handleHoldingAdd(w, r, userID)
	case len(parts) == 3 && parts[1] == "holdings":
		s.handleHoldingRemove(w, r, userID, parts[2])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handlePortfolioGet handles GET /api/portfolio/{userID}.
func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	doc, err := s.app.UserStore.GetDocument(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

// handlePortfolioSummary handles GET /api/portfolio/{userID}/summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	doc, err := s.app.UserStore.GetDocument(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary, err := s.app.Portfolios.Summarize(r.Context(), doc.Portfolio)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handlePortfolioChart handles GET /api/portfolio/{userID}/chart, returning
// the sector allocation donut as a PNG.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	doc, err := s.app.UserStore.GetDocument(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary, err := s.app.Portfolios.Summarize(r.Context(), doc.Portfolio)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	png, err := s.app.Portfolios.RenderAllocationChart(summary)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleHoldingAdd handles POST /api/portfolio/{userID}/holdings.
func (s *Server) handleHoldingAdd(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var holding models.Holding
	if !DecodeJSON(w, r, &holding) {
		return
	}

	holding.Symbol = strings.ToUpper(strings.TrimSpace(holding.Symbol))
	if holding.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}
	if holding.Shares < 0 || holding.AvgPrice < 0 {
		WriteError(w, http.StatusBadRequest, "Shares and average price must not be negative")
		return
	}

	if err := s.app.UserStore.AddHolding(r.Context(), userID, holding); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, holding)
}

// handleHoldingRemove handles DELETE /api/portfolio/{userID}/holdings/{symbol}.
func (s *Server) handleHoldingRemove(w http.ResponseWriter, r *http.Request, userID, symbol string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	if err := s.app.UserStore.RemoveHolding(r.Context(), userID, symbol); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
