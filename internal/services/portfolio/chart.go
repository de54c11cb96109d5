package portfolio

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/marketlens/marketlens/internal/models"
)

// RenderAllocationChart renders the sector allocation as a PNG donut chart.
// Slices are ordered largest first so the palette assignment is stable for a
// given portfolio. Returns raw PNG bytes.
func (s *Service) RenderAllocationChart(summary *models.PortfolioSummary) ([]byte, error) {
	if len(summary.SectorAllocation) == 0 {
		return nil, fmt.Errorf("no allocated value to chart")
	}

	type slice struct {
		sector string
		pct    float64
	}
	slices := make([]slice, 0, len(summary.SectorAllocation))
	for sector, pct := range summary.SectorAllocation {
		if pct > 0 {
			slices = append(slices, slice{sector, pct})
		}
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].pct != slices[j].pct {
			return slices[i].pct > slices[j].pct
		}
		return slices[i].sector < slices[j].sector
	})

	values := make([]chart.Value, len(slices))
	for i, sl := range slices {
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", sl.sector, sl.pct),
			Value: sl.pct,
		}
	}

	graph := chart.DonutChart{
		Title:  "Sector Allocation",
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
