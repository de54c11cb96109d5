package portfolio

import (
	"math"
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestComputeXIRR_DoublingInOneYear(t *testing.T) {
	start := date(2025, 1, 1)
	flows := []cashFlow{
		{date: start, amount: -1000},
		{date: start.Add(time.Duration(365.25 * 24 * float64(time.Hour))), amount: 2000},
	}

	got := computeXIRR(flows)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}
	if math.Abs(*got-100) > 0.01 {
		t.Errorf("expected ~100%%, got %.4f", *got)
	}
}

func TestComputeXIRR_FlatReturn(t *testing.T) {
	flows := []cashFlow{
		{date: date(2025, 1, 1), amount: -1000},
		{date: date(2026, 1, 1), amount: 1000},
	}

	got := computeXIRR(flows)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}
	if math.Abs(*got) > 0.01 {
		t.Errorf("expected ~0%%, got %.4f", *got)
	}
}

func TestComputeXIRR_HalvingIsNegativeFifty(t *testing.T) {
	start := date(2025, 1, 1)
	flows := []cashFlow{
		{date: start, amount: -1000},
		{date: start.Add(time.Duration(365.25 * 24 * float64(time.Hour))), amount: 500},
	}

	got := computeXIRR(flows)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}
	if math.Abs(*got-(-50)) > 0.01 {
		t.Errorf("expected ~-50%%, got %.4f", *got)
	}
}

func TestComputeXIRR_MultipleBuys(t *testing.T) {
	flows := []cashFlow{
		{date: date(2024, 1, 1), amount: -10000},
		{date: date(2024, 7, 1), amount: -5000},
		{date: date(2025, 1, 1), amount: 17000},
	}

	got := computeXIRR(flows)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}
	if math.Abs(*got-16.0) > 0.5 {
		t.Errorf("expected ~16%%, got %.4f", *got)
	}
}

func TestComputeXIRR_UnsortedInputTolerated(t *testing.T) {
	start := date(2025, 1, 1)
	flows := []cashFlow{
		{date: start.Add(time.Duration(365.25 * 24 * float64(time.Hour))), amount: 2000},
		{date: start, amount: -1000},
	}

	got := computeXIRR(flows)
	if got == nil {
		t.Fatal("expected a rate, got nil")
	}
	if math.Abs(*got-100) > 0.01 {
		t.Errorf("expected ~100%%, got %.4f", *got)
	}
}

func TestComputeXIRR_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name  string
		flows []cashFlow
	}{
		{"empty", nil},
		{"single flow", []cashFlow{{date: date(2025, 1, 1), amount: -1000}}},
		{"all negative", []cashFlow{
			{date: date(2025, 1, 1), amount: -1000},
			{date: date(2026, 1, 1), amount: -500},
		}},
		{"all positive", []cashFlow{
			{date: date(2025, 1, 1), amount: 1000},
			{date: date(2026, 1, 1), amount: 500},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeXIRR(tt.flows); got != nil {
				t.Errorf("expected nil, got %.4f", *got)
			}
		})
	}
}
