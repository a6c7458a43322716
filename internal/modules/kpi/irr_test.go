package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalRateOfReturn_OneYearRoundTrip(t *testing.T) {
	// Buy 100, sell 110 one year later: the rate is ten percent.
	flows := []CashFlow{
		{Date: "2021-01-01", Amount: -100},
		{Date: "2022-01-01", Amount: 110},
	}

	got := InternalRateOfReturn(flows)
	assert.InDelta(t, 10.0, got, 0.05)
}

func TestInternalRateOfReturn_MultiFlow(t *testing.T) {
	// Two buys of 100 a year apart, then 231 back another year later:
	// -100 - 100/1.1 + 231/1.21 = 0, so the rate is ten percent.
	flows := []CashFlow{
		{Date: "2020-01-01", Amount: -100},
		{Date: "2021-01-01", Amount: -100},
		{Date: "2022-01-01", Amount: 231},
	}

	got := InternalRateOfReturn(flows)
	assert.InDelta(t, 10.0, got, 0.2)
}

func TestInternalRateOfReturn_HighReturn(t *testing.T) {
	// Doubling in half a year annualizes to roughly 300 percent.
	flows := []CashFlow{
		{Date: "2020-01-01", Amount: -100},
		{Date: "2020-07-01", Amount: 200},
	}

	got := InternalRateOfReturn(flows)
	assert.InDelta(t, 302.0, got, 5.0)
}

func TestInternalRateOfReturn_FlowOrderIrrelevant(t *testing.T) {
	a := InternalRateOfReturn([]CashFlow{
		{Date: "2021-01-01", Amount: -100},
		{Date: "2022-01-01", Amount: 110},
	})
	b := InternalRateOfReturn([]CashFlow{
		{Date: "2022-01-01", Amount: 110},
		{Date: "2021-01-01", Amount: -100},
	})
	assert.Equal(t, a, b)
}

func TestInternalRateOfReturn_DegenerateSchedules(t *testing.T) {
	tests := []struct {
		name  string
		flows []CashFlow
	}{
		{"nil", nil},
		{"single flow", []CashFlow{{Date: "2021-01-01", Amount: -100}}},
		{"only outflows", []CashFlow{
			{Date: "2021-01-01", Amount: -100},
			{Date: "2022-01-01", Amount: -50},
		}},
		{"only inflows", []CashFlow{
			{Date: "2021-01-01", Amount: 100},
			{Date: "2022-01-01", Amount: 50},
		}},
		{"zero amounts", []CashFlow{
			{Date: "2021-01-01", Amount: 0},
			{Date: "2022-01-01", Amount: 0},
		}},
		{"unparseable date", []CashFlow{
			{Date: "not-a-date", Amount: -100},
			{Date: "2022-01-01", Amount: 110},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.0, InternalRateOfReturn(tt.flows))
		})
	}
}

func TestInternalRateOfReturn_DivergenceGuard(t *testing.T) {
	// A hundredfold gain in a month implies a rate far beyond the plausible
	// range; the solver must bail out instead of reporting a wild number.
	flows := []CashFlow{
		{Date: "2020-01-01", Amount: -100},
		{Date: "2020-02-01", Amount: 10000},
	}
	assert.Equal(t, 0.0, InternalRateOfReturn(flows))
}
