package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investorcenter/icscore/internal/contracts"
)

func fp(v float64) *float64 { return &v }

func TestYoYGrowth(t *testing.T) {
	tests := []struct {
		name    string
		current *float64
		prior   *float64
		kind    GrowthKind
		want    float64
		valid   bool
	}{
		{"revenue up", fp(150), fp(100), GrowthRevenue, 50, true},
		{"revenue down", fp(80), fp(100), GrowthRevenue, -20, true},
		{"zero prior", fp(100), fp(0), GrowthRevenue, 0, false},
		{"missing prior", fp(100), nil, GrowthRevenue, 0, false},
		{"eps sign flip loss to profit", fp(2), fp(-1), GrowthEPS, 0, false},
		{"eps sign flip profit to loss", fp(-1), fp(2), GrowthEPS, 0, false},
		{"eps loss narrowing", fp(-1), fp(-2), GrowthEPS, 50, true},
		{"eps loss widening", fp(-3), fp(-2), GrowthEPS, -50, true},
		{"fcf loss narrowing", fp(-5), fp(-10), GrowthFCF, 50, true},
		{"eps both positive", fp(3), fp(2), GrowthEPS, 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YoYGrowth(tt.current, tt.prior, tt.kind)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.InDelta(t, tt.want, got.Value, 1e-9)
			}
		})
	}
}

func TestCAGR(t *testing.T) {
	got := CAGR(fp(100), fp(150), 3)
	require.True(t, got.Valid)
	assert.InDelta(t, 14.4714, got.Value, 1e-3)

	assert.False(t, CAGR(fp(-10), fp(50), 3).Valid)
	assert.False(t, CAGR(fp(100), fp(-50), 3).Valid)
	assert.False(t, CAGR(fp(100), fp(150), 0).Valid)
	assert.False(t, CAGR(nil, fp(150), 3).Valid)
}

func TestConsecutiveGrowthQuarters(t *testing.T) {
	// Eight quarters newest first; the latest three grew vs a year
	// earlier, the fourth did not.
	rev := []float64{130, 125, 120, 100, 110, 105, 100, 105}
	quarters := make([]contracts.FiscalPeriod, len(rev))
	for i := range rev {
		quarters[i] = contracts.FiscalPeriod{
			PeriodEnd: time.Date(2025, time.Month(12-3*i), 30, 0, 0, 0, 0, time.UTC),
			Revenue:   fp(rev[i]),
		}
	}
	assert.Equal(t, 3, ConsecutiveGrowthQuarters(quarters))
	assert.Equal(t, 0, ConsecutiveGrowthQuarters(quarters[:4]))
}

func TestDividendGrowthYears(t *testing.T) {
	annual := []contracts.FiscalPeriod{
		{DividendPerShare: fp(1.30)},
		{DividendPerShare: fp(1.20)},
		{DividendPerShare: fp(1.10)},
		{DividendPerShare: fp(1.15)},
	}
	assert.Equal(t, 2, DividendGrowthYears(annual))
	assert.Equal(t, 0, DividendGrowthYears(nil))
}
