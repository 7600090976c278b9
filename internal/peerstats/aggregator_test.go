package peerstats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investorcenter/icscore/internal/contracts"
)

func buildObservations(t *testing.T) (map[string]contracts.EntityRef, []contracts.MetricObservation) {
	t.Helper()
	refs := make(map[string]contracts.EntityRef)
	var obs []contracts.MetricObservation

	// Eight software names, two chip names, one bank. Software is a
	// big enough industry to score within; chips must widen to the
	// sector; the bank must widen to the market and still fall short.
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("SW%d", i)
		refs[id] = contracts.EntityRef{EntityID: id, Sector: "Technology", Industry: "Software"}
		obs = append(obs, contracts.MetricObservation{
			EntityID: id, Metric: contracts.MetricPE, Value: float64(15 + i*5), Valid: true,
		})
	}
	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("CHIP%d", i)
		refs[id] = contracts.EntityRef{EntityID: id, Sector: "Technology", Industry: "Semiconductors"}
		obs = append(obs, contracts.MetricObservation{
			EntityID: id, Metric: contracts.MetricPE, Value: float64(20 + i*10), Valid: true,
		})
	}
	refs["BANK"] = contracts.EntityRef{EntityID: "BANK", Sector: "Financials", Industry: "Banks"}
	obs = append(obs, contracts.MetricObservation{
		EntityID: "BANK", Metric: contracts.MetricPB, Value: 1.1, Valid: true,
	})
	return refs, obs
}

func TestBuildGroupsAndWideningLadder(t *testing.T) {
	refs, obs := buildObservations(t)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	set := NewAggregator().Build(date, refs, obs)

	// Software resolves at industry scope.
	g, err := set.Resolve(refs["SW0"], contracts.MetricPE)
	require.NoError(t, err)
	assert.Equal(t, contracts.ScopeIndustry, g.Scope)
	assert.Equal(t, 8, g.SampleSize)

	// Semiconductors is too small; chips widen to the sector.
	g, err = set.Resolve(refs["CHIP0"], contracts.MetricPE)
	require.NoError(t, err)
	assert.Equal(t, contracts.ScopeSector, g.Scope)
	assert.Equal(t, 10, g.SampleSize)

	// A single P/B observation cannot be scored at any scope.
	_, err = set.Resolve(refs["BANK"], contracts.MetricPB)
	assert.ErrorIs(t, err, contracts.ErrInsufficientPeers)
}

func TestBuildSkipsInvalidObservations(t *testing.T) {
	refs, obs := buildObservations(t)
	obs = append(obs, contracts.MetricObservation{
		EntityID: "SW0", Metric: contracts.MetricPE, Value: 9999, Valid: false,
	})
	set := NewAggregator().Build(time.Now(), refs, obs)

	g := set.Lookup(contracts.ScopeIndustry, "Software", contracts.MetricPE)
	require.NotNil(t, g)
	assert.Equal(t, 8, g.SampleSize)
	assert.InDelta(t, 50, g.Max, 1e-9)
}

func TestSummarizeStatistics(t *testing.T) {
	g := summarize(time.Now(), contracts.ScopeSector, "Technology", contracts.MetricPE,
		[]float64{30, 10, 20, 40, 50})

	assert.Equal(t, 5, g.SampleSize)
	assert.InDelta(t, 30, g.Mean, 1e-9)
	assert.InDelta(t, 10, g.Min, 1e-9)
	assert.InDelta(t, 50, g.Max, 1e-9)
	assert.InDelta(t, 30, g.Median, 1e-9)
	assert.True(t, g.StdDev > 0)
}

func TestSummarizeClipsOutliers(t *testing.T) {
	// Eleven tight values plus one absurd multiple; clipping applies
	// above ten samples and removes the tail.
	values := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 100000}
	g := summarize(time.Now(), contracts.ScopeSector, "Technology", contracts.MetricPE, values)

	assert.Equal(t, 11, g.SampleSize)
	assert.InDelta(t, 20, g.Max, 1e-9)
}

func TestBuildDeterministicOrder(t *testing.T) {
	refs, obs := buildObservations(t)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	a := NewAggregator().Build(date, refs, obs).All()
	b := NewAggregator().Build(date, refs, obs).All()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i], b[i])
	}
}
