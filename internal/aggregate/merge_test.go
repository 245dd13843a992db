package aggregate_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/aggregate"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)

func question(key string) domain.Question {
	return domain.Question{
		Key:               key,
		Slug:              key,
		Title:             "Title " + key,
		CanonicalQuestion: "Will " + key + " happen?",
		Category:          "economy",
	}
}

func keyed(key string, v domain.Venue, yes *int, volume float64) aggregate.KeyedListing {
	return aggregate.KeyedListing{
		Key: key,
		Listing: domain.Listing{
			Venue:          v,
			YesProbability: yes,
			Volume:         volume,
			Liquidity:      volume / 10,
		},
	}
}

func TestMerge_CrossListedScenario(t *testing.T) {
	markets := aggregate.Merge(
		[]domain.Question{question("fed")},
		[]aggregate.KeyedListing{
			keyed("fed", domain.VenueKalshi, domain.IntPtr(32), 1000),
			keyed("fed", domain.VenuePolymarket, domain.IntPtr(35), 2500),
		},
		now,
	)
	require.Len(t, markets, 1)

	m := markets[0]
	assert.Equal(t, domain.CoverageCrossListed, m.Coverage())
	assert.Equal(t, 2, m.Combined.PlatformCount)
	assert.Equal(t, len(m.Listings), m.Combined.PlatformCount)
	assert.Equal(t, 3500.0, m.Combined.CombinedVolume)
	assert.Equal(t, 350.0, m.Combined.CombinedLiquidity)
	require.NotNil(t, m.Combined.Divergence)
	assert.Equal(t, 3, *m.Combined.Divergence)
}

func TestMerge_SingleVenueScenario(t *testing.T) {
	markets := aggregate.Merge(
		[]domain.Question{question("btc")},
		[]aggregate.KeyedListing{keyed("btc", domain.VenueKalshi, domain.IntPtr(60), 100)},
		now,
	)
	require.Len(t, markets, 1)

	m := markets[0]
	assert.Equal(t, 100.0, m.Combined.CombinedVolume)
	assert.Nil(t, m.Combined.Divergence, "absent, not zero")
	assert.Equal(t, domain.Coverage("kalshi-only"), m.Coverage())
}

func TestMerge_ZeroDivergenceIsDefined(t *testing.T) {
	markets := aggregate.Merge(
		[]domain.Question{question("tie")},
		[]aggregate.KeyedListing{
			keyed("tie", domain.VenuePolymarket, domain.IntPtr(50), 1),
			keyed("tie", domain.VenueKalshi, domain.IntPtr(50), 1),
		},
		now,
	)
	require.Len(t, markets, 1)
	require.NotNil(t, markets[0].Combined.Divergence)
	assert.Equal(t, 0, *markets[0].Combined.Divergence)
}

func TestMerge_SkipsQuestionWithoutListings(t *testing.T) {
	markets := aggregate.Merge(
		[]domain.Question{question("empty"), question("ok")},
		[]aggregate.KeyedListing{keyed("ok", domain.VenuePolymarket, domain.IntPtr(10), 5)},
		now,
	)
	require.Len(t, markets, 1)
	assert.Equal(t, "ok", markets[0].Slug)
}

func TestMerge_DuplicateVenueKeepsFirst(t *testing.T) {
	markets := aggregate.Merge(
		[]domain.Question{question("dup")},
		[]aggregate.KeyedListing{
			keyed("dup", domain.VenueKalshi, domain.IntPtr(30), 10),
			keyed("dup", domain.VenueKalshi, domain.IntPtr(90), 999),
		},
		now,
	)
	require.Len(t, markets, 1)
	assert.Equal(t, 1, markets[0].Combined.PlatformCount)
	assert.Equal(t, 10.0, markets[0].Combined.CombinedVolume)
}

func TestMerge_UnknownKeyDropped(t *testing.T) {
	markets := aggregate.Merge(
		[]domain.Question{question("a")},
		[]aggregate.KeyedListing{
			keyed("a", domain.VenueKalshi, domain.IntPtr(30), 10),
			keyed("ghost", domain.VenueKalshi, domain.IntPtr(30), 10),
		},
		now,
	)
	require.Len(t, markets, 1)
}

func TestMerge_KeepsQuestionOrderAndDefaults(t *testing.T) {
	q := domain.Question{Key: "untitled", CanonicalQuestion: "Will it rain?"}
	markets := aggregate.Merge(
		[]domain.Question{question("z"), q},
		[]aggregate.KeyedListing{
			keyed("untitled", domain.VenueKalshi, nil, 1),
			keyed("z", domain.VenueKalshi, nil, 1),
		},
		now,
	)
	require.Len(t, markets, 2)
	assert.Equal(t, "z", markets[0].Slug)

	m := markets[1]
	assert.Equal(t, aggregate.MarketID("untitled"), m.ID)
	assert.Equal(t, aggregate.MarketID("untitled"), aggregate.MarketID("untitled"), "ids are deterministic")
	assert.Equal(t, "untitled", m.Slug)
	assert.Equal(t, "Will it rain?", m.Title)
	assert.Equal(t, domain.MarketActive, m.Status)
}

func TestMerge_NextCatalystDerived(t *testing.T) {
	q := question("cpi")
	q.Catalysts = []domain.Catalyst{
		{Date: now.Add(-24 * time.Hour), Description: "last print"},
		{Date: now.Add(72 * time.Hour), Description: "next print"},
	}
	markets := aggregate.Merge(
		[]domain.Question{q},
		[]aggregate.KeyedListing{keyed("cpi", domain.VenueKalshi, domain.IntPtr(44), 1)},
		now,
	)
	require.Len(t, markets, 1)
	require.NotNil(t, markets[0].NextCatalyst)
	assert.Equal(t, "next print", markets[0].NextCatalyst.Description)
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	q := question("tags")
	q.Tags = []string{"fed", "rates"}
	markets := aggregate.Merge(
		[]domain.Question{q},
		[]aggregate.KeyedListing{keyed("tags", domain.VenueKalshi, nil, 1)},
		now,
	)
	require.Len(t, markets, 1)
	markets[0].Tags[0] = "changed"
	assert.Equal(t, "fed", q.Tags[0])
}

func TestSummarize(t *testing.T) {
	markets := aggregate.Merge(
		[]domain.Question{question("a"), question("b"), question("c")},
		[]aggregate.KeyedListing{
			keyed("a", domain.VenueKalshi, domain.IntPtr(32), 100),
			keyed("a", domain.VenuePolymarket, domain.IntPtr(35), 200),
			keyed("b", domain.VenueKalshi, domain.IntPtr(70), 50),
			keyed("b", domain.VenuePolymarket, domain.IntPtr(61), 50),
			keyed("c", domain.VenuePolymarket, domain.IntPtr(10), 25),
		},
		now,
	)
	s := aggregate.Summarize(markets)

	assert.Equal(t, 3, s.Markets)
	assert.Equal(t, 2, s.CrossListed())
	assert.Equal(t, 1, s.ByCoverage[domain.VenueOnly(domain.VenuePolymarket)])
	assert.InDelta(t, 2.0/3.0, s.CrossListedShare(), 0.0001)
	assert.Equal(t, 425.0, s.CombinedVolume)
	require.NotNil(t, s.AvgDivergence)
	assert.InDelta(t, 6.0, *s.AvgDivergence, 0.0001)
	require.NotNil(t, s.MaxDivergence)
	assert.Equal(t, 9, *s.MaxDivergence)
}

func TestSummarize_Empty(t *testing.T) {
	s := aggregate.Summarize(nil)
	assert.Equal(t, 0, s.Markets)
	assert.Equal(t, 0.0, s.CrossListedShare())
	assert.Nil(t, s.AvgDivergence)
}
