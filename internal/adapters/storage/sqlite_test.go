package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/adapters/storage"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDataset() domain.Dataset {
	est := time.FixedZone("EST", -5*3600)
	return domain.Dataset{
		Questions: []domain.Question{
			{
				Key:               "fed-dec-cut",
				ID:                "mkt-fed",
				Slug:              "fed-cut-december",
				Title:             "Fed cuts in December",
				CanonicalQuestion: "Will the Fed cut rates in December?",
				Category:          "economy",
				Tags:              []string{"fed", "rates"},
				ExpiresAt:         time.Date(2026, 12, 9, 19, 0, 0, 0, time.UTC),
				Status:            domain.MarketActive,
				Catalysts: []domain.Catalyst{
					{Date: time.Date(2026, 11, 6, 13, 30, 0, 0, time.UTC), Description: "Jobs report"},
					{Date: time.Date(2026, 11, 12, 13, 30, 0, 0, time.UTC), Description: "CPI"},
				},
			},
			{
				Key:    "btc-150k",
				Title:  "BTC above 150k",
				Status: domain.MarketResolved,
			},
		},
		Quotes: []domain.RawQuote{
			{MarketKey: "fed-dec-cut", Venue: "kalshi", VenueMarketID: "KXFED", Yes: "32", No: "68", Volume: "1000"},
			{MarketKey: "fed-dec-cut", Venue: "polymarket", VenueMarketID: "0xfed", Yes: "0.355", Liquidity: "bogus"},
			{MarketKey: "btc-150k", Venue: "polymarket", VenueMarketID: "0xbtc", Yes: "true"},
		},
		Events: []domain.CalendarEvent{
			{
				ID:       "jobs-oct",
				Slug:     "jobs-oct",
				Title:    "October jobs report",
				Desk:     "economy",
				Impact:   domain.ImpactHigh,
				StartsAt: time.Date(2026, 11, 6, 8, 30, 0, 0, est),
				EndsAt:   time.Date(2026, 11, 6, 9, 30, 0, 0, est),
				Markets: []domain.MarketLink{
					{
						ID:             "mkt-fed",
						Title:          "Fed cuts in December",
						Venues:         []domain.Venue{domain.VenueKalshi, domain.VenuePolymarket},
						YesProbability: domain.IntPtr(33),
					},
				},
			},
			{
				ID:       "veterans-day",
				Title:    "Veterans Day",
				Desk:     "economy",
				Impact:   domain.ImpactLow,
				StartsAt: time.Date(2026, 11, 11, 0, 0, 0, 0, time.UTC),
				AllDay:   true,
			},
		},
	}
}

func TestSQLiteStore_ImportAndLoad(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	in := makeDataset()
	require.NoError(t, db.Import(ctx, in))

	out, err := db.Load(ctx)
	require.NoError(t, err)

	require.Len(t, out.Questions, 2)
	fed := out.Questions[0]
	assert.Equal(t, "fed-dec-cut", fed.Key)
	assert.Equal(t, "Will the Fed cut rates in December?", fed.CanonicalQuestion)
	assert.Equal(t, []string{"fed", "rates"}, fed.Tags)
	assert.True(t, in.Questions[0].ExpiresAt.Equal(fed.ExpiresAt))
	require.Len(t, fed.Catalysts, 2)
	assert.Equal(t, "Jobs report", fed.Catalysts[0].Description)
	assert.Equal(t, "CPI", fed.Catalysts[1].Description)

	btc := out.Questions[1]
	assert.Nil(t, btc.Tags)
	assert.True(t, btc.ExpiresAt.IsZero())
	assert.Equal(t, domain.MarketResolved, btc.Status)

	// Las cotizaciones se guardan crudas
	assert.Equal(t, in.Quotes, out.Quotes)

	require.Len(t, out.Events, 2)
	jobs := out.Events[0]
	assert.Equal(t, domain.ImpactHigh, jobs.Impact)
	assert.True(t, in.Events[0].StartsAt.Equal(jobs.StartsAt))
	assert.True(t, in.Events[0].EndsAt.Equal(jobs.EndsAt))
	require.Len(t, jobs.Markets, 1)
	assert.Equal(t, []domain.Venue{domain.VenueKalshi, domain.VenuePolymarket}, jobs.Markets[0].Venues)
	require.NotNil(t, jobs.Markets[0].YesProbability)
	assert.Equal(t, 33, *jobs.Markets[0].YesProbability)
	assert.Nil(t, jobs.Markets[0].Divergence)

	vet := out.Events[1]
	assert.True(t, vet.AllDay)
	assert.True(t, vet.EndsAt.IsZero())
	assert.Empty(t, vet.Markets)
}

func TestSQLiteStore_ImportReplaces(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Import(ctx, makeDataset()))

	second := domain.Dataset{
		Quotes: []domain.RawQuote{{MarketKey: "x", Venue: "kalshi", Yes: "50"}},
	}
	require.NoError(t, db.Import(ctx, second))

	out, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, out.Questions)
	assert.Empty(t, out.Events)
	require.Len(t, out.Quotes, 1)
	assert.Equal(t, "x", out.Quotes[0].MarketKey)
}

func TestSQLiteStore_EmptyDatabase(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	out, err := db.Load(ctx)
	require.NoError(t, err)
	assert.True(t, out.Empty())

	_, ok, err := db.LastImport(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_LastImport(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, db.Import(ctx, makeDataset()))

	at, ok, err := db.LastImport(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, at.After(before))
}
