package snapshot_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/adapters/snapshot"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	marketsFixture  = "../../../testdata/fixtures/snapshot_markets.json"
	calendarFixture = "../../../testdata/fixtures/snapshot_calendar.json"
	brokenFixture   = "../../../testdata/fixtures/snapshot_broken.json"
)

func TestFileSource_SingleFile(t *testing.T) {
	ds, err := snapshot.NewFileSource(marketsFixture).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Questions, 2)
	require.Len(t, ds.Quotes, 3)
	assert.Empty(t, ds.Events)

	fed := ds.Questions[0]
	assert.Equal(t, "fed-dec-cut", fed.Key)
	assert.Equal(t, "mkt-fed", fed.ID)
	assert.Equal(t, "economy", fed.Category)
	require.Len(t, fed.Catalysts, 1)

	// Sin key se usa el slug
	assert.Equal(t, "btc-150k", ds.Questions[1].Key)
	assert.Equal(t, domain.MarketResolved, ds.Questions[1].Status)

	pm := ds.Quotes[1]
	assert.Equal(t, "polymarket", pm.Venue)
	assert.Equal(t, "0.355", pm.Yes)
	assert.Equal(t, "", pm.No)
	assert.Equal(t, "$2,500", pm.Volume)
	assert.Equal(t, "bogus", pm.Liquidity)

	kalshi := ds.Quotes[0]
	assert.Equal(t, "32", kalshi.Yes)
	assert.Equal(t, "-3", kalshi.Change24h)
}

func TestFileSource_MultipleFilesKeepOrder(t *testing.T) {
	ds, err := snapshot.NewFileSource(marketsFixture, calendarFixture).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, ds.Questions, 2)
	assert.Len(t, ds.Quotes, 3)
	// El evento con starts_at "TBD" se descarta
	require.Len(t, ds.Events, 2)
	assert.Equal(t, "jobs-oct", ds.Events[0].ID)
	assert.Equal(t, "veterans-day", ds.Events[1].ID)

	jobs := ds.Events[0]
	assert.Equal(t, domain.ImpactHigh, jobs.Impact)
	assert.Equal(t, time.Date(2026, 11, 6, 13, 30, 0, 0, time.UTC), jobs.StartsAt.UTC())
	assert.Equal(t, time.Date(2026, 11, 6, 14, 30, 0, 0, time.UTC), jobs.EndsAt.UTC())
	require.Len(t, jobs.Markets, 1)
	assert.Equal(t, []domain.Venue{domain.VenueKalshi, domain.VenuePolymarket}, jobs.Markets[0].Venues)

	vet := ds.Events[1]
	assert.True(t, vet.AllDay)
	assert.Equal(t, domain.Impact(""), vet.Impact)
}

func TestFileSource_Errors(t *testing.T) {
	_, err := snapshot.NewFileSource().Load(context.Background())
	assert.Error(t, err)

	_, err = snapshot.NewFileSource(marketsFixture, "does-not-exist.json").Load(context.Background())
	assert.Error(t, err)

	_, err = snapshot.NewFileSource(brokenFixture).Load(context.Background())
	assert.Error(t, err)
}

func TestSample_Loads(t *testing.T) {
	ds, err := snapshot.Sample().Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, ds.Questions, 10)
	assert.NotEmpty(t, ds.Quotes)
	// Uno de los eventos del sample no tiene fecha válida
	assert.Len(t, ds.Events, 9)

	for _, q := range ds.Quotes {
		_, err := domain.ParseVenue(q.Venue)
		assert.NoError(t, err, "quote %s", q.VenueMarketID)
	}
}

func TestHTTPSource_Success(t *testing.T) {
	data, err := os.ReadFile(marketsFixture)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	ds, err := snapshot.NewHTTPSource(srv.URL, time.Second, 100).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Questions, 2)
	assert.Len(t, ds.Quotes, 3)
}

func TestHTTPSource_RetriesServerError(t *testing.T) {
	data, err := os.ReadFile(calendarFixture)
	require.NoError(t, err)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	ds, err := snapshot.NewHTTPSource(srv.URL, time.Second, 100).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, ds.Events, 2)
}

func TestHTTPSource_ClientErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := snapshot.NewHTTPSource(srv.URL, time.Second, 100).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPSource_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := snapshot.NewHTTPSource(srv.URL, time.Second, 100).Load(ctx)
	assert.Error(t, err)
}
