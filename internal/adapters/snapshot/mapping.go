package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
)

// decodeDataset lee un documento JSON y lo convierte a domain.Dataset.
func decodeDataset(r io.Reader) (domain.Dataset, error) {
	var raw datasetFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return domain.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return mapDataset(raw), nil
}

// mapDataset convierte los DTOs a entidades de dominio.
func mapDataset(raw datasetFile) domain.Dataset {
	ds := domain.Dataset{
		Questions: make([]domain.Question, 0, len(raw.Markets)),
		Quotes:    make([]domain.RawQuote, 0, len(raw.Quotes)),
		Events:    make([]domain.CalendarEvent, 0, len(raw.Events)),
	}
	for _, m := range raw.Markets {
		ds.Questions = append(ds.Questions, mapQuestion(m))
	}
	for _, q := range raw.Quotes {
		ds.Quotes = append(ds.Quotes, mapQuote(q))
	}
	for _, e := range raw.Events {
		ev, ok := mapEvent(e)
		if !ok {
			slog.Warn("skipping calendar event without valid start", "event_id", e.ID, "starts_at", e.StartsAt)
			continue
		}
		ds.Events = append(ds.Events, ev)
	}
	return ds
}

// mapQuestion convierte un marketDTO. Si falta key se usa el slug, y si no el id.
func mapQuestion(m marketDTO) domain.Question {
	q := domain.Question{
		Key:               firstNonEmpty(m.Key, m.Slug, m.ID),
		ID:                strings.TrimSpace(m.ID),
		Slug:              strings.TrimSpace(m.Slug),
		Title:             strings.TrimSpace(m.Title),
		CanonicalQuestion: strings.TrimSpace(m.CanonicalQuestion),
		Category:          strings.ToLower(strings.TrimSpace(m.Category)),
		Tags:              m.Tags,
		Status:            domain.ParseMarketStatus(m.Status),
	}
	if t, ok := domain.ParseTimestamp(m.ExpiresAt); ok {
		q.ExpiresAt = t.UTC()
	}
	for _, c := range m.Catalysts {
		date, ok := domain.ParseTimestamp(c.Date)
		if !ok {
			slog.Debug("skipping catalyst with invalid date", "market_key", q.Key, "date", c.Date)
			continue
		}
		q.Catalysts = append(q.Catalysts, domain.Catalyst{Date: date.UTC(), Description: c.Description})
	}
	return q
}

// mapQuote copia el texto crudo; la validación numérica es del normalizador.
func mapQuote(q quoteDTO) domain.RawQuote {
	return domain.RawQuote{
		MarketKey:     q.MarketKey,
		Venue:         q.Venue,
		VenueMarketID: q.VenueMarketID,
		Yes:           string(q.Yes),
		No:            string(q.No),
		Change24h:     string(q.Change24h),
		Volume:        string(q.Volume),
		Liquidity:     string(q.Liquidity),
		UpdatedAt:     q.UpdatedAt,
		URL:           q.URL,
	}
}

// mapEvent convierte un eventDTO. Sin inicio válido el evento no se puede
// agrupar por día y se descarta.
func mapEvent(e eventDTO) (domain.CalendarEvent, bool) {
	start, ok := domain.ParseTimestamp(e.StartsAt)
	if !ok {
		return domain.CalendarEvent{}, false
	}
	ev := domain.CalendarEvent{
		ID:       e.ID,
		Slug:     firstNonEmpty(e.Slug, e.ID),
		Title:    e.Title,
		Desk:     strings.ToLower(strings.TrimSpace(e.Desk)),
		Impact:   domain.ParseImpact(e.Impact),
		Type:     e.Type,
		StartsAt: start,
		AllDay:   e.AllDay,
		Status:   e.Status,
	}
	if end, ok := domain.ParseTimestamp(e.EndsAt); ok {
		ev.EndsAt = end
	}
	for _, l := range e.Markets {
		ev.Markets = append(ev.Markets, mapMarketLink(l))
	}
	return ev, true
}

func mapMarketLink(l marketLinkDTO) domain.MarketLink {
	link := domain.MarketLink{
		ID:             l.ID,
		Title:          l.Title,
		Slug:           l.Slug,
		YesProbability: parsePercent(string(l.Yes)),
		Divergence:     parsePercent(string(l.Divergence)),
	}
	for _, raw := range l.Venues {
		if v, err := domain.ParseVenue(raw); err == nil {
			link.Venues = append(link.Venues, v)
		}
	}
	return link
}

// parsePercent interpreta un snapshot editorial ya expresado en puntos porcentuales.
func parsePercent(raw string) *int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return domain.IntPtr(domain.ClampPercent(domain.RoundHalfUp(f)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
