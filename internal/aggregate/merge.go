package aggregate

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/calendar"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/google/uuid"
)

// marketNamespace genera IDs estables para preguntas curadas sin ID propio.
var marketNamespace = uuid.MustParse("6f1c0a52-3b7e-4d0a-9a57-2f7b8e4c1d90")

// MarketID devuelve el ID determinista (UUID v5) de una clave de agrupación.
func MarketID(key string) string {
	return uuid.NewSHA1(marketNamespace, []byte(key)).String()
}

// Merge agrupa los listings por clave de pregunta y devuelve un MergedMarket
// por pregunta, en el orden de questions. now se usa para derivar NextCatalyst.
//
// Defectos de datos (se registran y se saltan, nunca paniquean):
//   - pregunta sin listings → no produce mercado
//   - segundo listing del mismo venue para una clave → gana el primero
//   - listing con clave desconocida → se descarta
func Merge(questions []domain.Question, listings []KeyedListing, now time.Time) []domain.MergedMarket {
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.Key] = true
	}

	byKey := make(map[string][]domain.Listing, len(questions))
	for _, kl := range listings {
		if !known[kl.Key] {
			slog.Warn("listing for unknown market key, skipping",
				"market_key", kl.Key,
				"venue", kl.Listing.Venue,
			)
			continue
		}
		if hasVenue(byKey[kl.Key], kl.Listing.Venue) {
			slog.Warn("duplicate venue listing, keeping first",
				"market_key", kl.Key,
				"venue", kl.Listing.Venue,
			)
			continue
		}
		byKey[kl.Key] = append(byKey[kl.Key], kl.Listing)
	}

	seen := make(map[string]bool, len(questions))
	markets := make([]domain.MergedMarket, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Key) == "" {
			slog.Warn("question without key, skipping", "title", q.Title)
			continue
		}
		if seen[q.Key] {
			slog.Warn("duplicate question key, keeping first", "market_key", q.Key)
			continue
		}
		seen[q.Key] = true

		ls := byKey[q.Key]
		if len(ls) == 0 {
			slog.Warn("market has no listings, skipping", "market_key", q.Key)
			continue
		}
		markets = append(markets, build(q, ls, now))
	}

	slog.Debug("merge complete",
		"questions", len(questions),
		"listings", len(listings),
		"markets", len(markets),
	)
	return markets
}

// build arma el MergedMarket copiando los slices de entrada.
func build(q domain.Question, listings []domain.Listing, now time.Time) domain.MergedMarket {
	m := domain.MergedMarket{
		ID:                q.ID,
		Slug:              q.Slug,
		Title:             q.Title,
		CanonicalQuestion: q.CanonicalQuestion,
		Category:          q.Category,
		Tags:              slices.Clone(q.Tags),
		Listings:          slices.Clone(listings),
		Catalysts:         slices.Clone(q.Catalysts),
		ExpiresAt:         q.ExpiresAt,
		Status:            q.Status,
	}
	if m.ID == "" {
		m.ID = MarketID(q.Key)
	}
	if m.Slug == "" {
		m.Slug = q.Key
	}
	if m.Title == "" {
		m.Title = m.CanonicalQuestion
	}
	if m.CanonicalQuestion == "" {
		m.CanonicalQuestion = m.Title
	}
	if m.Status == "" {
		m.Status = domain.MarketActive
	}

	m.Combined = domain.Combine(m.Listings)
	m.NextCatalyst = calendar.NextCatalyst(m.Catalysts, now)
	return m
}

func hasVenue(listings []domain.Listing, v domain.Venue) bool {
	for _, l := range listings {
		if l.Venue == v {
			return true
		}
	}
	return false
}
