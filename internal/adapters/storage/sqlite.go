package storage

// sqlite.go: snapshot importado a SQLite para no depender de los JSON originales.
//
// Estrategia:
//   - Se guarda el snapshot crudo (cotizaciones como texto), nunca estado calculado:
//     merge, ranking y agrupación se recalculan siempre al cargar.
//   - Import reemplaza el contenido completo en una sola transacción.
//   - `position` conserva el orden de entrada; Load lo respeta.
//   - `imports`: una fila por import con conteos, para saber de cuándo es el snapshot.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/alejandrodnm/oddsdesk/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS imports (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    imported_at TEXT    NOT NULL,
    questions   INTEGER NOT NULL DEFAULT 0,
    quotes      INTEGER NOT NULL DEFAULT 0,
    events      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS questions (
    position           INTEGER PRIMARY KEY,
    key                TEXT NOT NULL,
    id                 TEXT,
    slug               TEXT,
    title              TEXT,
    canonical_question TEXT,
    category           TEXT,
    tags               TEXT NOT NULL DEFAULT '[]',
    expires_at         TEXT,
    status             TEXT
);

CREATE TABLE IF NOT EXISTS catalysts (
    question_position INTEGER NOT NULL,
    position          INTEGER NOT NULL,
    date              TEXT    NOT NULL,
    description       TEXT,
    PRIMARY KEY (question_position, position)
);

-- Cotizaciones crudas: el normalizador decide qué es válido
CREATE TABLE IF NOT EXISTS quotes (
    position        INTEGER PRIMARY KEY,
    market_key      TEXT,
    venue           TEXT,
    venue_market_id TEXT,
    yes             TEXT,
    no              TEXT,
    change_24h      TEXT,
    volume          TEXT,
    liquidity       TEXT,
    updated_at      TEXT,
    url             TEXT
);

CREATE TABLE IF NOT EXISTS events (
    position  INTEGER PRIMARY KEY,
    id        TEXT,
    slug      TEXT,
    title     TEXT,
    desk      TEXT,
    impact    TEXT,
    type      TEXT,
    starts_at TEXT    NOT NULL,
    ends_at   TEXT,
    all_day   INTEGER NOT NULL DEFAULT 0,
    status    TEXT
);

CREATE TABLE IF NOT EXISTS event_markets (
    event_position INTEGER NOT NULL,
    position       INTEGER NOT NULL,
    id             TEXT,
    title          TEXT,
    slug           TEXT,
    venues         TEXT,
    yes            INTEGER,
    divergence     INTEGER,
    PRIMARY KEY (event_position, position)
);

CREATE INDEX IF NOT EXISTS idx_quotes_key ON quotes(market_key);
CREATE INDEX IF NOT EXISTS idx_events_at  ON events(starts_at);
`

// SQLiteStore implementa ports.DatasetStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.DatasetStore = (*SQLiteStore)(nil)

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Import reemplaza el dataset guardado por ds.
func (s *SQLiteStore) Import(ctx context.Context, ds domain.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Import: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"event_markets", "events", "quotes", "catalysts", "questions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("storage.Import: clear %s: %w", table, err)
		}
	}

	if err := insertQuestions(ctx, tx, ds.Questions); err != nil {
		return err
	}
	if err := insertQuotes(ctx, tx, ds.Quotes); err != nil {
		return err
	}
	if err := insertEvents(ctx, tx, ds.Events); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (imported_at, questions, quotes, events) VALUES (?, ?, ?, ?)`,
		formatTime(time.Now().UTC()), len(ds.Questions), len(ds.Quotes), len(ds.Events),
	); err != nil {
		return fmt.Errorf("storage.Import: insert import row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.Import: commit: %w", err)
	}
	return nil
}

// Load implementa ports.DatasetSource: devuelve el dataset en el orden en que se importó.
func (s *SQLiteStore) Load(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	var err error

	if ds.Questions, err = s.loadQuestions(ctx); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Quotes, err = s.loadQuotes(ctx); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Events, err = s.loadEvents(ctx); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

// LastImport devuelve el momento del último import; false si nunca se importó nada.
func (s *SQLiteStore) LastImport(ctx context.Context) (time.Time, bool, error) {
	var at sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT imported_at FROM imports ORDER BY id DESC LIMIT 1`,
	).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("storage.LastImport: %w", err)
	}
	return parseTime(at), true, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- escritura ---

func insertQuestions(ctx context.Context, tx *sql.Tx, questions []domain.Question) error {
	qStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions
			(position, key, id, slug, title, canonical_question, category, tags, expires_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.Import: prepare questions: %w", err)
	}
	defer qStmt.Close()

	cStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO catalysts (question_position, position, date, description) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage.Import: prepare catalysts: %w", err)
	}
	defer cStmt.Close()

	for i, q := range questions {
		tags, err := json.Marshal(nonNilTags(q.Tags))
		if err != nil {
			return fmt.Errorf("storage.Import: tags %s: %w", q.Key, err)
		}
		if _, err := qStmt.ExecContext(ctx,
			i, q.Key, q.ID, q.Slug, q.Title, q.CanonicalQuestion, q.Category,
			string(tags), formatTime(q.ExpiresAt), string(q.Status),
		); err != nil {
			return fmt.Errorf("storage.Import: question %s: %w", q.Key, err)
		}
		for j, c := range q.Catalysts {
			if _, err := cStmt.ExecContext(ctx, i, j, formatTime(c.Date), c.Description); err != nil {
				return fmt.Errorf("storage.Import: catalyst %s/%d: %w", q.Key, j, err)
			}
		}
	}
	return nil
}

func insertQuotes(ctx context.Context, tx *sql.Tx, quotes []domain.RawQuote) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quotes
			(position, market_key, venue, venue_market_id, yes, no,
			 change_24h, volume, liquidity, updated_at, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.Import: prepare quotes: %w", err)
	}
	defer stmt.Close()

	for i, q := range quotes {
		if _, err := stmt.ExecContext(ctx,
			i, q.MarketKey, q.Venue, q.VenueMarketID, q.Yes, q.No,
			q.Change24h, q.Volume, q.Liquidity, q.UpdatedAt, q.URL,
		); err != nil {
			return fmt.Errorf("storage.Import: quote %s/%s: %w", q.MarketKey, q.Venue, err)
		}
	}
	return nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, events []domain.CalendarEvent) error {
	eStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events
			(position, id, slug, title, desk, impact, type, starts_at, ends_at, all_day, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.Import: prepare events: %w", err)
	}
	defer eStmt.Close()

	mStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO event_markets
			(event_position, position, id, title, slug, venues, yes, divergence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.Import: prepare event markets: %w", err)
	}
	defer mStmt.Close()

	for i, e := range events {
		allDay := 0
		if e.AllDay {
			allDay = 1
		}
		if _, err := eStmt.ExecContext(ctx,
			i, e.ID, e.Slug, e.Title, e.Desk, string(e.Impact), e.Type,
			formatTime(e.StartsAt), formatTime(e.EndsAt), allDay, e.Status,
		); err != nil {
			return fmt.Errorf("storage.Import: event %s: %w", e.ID, err)
		}
		for j, m := range e.Markets {
			if _, err := mStmt.ExecContext(ctx,
				i, j, m.ID, m.Title, m.Slug, joinVenues(m.Venues),
				nullInt(m.YesProbability), nullInt(m.Divergence),
			); err != nil {
				return fmt.Errorf("storage.Import: event %s market %s: %w", e.ID, m.ID, err)
			}
		}
	}
	return nil
}

// --- lectura ---

func (s *SQLiteStore) loadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, key, id, slug, title, canonical_question, category, tags, expires_at, status
		FROM questions
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.Load: query questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	byPosition := make(map[int]int)
	for rows.Next() {
		var q domain.Question
		var pos int
		var tags, status string
		var expires sql.NullString
		if err := rows.Scan(
			&pos, &q.Key, &q.ID, &q.Slug, &q.Title, &q.CanonicalQuestion,
			&q.Category, &tags, &expires, &status,
		); err != nil {
			return nil, fmt.Errorf("storage.Load: scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &q.Tags); err != nil {
			return nil, fmt.Errorf("storage.Load: tags %s: %w", q.Key, err)
		}
		if len(q.Tags) == 0 {
			q.Tags = nil
		}
		q.ExpiresAt = parseTime(expires)
		q.Status = domain.ParseMarketStatus(status)
		byPosition[pos] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.Load: questions: %w", err)
	}

	cRows, err := s.db.QueryContext(ctx, `
		SELECT question_position, date, description
		FROM catalysts
		ORDER BY question_position, position
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.Load: query catalysts: %w", err)
	}
	defer cRows.Close()

	for cRows.Next() {
		var pos int
		var date sql.NullString
		var c domain.Catalyst
		if err := cRows.Scan(&pos, &date, &c.Description); err != nil {
			return nil, fmt.Errorf("storage.Load: scan catalyst: %w", err)
		}
		idx, ok := byPosition[pos]
		if !ok {
			continue
		}
		c.Date = parseTime(date)
		questions[idx].Catalysts = append(questions[idx].Catalysts, c)
	}
	return questions, cRows.Err()
}

func (s *SQLiteStore) loadQuotes(ctx context.Context) ([]domain.RawQuote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT market_key, venue, venue_market_id, yes, no,
		       change_24h, volume, liquidity, updated_at, url
		FROM quotes
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.Load: query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []domain.RawQuote
	for rows.Next() {
		var q domain.RawQuote
		if err := rows.Scan(
			&q.MarketKey, &q.Venue, &q.VenueMarketID, &q.Yes, &q.No,
			&q.Change24h, &q.Volume, &q.Liquidity, &q.UpdatedAt, &q.URL,
		); err != nil {
			return nil, fmt.Errorf("storage.Load: scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (s *SQLiteStore) loadEvents(ctx context.Context) ([]domain.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, id, slug, title, desk, impact, type, starts_at, ends_at, all_day, status
		FROM events
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.Load: query events: %w", err)
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	byPosition := make(map[int]int)
	for rows.Next() {
		var e domain.CalendarEvent
		var pos, allDay int
		var impact string
		var starts, ends sql.NullString
		if err := rows.Scan(
			&pos, &e.ID, &e.Slug, &e.Title, &e.Desk, &impact, &e.Type,
			&starts, &ends, &allDay, &e.Status,
		); err != nil {
			return nil, fmt.Errorf("storage.Load: scan event: %w", err)
		}
		e.Impact = domain.ParseImpact(impact)
		e.StartsAt = parseTime(starts)
		e.EndsAt = parseTime(ends)
		e.AllDay = allDay == 1
		byPosition[pos] = len(events)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.Load: events: %w", err)
	}

	mRows, err := s.db.QueryContext(ctx, `
		SELECT event_position, id, title, slug, venues, yes, divergence
		FROM event_markets
		ORDER BY event_position, position
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.Load: query event markets: %w", err)
	}
	defer mRows.Close()

	for mRows.Next() {
		var pos int
		var m domain.MarketLink
		var venues string
		var yes, div sql.NullInt64
		if err := mRows.Scan(&pos, &m.ID, &m.Title, &m.Slug, &venues, &yes, &div); err != nil {
			return nil, fmt.Errorf("storage.Load: scan event market: %w", err)
		}
		idx, ok := byPosition[pos]
		if !ok {
			continue
		}
		m.Venues = splitVenues(venues)
		m.YesProbability = intFromNull(yes)
		m.Divergence = intFromNull(div)
		events[idx].Markets = append(events[idx].Markets, m)
	}
	return events, mRows.Err()
}

// --- helpers internos ---

// formatTime guarda el instante con su offset original; zero → NULL.
func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	return domain.IntPtr(int(n.Int64))
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func joinVenues(venues []domain.Venue) string {
	parts := make([]string, len(venues))
	for i, v := range venues {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}

func splitVenues(s string) []domain.Venue {
	var out []domain.Venue
	for _, part := range strings.Split(s, ",") {
		if v, err := domain.ParseVenue(part); err == nil {
			out = append(out, v)
		}
	}
	return out
}
