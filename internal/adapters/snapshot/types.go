package snapshot

import (
	"encoding/json"
	"strings"
)

// DTOs raw del formato JSON del snapshot. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// datasetFile es el documento completo: preguntas curadas, cotizaciones por venue y calendario.
type datasetFile struct {
	Markets []marketDTO `json:"markets"`
	Quotes  []quoteDTO  `json:"quotes"`
	Events  []eventDTO  `json:"events"`
}

// marketDTO es la metadata curada de una pregunta canónica.
type marketDTO struct {
	Key               string        `json:"key"`
	ID                string        `json:"id"`
	Slug              string        `json:"slug"`
	Title             string        `json:"title"`
	CanonicalQuestion string        `json:"canonical_question"`
	Category          string        `json:"category"`
	Tags              []string      `json:"tags"`
	Status            string        `json:"status"`
	ExpiresAt         string        `json:"expires_at"`
	Catalysts         []catalystDTO `json:"catalysts"`
}

type catalystDTO struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// quoteDTO es la cotización de un venue. Los venues mezclan números JSON y
// strings, así que los campos numéricos usan rawNumber.
type quoteDTO struct {
	MarketKey     string    `json:"market_key"`
	Venue         string    `json:"venue"`
	VenueMarketID string    `json:"venue_market_id"`
	Yes           rawNumber `json:"yes"`
	No            rawNumber `json:"no"`
	Change24h     rawNumber `json:"change_24h"`
	Volume        rawNumber `json:"volume"`
	Liquidity     rawNumber `json:"liquidity"`
	UpdatedAt     string    `json:"updated_at"`
	URL           string    `json:"url"`
}

// eventDTO es un evento del calendario editorial.
type eventDTO struct {
	ID       string          `json:"id"`
	Slug     string          `json:"slug"`
	Title    string          `json:"title"`
	Desk     string          `json:"desk"`
	Impact   string          `json:"impact"`
	Type     string          `json:"type"`
	StartsAt string          `json:"starts_at"`
	EndsAt   string          `json:"ends_at"`
	AllDay   bool            `json:"all_day"`
	Status   string          `json:"status"`
	Markets  []marketLinkDTO `json:"markets"`
}

type marketLinkDTO struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Venues     []string  `json:"venues"`
	Yes        rawNumber `json:"yes"`
	Divergence rawNumber `json:"divergence"`
}

// rawNumber guarda el texto de un campo numérico sin validarlo.
// Acepta número, string o null; cualquier otra cosa se guarda tal cual y el
// normalizador la tratará como ausente. Nunca falla el decode del documento.
type rawNumber string

var _ json.Unmarshaler = (*rawNumber)(nil)

func (n *rawNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*n = ""
			return nil
		}
		*n = rawNumber(str)
		return nil
	}
	// Else we keep the raw literal.
	*n = rawNumber(s)
	return nil
}
