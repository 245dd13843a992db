package domain

import "time"

// Question es la metadata curada de una pregunta canónica.
// Key es la clave de agrupación con la que upstream etiqueta cada cotización;
// el core no hace matching difuso de texto entre venues.
type Question struct {
	Key               string
	ID                string
	Slug              string
	Title             string
	CanonicalQuestion string
	Category          string
	Tags              []string
	Catalysts         []Catalyst
	ExpiresAt         time.Time
	Status            MarketStatus
}

// RawQuote es la cotización de un venue tal como llega: los campos numéricos
// son texto sin validar y se normalizan en aggregate.NormalizeQuote.
type RawQuote struct {
	MarketKey     string
	Venue         string
	VenueMarketID string
	Yes           string
	No            string
	Change24h     string
	Volume        string
	Liquidity     string
	UpdatedAt     string
	URL           string
}

// Dataset es el snapshot estático que se carga al arrancar.
type Dataset struct {
	Questions []Question
	Quotes    []RawQuote
	Events    []CalendarEvent
}

// Merge concatena dos datasets sin modificar ninguno de los dos.
func (d Dataset) Merge(other Dataset) Dataset {
	return Dataset{
		Questions: append(append([]Question(nil), d.Questions...), other.Questions...),
		Quotes:    append(append([]RawQuote(nil), d.Quotes...), other.Quotes...),
		Events:    append(append([]CalendarEvent(nil), d.Events...), other.Events...),
	}
}

// Empty devuelve true si el dataset no tiene nada.
func (d Dataset) Empty() bool {
	return len(d.Questions) == 0 && len(d.Quotes) == 0 && len(d.Events) == 0
}
