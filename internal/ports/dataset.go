package ports

import (
	"context"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
)

// DatasetSource carga el snapshot estático de preguntas, cotizaciones y eventos.
type DatasetSource interface {
	// Load devuelve el dataset completo. Se llama una vez al arrancar.
	Load(ctx context.Context) (domain.Dataset, error)
}

// DatasetStore guarda un snapshot para poder servirlo después como DatasetSource.
type DatasetStore interface {
	DatasetSource

	// Import reemplaza el contenido del store por el dataset dado.
	Import(ctx context.Context, ds domain.Dataset) error

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
