package snapshot

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/alejandrodnm/oddsdesk/internal/ports"
	"golang.org/x/sync/errgroup"
)

//go:embed sample.json
var sampleJSON []byte

var (
	_ ports.DatasetSource = (*FileSource)(nil)
	_ ports.DatasetSource = (*HTTPSource)(nil)
	_ ports.DatasetSource = SampleSource{}
)

// FileSource carga uno o varios ficheros JSON y los concatena en el orden dado.
// Permite separar, por ejemplo, mercados de calendario en ficheros distintos.
type FileSource struct {
	paths []string
}

// NewFileSource crea un FileSource sobre las rutas dadas.
func NewFileSource(paths ...string) *FileSource {
	return &FileSource{paths: paths}
}

// Load implementa ports.DatasetSource. Los ficheros se leen en paralelo; el
// primer error cancela el resto.
func (s *FileSource) Load(ctx context.Context) (domain.Dataset, error) {
	if len(s.paths) == 0 {
		return domain.Dataset{}, fmt.Errorf("snapshot.FileSource.Load: no paths configured")
	}

	parts := make([]domain.Dataset, len(s.paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range s.paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds, err := readFile(path)
			if err != nil {
				return err
			}
			parts[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Dataset{}, fmt.Errorf("snapshot.FileSource.Load: %w", err)
	}

	var ds domain.Dataset
	for _, p := range parts {
		ds = ds.Merge(p)
	}
	slog.Debug("snapshot files loaded",
		"files", len(s.paths),
		"questions", len(ds.Questions),
		"quotes", len(ds.Quotes),
		"events", len(ds.Events),
	)
	return ds, nil
}

func readFile(path string) (domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %q: %w", path, err)
	}
	ds, err := decodeDataset(bytes.NewReader(data))
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%q: %w", path, err)
	}
	return ds, nil
}

// SampleSource sirve el dataset de ejemplo embebido en el binario.
type SampleSource struct{}

// Sample devuelve la fuente del dataset embebido.
func Sample() SampleSource { return SampleSource{} }

// Load implementa ports.DatasetSource.
func (SampleSource) Load(_ context.Context) (domain.Dataset, error) {
	ds, err := decodeDataset(bytes.NewReader(sampleJSON))
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("snapshot.Sample: %w", err)
	}
	return ds, nil
}
