package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/lukman83/catalog-scrap/internal/models"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned by readers that hold no catalog yet.
var ErrNotFound = errors.New("no stored catalog")

// Sink persists the products of one run.
type Sink interface {
	Name() string
	Write(ctx context.Context, runID string, products []models.Product) error
}

// Reader returns the products of the most recent run.
type Reader interface {
	Read(ctx context.Context) ([]models.Product, error)
}

// Fanout writes to every sink concurrently. A failing sink never stops the
// others; all failures are joined into the returned error.
type Fanout struct {
	Sinks []Sink
	// OnFailure, when set, is called once per failed sink, possibly from
	// several goroutines at once.
	OnFailure func(sink string, err error)
}

func (f *Fanout) Name() string { return "fanout" }

func (f *Fanout) Write(ctx context.Context, runID string, products []models.Product) error {
	errs := make([]error, len(f.Sinks))

	var g errgroup.Group
	for i, s := range f.Sinks {
		g.Go(func() error {
			if err := s.Write(ctx, runID, products); err != nil {
				errs[i] = fmt.Errorf("sink %s: %w", s.Name(), err)
				if f.OnFailure != nil {
					f.OnFailure(s.Name(), err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
