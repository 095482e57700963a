package assignment

import (
	"context"
	"sort"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/assignment"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
)

var _ assignment.Catalog = (*repoCatalog)(nil)

// repoCatalog consulta el repositorio en cada llamada. Lo usan las mutaciones individuales;
// el job por lotes usa assignment.StaticCatalog. Con noFallback nunca ofrece cargo por defecto.
type repoCatalog struct {
	positions     repository.PositionRepository
	fallbackTitle string
	noFallback    bool
}

func (c *repoCatalog) PositionExists(ctx context.Context, id string) (bool, error) {
	p, err := c.positions.GetByID(ctx, id)
	if err != nil {
		return false, domain.WrapRepository("get position", err)
	}
	return p != nil && p.Active, nil
}

func (c *repoCatalog) FallbackPosition(ctx context.Context) (string, bool, error) {
	if c.noFallback {
		return "", false, nil
	}
	if c.fallbackTitle != "" {
		p, err := c.positions.FindByTitle(ctx, c.fallbackTitle)
		if err != nil {
			return "", false, domain.WrapRepository("find position", err)
		}
		if p != nil && p.Active {
			return p.ID, true, nil
		}
	}
	list, err := c.positions.ListActive(ctx)
	if err != nil {
		return "", false, domain.WrapRepository("list positions", err)
	}
	if len(list) == 0 {
		return "", false, nil
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list[0].ID, true, nil
}
