package assignment

import (
	"context"
	"sort"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/naturalkey"
)

// StaticCatalog catálogo en memoria construido a partir de una lectura de cargos activos.
// Lo usa el job de reparación para no consultar el repositorio por cada referencia.
type StaticCatalog struct {
	active   map[string]bool
	fallback string
}

// NewStaticCatalog construye el catálogo. El cargo por defecto es el de título fallbackTitle
// si existe y está activo; si no, el cargo activo más antiguo.
func NewStaticCatalog(positions []*entity.Position, fallbackTitle string) *StaticCatalog {
	c := &StaticCatalog{active: make(map[string]bool, len(positions))}
	var candidates []*entity.Position
	for _, p := range positions {
		if p == nil || !p.Active {
			continue
		}
		c.active[p.ID] = true
		candidates = append(candidates, p)
		if fallbackTitle != "" && c.fallback == "" && naturalkey.Equal(p.Title, fallbackTitle) {
			c.fallback = p.ID
		}
	}
	if c.fallback == "" && len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		})
		c.fallback = candidates[0].ID
	}
	return c
}

// WithoutFallback copia del catálogo sin cargo por defecto. Las lecturas la usan para no
// atribuir cargos que el empleado no tiene almacenados.
func (c *StaticCatalog) WithoutFallback() *StaticCatalog {
	return &StaticCatalog{active: c.active}
}

// PositionExists implementa Catalog.
func (c *StaticCatalog) PositionExists(_ context.Context, id string) (bool, error) {
	return c.active[id], nil
}

// FallbackPosition implementa Catalog.
func (c *StaticCatalog) FallbackPosition(_ context.Context) (string, bool, error) {
	return c.fallback, c.fallback != "", nil
}
