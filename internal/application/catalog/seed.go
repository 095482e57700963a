package catalog

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain"
)

// ParseSeed decodifica un catálogo YAML. Las claves desconocidas son un error.
func ParseSeed(r io.Reader) (*dto.SeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file dto.SeedFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return &file, nil
		}
		return nil, fmt.Errorf("catálogo yaml: %w", err)
	}
	return &file, nil
}

// Seed aplica el catálogo de forma idempotente: lo existente se reutiliza por clave natural.
// Los errores por registro se acumulan; un fallo de almacenamiento detiene la carga.
func (s *Service) Seed(ctx context.Context, file *dto.SeedFile) (*dto.SeedResult, error) {
	res := &dto.SeedResult{Errors: []dto.RecordError{}}

	for _, ct := range file.CertificateTypes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		_, created, err := s.EnsureCertificateType(ctx, ct.Name, ct.ValidityMonths)
		if err != nil {
			if domain.IsRepositoryError(err) {
				return res, err
			}
			res.Errors = append(res.Errors, dto.RecordError{ID: ct.Name, Reason: err.Error()})
			continue
		}
		if created {
			res.NewCertTypes++
		}
	}

	for _, sp := range file.Positions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if created, err := s.seedPosition(ctx, sp, res); err != nil {
			if domain.IsRepositoryError(err) {
				return res, err
			}
			res.Errors = append(res.Errors, dto.RecordError{ID: sp.Title, Reason: err.Error()})
		} else if created {
			res.NewPositions++
		}
	}
	return res, nil
}

func (s *Service) seedPosition(ctx context.Context, sp dto.SeedPosition, res *dto.SeedResult) (bool, error) {
	similar, err := s.SimilarPositions(ctx, sp.Title)
	if err != nil {
		return false, err
	}
	p, created, err := s.EnsurePosition(ctx, sp.Title, sp.Department)
	if err != nil {
		return false, err
	}
	if created && len(similar) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("cargo %q parecido a %q", p.Title, similar))
	}

	for _, sr := range sp.Requirements {
		existing, err := s.requirements.FindActive(ctx, p.ID, sr.Type)
		if err != nil {
			return created, domain.WrapRepository("find requirement", err)
		}
		if existing != nil {
			res.ExistingRequirements++
			continue
		}
		required := sr.Required == nil || *sr.Required
		if _, err := s.AddRequirement(ctx, p.ID, sr.Type, sr.ValidityMonths, required); err != nil {
			if domain.IsRepositoryError(err) {
				return created, err
			}
			res.Errors = append(res.Errors, dto.RecordError{ID: p.Title + "/" + sr.Type, Reason: err.Error()})
			continue
		}
		res.NewRequirements++
	}
	return created, nil
}
