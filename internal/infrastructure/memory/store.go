// Package memory implementa los puertos de repositorio en memoria. Se usa con
// STORE_DRIVER=memory (pruebas manuales, demos) y como doble en los tests de aplicación.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/naturalkey"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
)

var (
	_ repository.PositionRepository        = (*PositionRepo)(nil)
	_ repository.CertificateTypeRepository = (*CertificateTypeRepo)(nil)
	_ repository.RequirementRepository     = (*RequirementRepo)(nil)
	_ repository.EmployeeRepository        = (*EmployeeRepo)(nil)
	_ repository.CertificateRepository     = (*CertificateRepo)(nil)
	_ repository.SnapshotRepository        = (*SnapshotRepo)(nil)
	_ repository.TransactionManager        = (*Store)(nil)
)

// Store almacén en memoria compartido por todos los repositorios. Las transacciones no
// tienen rollback: cada escritura es atómica por sí sola.
type Store struct {
	mu           sync.RWMutex
	positions    table[entity.Position]
	types        table[entity.CertificateType]
	requirements table[entity.PositionRequirement]
	employees    table[entity.RawEmployee]
	certificates table[entity.Certificate]
	snapshots    table[entity.ComplianceSnapshot]
	failures     map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{failures: make(map[string]error)}
}

// InjectFailure hace que la operación op ("positions.create", "certificates.list", ...)
// devuelva err envuelto como RepositoryError. err=nil elimina el fallo.
func (s *Store) InjectFailure(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		return domain.WrapRepository(op, err)
	}
	return nil
}

// WithinReadWrite implementa repository.TransactionManager.
func (s *Store) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// WithinReadOnly implementa repository.TransactionManager.
func (s *Store) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return s.WithinReadWrite(ctx, fn)
}

// Positions repositorio de cargos.
func (s *Store) Positions() *PositionRepo { return &PositionRepo{s: s} }

// CertificateTypes repositorio de tipos de certificado.
func (s *Store) CertificateTypes() *CertificateTypeRepo { return &CertificateTypeRepo{s: s} }

// Requirements repositorio de requisitos por cargo.
func (s *Store) Requirements() *RequirementRepo { return &RequirementRepo{s: s} }

// Employees repositorio de empleados.
func (s *Store) Employees() *EmployeeRepo { return &EmployeeRepo{s: s} }

// Certificates repositorio de certificados.
func (s *Store) Certificates() *CertificateRepo { return &CertificateRepo{s: s} }

// Snapshots repositorio del historial de cumplimiento.
func (s *Store) Snapshots() *SnapshotRepo { return &SnapshotRepo{s: s} }

// table mantiene el orden de inserción para que los listados sean deterministas.
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func (t *table[T]) get(id string) (*T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id string, row *T) {
	if t.rows == nil {
		t.rows = make(map[string]*T)
	}
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) each(fn func(*T) bool) {
	for _, id := range t.order {
		if !fn(t.rows[id]) {
			return
		}
	}
}

// ---- Positions ----

// PositionRepo implementación en memoria de repository.PositionRepository.
type PositionRepo struct{ s *Store }

func (r *PositionRepo) Create(_ context.Context, p *entity.Position) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("positions.create"); err != nil {
		return err
	}
	if _, ok := r.s.positions.get(p.ID); ok || r.findByTitle(p.Title) != nil {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.positions.put(p.ID, &cp)
	return nil
}

func (r *PositionRepo) GetByID(_ context.Context, id string) (*entity.Position, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("positions.get"); err != nil {
		return nil, err
	}
	p, ok := r.s.positions.get(id)
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PositionRepo) FindByTitle(_ context.Context, title string) (*entity.Position, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("positions.find"); err != nil {
		return nil, err
	}
	p := r.findByTitle(title)
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PositionRepo) findByTitle(title string) *entity.Position {
	key := naturalkey.Fold(title)
	var found *entity.Position
	r.s.positions.each(func(p *entity.Position) bool {
		if naturalkey.Fold(p.Title) == key {
			found = p
			return false
		}
		return true
	})
	return found
}

func (r *PositionRepo) Update(_ context.Context, p *entity.Position) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("positions.update"); err != nil {
		return err
	}
	if _, ok := r.s.positions.get(p.ID); !ok {
		return domain.ErrNotFound
	}
	if other := r.findByTitle(p.Title); other != nil && other.ID != p.ID {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.positions.put(p.ID, &cp)
	return nil
}

func (r *PositionRepo) List(_ context.Context) ([]*entity.Position, error) {
	return r.list(false)
}

func (r *PositionRepo) ListActive(_ context.Context) ([]*entity.Position, error) {
	return r.list(true)
}

func (r *PositionRepo) list(onlyActive bool) ([]*entity.Position, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("positions.list"); err != nil {
		return nil, err
	}
	var out []*entity.Position
	r.s.positions.each(func(p *entity.Position) bool {
		if !onlyActive || p.Active {
			cp := *p
			out = append(out, &cp)
		}
		return true
	})
	return out, nil
}

// ---- Certificate types ----

// CertificateTypeRepo implementación en memoria de repository.CertificateTypeRepository.
type CertificateTypeRepo struct{ s *Store }

func (r *CertificateTypeRepo) Create(_ context.Context, t *entity.CertificateType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("certificate_types.create"); err != nil {
		return err
	}
	if _, ok := r.s.types.get(t.ID); ok || r.findByName(t.Name) != nil {
		return domain.ErrDuplicate
	}
	cp := *t
	r.s.types.put(t.ID, &cp)
	return nil
}

func (r *CertificateTypeRepo) GetByID(_ context.Context, id string) (*entity.CertificateType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.types.get(id)
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *CertificateTypeRepo) FindByName(_ context.Context, name string) (*entity.CertificateType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("certificate_types.find"); err != nil {
		return nil, err
	}
	t := r.findByName(name)
	if t == nil {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *CertificateTypeRepo) findByName(name string) *entity.CertificateType {
	key := naturalkey.Fold(name)
	var found *entity.CertificateType
	r.s.types.each(func(t *entity.CertificateType) bool {
		if naturalkey.Fold(t.Name) == key {
			found = t
			return false
		}
		return true
	})
	return found
}

func (r *CertificateTypeRepo) Update(_ context.Context, t *entity.CertificateType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.types.get(t.ID); !ok {
		return domain.ErrNotFound
	}
	if other := r.findByName(t.Name); other != nil && other.ID != t.ID {
		return domain.ErrDuplicate
	}
	cp := *t
	r.s.types.put(t.ID, &cp)
	return nil
}

func (r *CertificateTypeRepo) ListActive(_ context.Context) ([]*entity.CertificateType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.CertificateType
	r.s.types.each(func(t *entity.CertificateType) bool {
		if t.Active {
			cp := *t
			out = append(out, &cp)
		}
		return true
	})
	return out, nil
}

// ---- Requirements ----

// RequirementRepo implementación en memoria de repository.RequirementRepository.
type RequirementRepo struct{ s *Store }

func (r *RequirementRepo) Create(_ context.Context, req *entity.PositionRequirement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("requirements.create"); err != nil {
		return err
	}
	if _, ok := r.s.requirements.get(req.ID); ok {
		return domain.ErrDuplicate
	}
	if req.Active && r.findActive(req.PositionID, req.CertificateTypeName, "") != nil {
		return domain.ErrDuplicate
	}
	cp := *req
	r.s.requirements.put(req.ID, &cp)
	return nil
}

func (r *RequirementRepo) GetByID(_ context.Context, id string) (*entity.PositionRequirement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.requirements.get(id)
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *RequirementRepo) FindActive(_ context.Context, positionID, certificateTypeName string) (*entity.PositionRequirement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req := r.findActive(positionID, certificateTypeName, "")
	if req == nil {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *RequirementRepo) findActive(positionID, typeName, exceptID string) *entity.PositionRequirement {
	key := naturalkey.Fold(typeName)
	var found *entity.PositionRequirement
	r.s.requirements.each(func(req *entity.PositionRequirement) bool {
		if req.Active && req.ID != exceptID && req.PositionID == positionID && naturalkey.Fold(req.CertificateTypeName) == key {
			found = req
			return false
		}
		return true
	})
	return found
}

func (r *RequirementRepo) Update(_ context.Context, req *entity.PositionRequirement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requirements.get(req.ID); !ok {
		return domain.ErrNotFound
	}
	if req.Active && r.findActive(req.PositionID, req.CertificateTypeName, req.ID) != nil {
		return domain.ErrDuplicate
	}
	cp := *req
	r.s.requirements.put(req.ID, &cp)
	return nil
}

func (r *RequirementRepo) ListActive(_ context.Context) ([]*entity.PositionRequirement, error) {
	return r.list(func(req *entity.PositionRequirement) bool { return req.Active })
}

func (r *RequirementRepo) ListByPosition(_ context.Context, positionID string) ([]*entity.PositionRequirement, error) {
	return r.list(func(req *entity.PositionRequirement) bool { return req.PositionID == positionID })
}

func (r *RequirementRepo) list(keep func(*entity.PositionRequirement) bool) ([]*entity.PositionRequirement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("requirements.list"); err != nil {
		return nil, err
	}
	var out []*entity.PositionRequirement
	r.s.requirements.each(func(req *entity.PositionRequirement) bool {
		if keep(req) {
			cp := *req
			out = append(out, &cp)
		}
		return true
	})
	return out, nil
}

// ---- Employees ----

// EmployeeRepo implementación en memoria de repository.EmployeeRepository.
type EmployeeRepo struct{ s *Store }

func cloneEmployee(e *entity.RawEmployee) *entity.RawEmployee {
	cp := *e
	cp.Positions = append([]any(nil), e.Positions...)
	return &cp
}

func (r *EmployeeRepo) Create(_ context.Context, e *entity.RawEmployee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("employees.create"); err != nil {
		return err
	}
	if _, ok := r.s.employees.get(e.ID); ok || r.findByName(e.Name) != nil {
		return domain.ErrDuplicate
	}
	r.s.employees.put(e.ID, cloneEmployee(e))
	return nil
}

func (r *EmployeeRepo) GetByID(_ context.Context, id string) (*entity.RawEmployee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("employees.get"); err != nil {
		return nil, err
	}
	e, ok := r.s.employees.get(id)
	if !ok {
		return nil, nil
	}
	return cloneEmployee(e), nil
}

func (r *EmployeeRepo) FindByName(_ context.Context, name string) (*entity.RawEmployee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("employees.find"); err != nil {
		return nil, err
	}
	e := r.findByName(name)
	if e == nil {
		return nil, nil
	}
	return cloneEmployee(e), nil
}

func (r *EmployeeRepo) findByName(name string) *entity.RawEmployee {
	key := naturalkey.Fold(name)
	var found *entity.RawEmployee
	r.s.employees.each(func(e *entity.RawEmployee) bool {
		if naturalkey.Fold(e.Name) == key {
			found = e
			return false
		}
		return true
	})
	return found
}

func (r *EmployeeRepo) Update(_ context.Context, e *entity.RawEmployee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("employees.update"); err != nil {
		return err
	}
	if _, ok := r.s.employees.get(e.ID); !ok {
		return domain.ErrNotFound
	}
	r.s.employees.put(e.ID, cloneEmployee(e))
	return nil
}

func (r *EmployeeRepo) List(_ context.Context) ([]*entity.RawEmployee, error) {
	return r.list(false)
}

func (r *EmployeeRepo) ListActive(_ context.Context) ([]*entity.RawEmployee, error) {
	return r.list(true)
}

func (r *EmployeeRepo) list(onlyActive bool) ([]*entity.RawEmployee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("employees.list"); err != nil {
		return nil, err
	}
	var out []*entity.RawEmployee
	r.s.employees.each(func(e *entity.RawEmployee) bool {
		if !onlyActive || e.Active {
			out = append(out, cloneEmployee(e))
		}
		return true
	})
	return out, nil
}

// ---- Certificates ----

// CertificateRepo implementación en memoria de repository.CertificateRepository.
type CertificateRepo struct{ s *Store }

func cloneCertificate(c *entity.Certificate) *entity.Certificate {
	cp := *c
	if c.LegacyFields != nil {
		cp.LegacyFields = make(map[string]string, len(c.LegacyFields))
		for k, v := range c.LegacyFields {
			cp.LegacyFields[k] = v
		}
	}
	return &cp
}

func (r *CertificateRepo) Create(_ context.Context, c *entity.Certificate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("certificates.create"); err != nil {
		return err
	}
	if _, ok := r.s.certificates.get(c.ID); ok {
		return domain.ErrDuplicate
	}
	r.s.certificates.put(c.ID, cloneCertificate(c))
	return nil
}

func (r *CertificateRepo) GetByID(_ context.Context, id string) (*entity.Certificate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.certificates.get(id)
	if !ok {
		return nil, nil
	}
	return cloneCertificate(c), nil
}

func (r *CertificateRepo) List(_ context.Context) ([]*entity.Certificate, error) {
	return r.list(func(*entity.Certificate) bool { return true })
}

func (r *CertificateRepo) ListByStaffMember(_ context.Context, name string) ([]*entity.Certificate, error) {
	return r.list(func(c *entity.Certificate) bool { return c.StaffMemberName == name })
}

func (r *CertificateRepo) ListExpiringBefore(_ context.Context, cutoff time.Time) ([]*entity.Certificate, error) {
	out, err := r.list(func(c *entity.Certificate) bool { return !c.ExpirationDate.After(cutoff) })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpirationDate.Before(out[j].ExpirationDate) })
	return out, nil
}

func (r *CertificateRepo) list(keep func(*entity.Certificate) bool) ([]*entity.Certificate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("certificates.list"); err != nil {
		return nil, err
	}
	var out []*entity.Certificate
	r.s.certificates.each(func(c *entity.Certificate) bool {
		if keep(c) {
			out = append(out, cloneCertificate(c))
		}
		return true
	})
	return out, nil
}

func (r *CertificateRepo) UpdateStatus(_ context.Context, id string, status entity.CertificateStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("certificates.update_status"); err != nil {
		return err
	}
	c, ok := r.s.certificates.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	return nil
}

// ---- Snapshots ----

// SnapshotRepo implementación en memoria de repository.SnapshotRepository.
type SnapshotRepo struct{ s *Store }

func (r *SnapshotRepo) Create(_ context.Context, snap *entity.ComplianceSnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("snapshots.create"); err != nil {
		return err
	}
	cp := *snap
	r.s.snapshots.put(snap.ID, &cp)
	return nil
}

func (r *SnapshotRepo) ListRecent(_ context.Context, limit int) ([]*entity.ComplianceSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.ComplianceSnapshot
	r.s.snapshots.each(func(s *entity.ComplianceSnapshot) bool {
		cp := *s
		out = append(out, &cp)
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].TakenAt.After(out[j].TakenAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
