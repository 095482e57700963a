package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
)

var (
	_ repository.PositionRepository        = (*PositionRepo)(nil)
	_ repository.CertificateTypeRepository = (*CertificateTypeRepo)(nil)
	_ repository.RequirementRepository     = (*RequirementRepo)(nil)
	_ repository.EmployeeRepository        = (*EmployeeRepo)(nil)
	_ repository.CertificateRepository     = (*CertificateRepo)(nil)
	_ repository.SnapshotRepository        = (*SnapshotRepo)(nil)
)

func findCI() *options.FindOneOptionsBuilder {
	return options.FindOne().SetCollation(caseInsensitive)
}

// updateByID aplica $set sobre el documento; ErrNotFound si no existe.
func updateByID(ctx context.Context, col *mongo.Collection, op, id string, set bson.M) error {
	res, err := col.UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		return translateError(op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func insert(ctx context.Context, col *mongo.Collection, op string, doc any) error {
	_, err := col.InsertOne(ctx, doc)
	return translateError(op, err)
}

// ---- Positions ----

type PositionRepo struct {
	col *mongo.Collection
}

func (r *PositionRepo) Create(ctx context.Context, p *entity.Position) error {
	return insert(ctx, r.col, "insert position", newPositionDoc(p))
}

func (r *PositionRepo) GetByID(ctx context.Context, id string) (*entity.Position, error) {
	return onePosition(findOne[positionDoc](ctx, r.col, "get position", idFilter(id)))
}

func (r *PositionRepo) FindByTitle(ctx context.Context, title string) (*entity.Position, error) {
	return onePosition(findOne[positionDoc](ctx, r.col, "find position", bson.M{"title": title}, findCI()))
}

func (r *PositionRepo) Update(ctx context.Context, p *entity.Position) error {
	return updateByID(ctx, r.col, "update position", p.ID, bson.M{
		"title": p.Title, "department": p.Department, "active": p.Active, "updatedAt": p.UpdatedAt,
	})
}

func (r *PositionRepo) List(ctx context.Context) ([]*entity.Position, error) {
	return r.list(ctx, bson.M{})
}

func (r *PositionRepo) ListActive(ctx context.Context) ([]*entity.Position, error) {
	return r.list(ctx, bson.M{"active": notInactive})
}

func (r *PositionRepo) list(ctx context.Context, filter bson.M) ([]*entity.Position, error) {
	docs, err := findAll[positionDoc](ctx, r.col, "list positions", filter, byCreation())
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Position, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func onePosition(d *positionDoc, err error) (*entity.Position, error) {
	if d == nil || err != nil {
		return nil, err
	}
	return d.entity(), nil
}

// ---- Certificate types ----

type CertificateTypeRepo struct {
	col *mongo.Collection
}

func (r *CertificateTypeRepo) Create(ctx context.Context, t *entity.CertificateType) error {
	return insert(ctx, r.col, "insert certificate type", newCertificateTypeDoc(t))
}

func (r *CertificateTypeRepo) GetByID(ctx context.Context, id string) (*entity.CertificateType, error) {
	return oneType(findOne[certificateTypeDoc](ctx, r.col, "get certificate type", idFilter(id)))
}

func (r *CertificateTypeRepo) FindByName(ctx context.Context, name string) (*entity.CertificateType, error) {
	return oneType(findOne[certificateTypeDoc](ctx, r.col, "find certificate type", bson.M{"name": name}, findCI()))
}

func (r *CertificateTypeRepo) Update(ctx context.Context, t *entity.CertificateType) error {
	return updateByID(ctx, r.col, "update certificate type", t.ID, bson.M{
		"name": t.Name, "validityPeriodMonths": t.ValidityPeriodMonths, "active": t.Active, "updatedAt": t.UpdatedAt,
	})
}

func (r *CertificateTypeRepo) ListActive(ctx context.Context) ([]*entity.CertificateType, error) {
	docs, err := findAll[certificateTypeDoc](ctx, r.col, "list certificate types", bson.M{"active": notInactive}, byCreation())
	if err != nil {
		return nil, err
	}
	out := make([]*entity.CertificateType, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func oneType(d *certificateTypeDoc, err error) (*entity.CertificateType, error) {
	if d == nil || err != nil {
		return nil, err
	}
	return d.entity(), nil
}

// ---- Requirements ----

type RequirementRepo struct {
	col *mongo.Collection
}

func (r *RequirementRepo) Create(ctx context.Context, req *entity.PositionRequirement) error {
	return insert(ctx, r.col, "insert requirement", newRequirementDoc(req))
}

func (r *RequirementRepo) GetByID(ctx context.Context, id string) (*entity.PositionRequirement, error) {
	return oneRequirement(findOne[requirementDoc](ctx, r.col, "get requirement", idFilter(id)))
}

func (r *RequirementRepo) FindActive(ctx context.Context, positionID, certificateTypeName string) (*entity.PositionRequirement, error) {
	filter := bson.M{"positionId": refValue(positionID), "certificateTypeName": certificateTypeName, "active": true}
	return oneRequirement(findOne[requirementDoc](ctx, r.col, "find requirement", filter, findCI()))
}

func (r *RequirementRepo) Update(ctx context.Context, req *entity.PositionRequirement) error {
	return updateByID(ctx, r.col, "update requirement", req.ID, bson.M{
		"certificateTypeName": req.CertificateTypeName, "validityPeriodMonths": req.ValidityPeriodMonths,
		"isRequired": req.IsRequired, "active": req.Active, "updatedAt": req.UpdatedAt,
	})
}

func (r *RequirementRepo) ListActive(ctx context.Context) ([]*entity.PositionRequirement, error) {
	return r.list(ctx, bson.M{"active": notInactive})
}

func (r *RequirementRepo) ListByPosition(ctx context.Context, positionID string) ([]*entity.PositionRequirement, error) {
	return r.list(ctx, bson.M{"positionId": refValue(positionID)})
}

func (r *RequirementRepo) list(ctx context.Context, filter bson.M) ([]*entity.PositionRequirement, error) {
	docs, err := findAll[requirementDoc](ctx, r.col, "list requirements", filter, byCreation())
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PositionRequirement, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func oneRequirement(d *requirementDoc, err error) (*entity.PositionRequirement, error) {
	if d == nil || err != nil {
		return nil, err
	}
	return d.entity(), nil
}

// ---- Employees ----

type EmployeeRepo struct {
	col *mongo.Collection
}

func (r *EmployeeRepo) Create(ctx context.Context, e *entity.RawEmployee) error {
	return insert(ctx, r.col, "insert employee", newEmployeeDoc(e))
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*entity.RawEmployee, error) {
	return oneEmployee(findOne[employeeDoc](ctx, r.col, "get employee", idFilter(id)))
}

func (r *EmployeeRepo) FindByName(ctx context.Context, name string) (*entity.RawEmployee, error) {
	return oneEmployee(findOne[employeeDoc](ctx, r.col, "find employee", bson.M{"name": name}, findCI()))
}

// Update reescribe los campos sin tocar _id (puede ser ObjectID heredado).
func (r *EmployeeRepo) Update(ctx context.Context, e *entity.RawEmployee) error {
	d := newEmployeeDoc(e)
	return updateByID(ctx, r.col, "update employee", e.ID, bson.M{
		"name": d.Name, "email": d.Email, "positions": d.Positions, "primaryPosition": d.PrimaryPosition,
		"active": e.Active, "updatedAt": d.UpdatedAt,
	})
}

func (r *EmployeeRepo) List(ctx context.Context) ([]*entity.RawEmployee, error) {
	return r.list(ctx, bson.M{})
}

func (r *EmployeeRepo) ListActive(ctx context.Context) ([]*entity.RawEmployee, error) {
	return r.list(ctx, bson.M{"active": notInactive})
}

func (r *EmployeeRepo) list(ctx context.Context, filter bson.M) ([]*entity.RawEmployee, error) {
	docs, err := findAll[employeeDoc](ctx, r.col, "list employees", filter, byCreation())
	if err != nil {
		return nil, err
	}
	out := make([]*entity.RawEmployee, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func oneEmployee(d *employeeDoc, err error) (*entity.RawEmployee, error) {
	if d == nil || err != nil {
		return nil, err
	}
	return d.entity(), nil
}

// ---- Certificates ----

type CertificateRepo struct {
	col *mongo.Collection
}

func (r *CertificateRepo) Create(ctx context.Context, c *entity.Certificate) error {
	return insert(ctx, r.col, "insert certificate", newCertificateDoc(c))
}

func (r *CertificateRepo) GetByID(ctx context.Context, id string) (*entity.Certificate, error) {
	d, err := findOne[certificateDoc](ctx, r.col, "get certificate", idFilter(id))
	if d == nil || err != nil {
		return nil, err
	}
	return d.entity(), nil
}

func (r *CertificateRepo) List(ctx context.Context) ([]*entity.Certificate, error) {
	return r.list(ctx, bson.M{}, byCreation())
}

// ListByStaffMember vínculo por nombre exacto (sin collation).
func (r *CertificateRepo) ListByStaffMember(ctx context.Context, staffMemberName string) ([]*entity.Certificate, error) {
	return r.list(ctx, bson.M{"staffMemberName": staffMemberName}, byCreation())
}

func (r *CertificateRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*entity.Certificate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "expirationDate", Value: 1}, {Key: "_id", Value: 1}})
	return r.list(ctx, bson.M{"expirationDate": bson.M{"$lte": cutoff}}, opts)
}

func (r *CertificateRepo) UpdateStatus(ctx context.Context, id string, status entity.CertificateStatus) error {
	return updateByID(ctx, r.col, "update certificate status", id, bson.M{"status": string(status)})
}

func (r *CertificateRepo) list(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*entity.Certificate, error) {
	docs, err := findAll[certificateDoc](ctx, r.col, "list certificates", filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Certificate, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

// ---- Snapshots ----

type SnapshotRepo struct {
	col *mongo.Collection
}

func (r *SnapshotRepo) Create(ctx context.Context, s *entity.ComplianceSnapshot) error {
	d, err := newSnapshotDoc(s)
	if err != nil {
		return err
	}
	return insert(ctx, r.col, "insert snapshot", d)
}

func (r *SnapshotRepo) ListRecent(ctx context.Context, limit int) ([]*entity.ComplianceSnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "takenAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	docs, err := findAll[snapshotDoc](ctx, r.col, "list snapshots", bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.ComplianceSnapshot, 0, len(docs))
	for _, d := range docs {
		s, err := d.entity()
		if err != nil {
			return nil, domain.WrapRepository("decode snapshot", err)
		}
		out = append(out, s)
	}
	return out, nil
}
