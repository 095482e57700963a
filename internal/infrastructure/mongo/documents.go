package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jhoicas/Certificaciones-api/internal/domain/certificate"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/reference"
)

// Los documentos heredados pueden no traer "active"; nil se interpreta como activo.
var notInactive = bson.M{"$ne": false}

type positionDoc struct {
	ID         any       `bson:"_id"`
	Title      string    `bson:"title"`
	Department string    `bson:"department,omitempty"`
	Active     *bool     `bson:"active,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func newPositionDoc(p *entity.Position) positionDoc {
	return positionDoc{ID: p.ID, Title: p.Title, Department: p.Department, Active: boolPtr(p.Active), CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

func (d positionDoc) entity() *entity.Position {
	return &entity.Position{ID: docID(d.ID), Title: d.Title, Department: d.Department, Active: isActive(d.Active), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type certificateTypeDoc struct {
	ID                   any       `bson:"_id"`
	Name                 string    `bson:"name"`
	ValidityPeriodMonths int       `bson:"validityPeriodMonths"`
	Active               *bool     `bson:"active,omitempty"`
	CreatedAt            time.Time `bson:"createdAt"`
	UpdatedAt            time.Time `bson:"updatedAt"`
}

func newCertificateTypeDoc(t *entity.CertificateType) certificateTypeDoc {
	return certificateTypeDoc{ID: t.ID, Name: t.Name, ValidityPeriodMonths: t.ValidityPeriodMonths, Active: boolPtr(t.Active), CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func (d certificateTypeDoc) entity() *entity.CertificateType {
	return &entity.CertificateType{ID: docID(d.ID), Name: d.Name, ValidityPeriodMonths: d.ValidityPeriodMonths, Active: isActive(d.Active), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type requirementDoc struct {
	ID                   any       `bson:"_id"`
	PositionID           any       `bson:"positionId"`
	CertificateTypeName  string    `bson:"certificateTypeName"`
	ValidityPeriodMonths int       `bson:"validityPeriodMonths"`
	IsRequired           *bool     `bson:"isRequired,omitempty"`
	Active               *bool     `bson:"active,omitempty"`
	CreatedAt            time.Time `bson:"createdAt"`
	UpdatedAt            time.Time `bson:"updatedAt"`
}

func newRequirementDoc(r *entity.PositionRequirement) requirementDoc {
	return requirementDoc{
		ID: r.ID, PositionID: r.PositionID, CertificateTypeName: r.CertificateTypeName,
		ValidityPeriodMonths: r.ValidityPeriodMonths, IsRequired: boolPtr(r.IsRequired), Active: boolPtr(r.Active),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (d requirementDoc) entity() *entity.PositionRequirement {
	return &entity.PositionRequirement{
		ID: docID(d.ID), PositionID: docID(d.PositionID), CertificateTypeName: d.CertificateTypeName,
		ValidityPeriodMonths: d.ValidityPeriodMonths, IsRequired: isActive(d.IsRequired), Active: isActive(d.Active),
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

// employeeDoc conserva positions/primaryPosition como valores BSON nativos
// (ObjectID, documento embebido, texto); el normalizador de cargos los repara.
type employeeDoc struct {
	ID              any       `bson:"_id"`
	Name            string    `bson:"name"`
	Email           string    `bson:"email,omitempty"`
	Positions       []any     `bson:"positions"`
	PrimaryPosition any       `bson:"primaryPosition"`
	Active          *bool     `bson:"active,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

func newEmployeeDoc(e *entity.RawEmployee) employeeDoc {
	positions := e.Positions
	if positions == nil {
		positions = []any{}
	}
	return employeeDoc{
		ID: e.ID, Name: e.Name, Email: e.Email, Positions: positions, PrimaryPosition: e.PrimaryPosition,
		Active: boolPtr(e.Active), CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func (d employeeDoc) entity() *entity.RawEmployee {
	return &entity.RawEmployee{
		ID: docID(d.ID), Name: d.Name, Email: d.Email, Positions: d.Positions, PrimaryPosition: d.PrimaryPosition,
		Active: isActive(d.Active), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

// certificateDoc los alias históricos del tipo ("certType", "trainingType", ...) viven
// como campos de primer nivel y se recogen en Extra.
type certificateDoc struct {
	ID                  any       `bson:"_id"`
	StaffMemberName     string    `bson:"staffMemberName"`
	PositionID          any       `bson:"positionId,omitempty"`
	CertificateTypeName string    `bson:"certificateTypeName,omitempty"`
	IssueDate           time.Time `bson:"issueDate"`
	ExpirationDate      time.Time `bson:"expirationDate"`
	Status              string    `bson:"status,omitempty"`
	SupersedesID        string    `bson:"supersedesId,omitempty"`
	CreatedAt           time.Time `bson:"createdAt"`
	Extra               bson.M    `bson:",inline"`
}

func newCertificateDoc(c *entity.Certificate) certificateDoc {
	d := certificateDoc{
		ID: c.ID, StaffMemberName: c.StaffMemberName, CertificateTypeName: c.CertificateTypeName,
		IssueDate: c.IssueDate, ExpirationDate: c.ExpirationDate, Status: string(c.Status),
		SupersedesID: c.SupersedesID, CreatedAt: c.CreatedAt,
	}
	if c.PositionID != "" {
		d.PositionID = c.PositionID
	}
	for k, v := range c.LegacyFields {
		if certificate.IsTypeAlias(k) && k != "certificateTypeName" {
			if d.Extra == nil {
				d.Extra = bson.M{}
			}
			d.Extra[k] = v
		}
	}
	return d
}

func (d certificateDoc) entity() *entity.Certificate {
	c := &entity.Certificate{
		ID: docID(d.ID), StaffMemberName: d.StaffMemberName, PositionID: docID(d.PositionID),
		CertificateTypeName: d.CertificateTypeName, IssueDate: d.IssueDate, ExpirationDate: d.ExpirationDate,
		Status: entity.CertificateStatus(d.Status), SupersedesID: d.SupersedesID, CreatedAt: d.CreatedAt,
	}
	for k, v := range d.Extra {
		s, ok := v.(string)
		if !ok || !certificate.IsTypeAlias(k) {
			continue
		}
		if c.LegacyFields == nil {
			c.LegacyFields = make(map[string]string)
		}
		c.LegacyFields[k] = s
	}
	return c
}

type snapshotDoc struct {
	ID                 any             `bson:"_id"`
	TakenAt            time.Time       `bson:"takenAt"`
	TotalInstances     int             `bson:"totalInstances"`
	CompliantInstances int             `bson:"compliantInstances"`
	Rate               bson.Decimal128 `bson:"rate"`
}

func newSnapshotDoc(s *entity.ComplianceSnapshot) (snapshotDoc, error) {
	rate, err := bson.ParseDecimal128(s.Rate.String())
	if err != nil {
		return snapshotDoc{}, fmt.Errorf("rate %s: %w", s.Rate, err)
	}
	return snapshotDoc{ID: s.ID, TakenAt: s.TakenAt, TotalInstances: s.TotalInstances, CompliantInstances: s.CompliantInstances, Rate: rate}, nil
}

func (d snapshotDoc) entity() (*entity.ComplianceSnapshot, error) {
	rate, err := decimal.NewFromString(d.Rate.String())
	if err != nil {
		return nil, fmt.Errorf("rate de %v: %w", d.ID, err)
	}
	return &entity.ComplianceSnapshot{ID: docID(d.ID), TakenAt: d.TakenAt, TotalInstances: d.TotalInstances, CompliantInstances: d.CompliantInstances, Rate: rate}, nil
}

// docID convierte _id (texto u ObjectID) o una referencia en id plano.
func docID(v any) string {
	id, _ := reference.Normalize(v).ID()
	return id
}

// refValue valor de filtro que acepta el id tanto en texto como en ObjectID.
func refValue(id string) any {
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		return bson.M{"$in": bson.A{id, oid}}
	}
	return id
}

func boolPtr(b bool) *bool { return &b }

func isActive(b *bool) bool { return b == nil || *b }
