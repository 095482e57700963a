// Package mongo implementa los puertos de repositorio sobre MongoDB. Es el almacén del
// que provienen los datos heredados: _id ObjectID, cargos embebidos y alias de campos.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
	"github.com/jhoicas/Certificaciones-api/pkg/config"
)

// Nombres de colecciones.
const (
	colPositions    = "positions"
	colTypes        = "certificateTypes"
	colRequirements = "positionRequirements"
	colEmployees    = "employees"
	colCertificates = "certificates"
	colSnapshots    = "complianceSnapshots"
)

// caseInsensitive collation usada por los índices únicos de claves naturales y por las búsquedas.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

var _ repository.TransactionManager = (*Store)(nil)

// Store agrupa la base de datos y construye los repositorios.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// Connect abre el cliente y verifica la conexión.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("conectar mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.Database), transactions: cfg.Transactions}, nil
}

// Disconnect cierra el cliente.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes crea los índices únicos que garantizan las claves naturales
// (sin distinguir mayúsculas) y el requisito activo único por (cargo, tipo).
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := func(name string, keys ...string) mongo.IndexModel {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: d, Options: options.Index().SetUnique(true).SetCollation(caseInsensitive).SetName(name)}
	}

	indexes := map[string][]mongo.IndexModel{
		colPositions: {unique("uniq_title", "title")},
		colTypes:     {unique("uniq_name", "name")},
		colEmployees: {unique("uniq_name", "name")},
		colRequirements: {{
			Keys: bson.D{{Key: "positionId", Value: 1}, {Key: "certificateTypeName", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetCollation(caseInsensitive).
				SetPartialFilterExpression(bson.M{"active": true}).
				SetName("uniq_active_position_type"),
		}},
		colCertificates: {
			{Keys: bson.D{{Key: "staffMemberName", Value: 1}}, Options: options.Index().SetName("staffMemberName")},
			{Keys: bson.D{{Key: "expirationDate", Value: 1}}, Options: options.Index().SetName("expirationDate")},
		},
		colSnapshots: {{Keys: bson.D{{Key: "takenAt", Value: -1}}, Options: options.Index().SetName("takenAt_desc")}},
	}
	for col, models := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("índices de %s: %w", col, err)
		}
	}
	return nil
}

// WithinReadWrite ejecuta fn en una transacción multi-documento si están habilitadas;
// en un servidor standalone cada escritura es atómica por sí sola.
func (s *Store) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if !s.transactions || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}
	sess, err := s.client.StartSession()
	if err != nil {
		return domain.WrapRepository("start session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (any, error) {
		return nil, fn(sc)
	})
	return err
}

// WithinReadOnly las lecturas no necesitan transacción.
func (s *Store) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (s *Store) Positions() *PositionRepo {
	return &PositionRepo{col: s.db.Collection(colPositions)}
}

func (s *Store) CertificateTypes() *CertificateTypeRepo {
	return &CertificateTypeRepo{col: s.db.Collection(colTypes)}
}

func (s *Store) Requirements() *RequirementRepo {
	return &RequirementRepo{col: s.db.Collection(colRequirements)}
}

func (s *Store) Employees() *EmployeeRepo {
	return &EmployeeRepo{col: s.db.Collection(colEmployees)}
}

func (s *Store) Certificates() *CertificateRepo {
	return &CertificateRepo{col: s.db.Collection(colCertificates)}
}

func (s *Store) Snapshots() *SnapshotRepo {
	return &SnapshotRepo{col: s.db.Collection(colSnapshots)}
}

// translateError traduce errores del driver a errores de dominio.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicate
	}
	return domain.WrapRepository(op, err)
}

// idFilter los documentos heredados usan ObjectID como _id; los nuevos, uuid en texto.
func idFilter(id string) bson.M {
	return bson.M{"_id": refValue(id)}
}

// findOne decodifica el primer documento de filter; (nil, nil) si no hay.
func findOne[D any](ctx context.Context, col *mongo.Collection, op string, filter any, opts ...options.Lister[options.FindOneOptions]) (*D, error) {
	var doc D
	if err := col.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, translateError(op, err)
	}
	return &doc, nil
}

// findAll decodifica todos los documentos de filter.
func findAll[D any](ctx context.Context, col *mongo.Collection, op string, filter any, opts ...options.Lister[options.FindOptions]) ([]D, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, translateError(op, err)
	}
	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateError(op, err)
	}
	return docs, nil
}

// byCreation orden estable de listados.
func byCreation() *options.FindOptionsBuilder {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
}
