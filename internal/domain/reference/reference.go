// Package reference normaliza referencias heterogéneas a cargos (ids en texto, objetos
// embebidos, ObjectIDs de Mongo, números) a un único id. Se aplica en cada frontera de
// entrada para que la lógica de negocio solo vea ids planos.
package reference

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// IDKeys campos consultados, en orden, para extraer el id de un objeto embebido.
var IDKeys = []string{"_id", "id", "ID", "Id", "positionId", "position_id", "$oid"}

const maxDepth = 4

var objectIDLiteral = regexp.MustCompile(`^ObjectId\(\s*["']?([0-9a-fA-F]{24})["']?\s*\)$`)

// Ref unión etiquetada Id(string) | Unresolvable.
type Ref struct {
	id     string
	reason string
}

// ID construye una referencia resuelta.
func ID(id string) Ref { return Ref{id: id} }

// Unresolvable construye una referencia que no se pudo convertir en id.
func Unresolvable(reason string) Ref { return Ref{reason: reason} }

// Resolved indica si la referencia tiene id.
func (r Ref) Resolved() bool { return r.id != "" }

// ID devuelve el id y si la referencia está resuelta.
func (r Ref) ID() (string, bool) { return r.id, r.id != "" }

// Reason motivo por el que la referencia no se pudo resolver.
func (r Ref) Reason() string { return r.reason }

func (r Ref) String() string {
	if r.Resolved() {
		return r.id
	}
	return "unresolvable(" + r.reason + ")"
}

// Normalize convierte un valor almacenado en una referencia.
func Normalize(v any) Ref {
	return normalize(v, 0)
}

func normalize(v any, depth int) Ref {
	if depth > maxDepth {
		return Unresolvable("anidamiento excesivo")
	}
	switch val := v.(type) {
	case nil:
		return Unresolvable("nulo")
	case string:
		return fromString(val)
	case *string:
		if val == nil {
			return Unresolvable("nulo")
		}
		return fromString(*val)
	case bson.ObjectID:
		if val.IsZero() {
			return Unresolvable("ObjectID vacío")
		}
		return ID(val.Hex())
	case *bson.ObjectID:
		if val == nil {
			return Unresolvable("nulo")
		}
		return normalize(*val, depth)
	case json.Number:
		return fromString(val.String())
	case int:
		return ID(strconv.Itoa(val))
	case int32:
		return ID(strconv.FormatInt(int64(val), 10))
	case int64:
		return ID(strconv.FormatInt(val, 10))
	case float64:
		if val != float64(int64(val)) {
			return Unresolvable(fmt.Sprintf("id numérico no entero %v", val))
		}
		return ID(strconv.FormatInt(int64(val), 10))
	case entity.Position:
		return fromString(val.ID)
	case *entity.Position:
		if val == nil {
			return Unresolvable("nulo")
		}
		return fromString(val.ID)
	case map[string]any:
		return fromObject(func(k string) (any, bool) { x, ok := val[k]; return x, ok }, depth)
	case bson.M:
		return fromObject(func(k string) (any, bool) { x, ok := val[k]; return x, ok }, depth)
	case bson.D:
		return fromObject(func(k string) (any, bool) {
			for _, e := range val {
				if e.Key == k {
					return e.Value, true
				}
			}
			return nil, false
		}, depth)
	default:
		return Unresolvable(fmt.Sprintf("tipo no soportado %T", v))
	}
}

func fromString(s string) Ref {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unresolvable("cadena vacía")
	}
	if m := objectIDLiteral.FindStringSubmatch(s); m != nil {
		return ID(strings.ToLower(m[1]))
	}
	if strings.HasPrefix(s, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(s), &obj); err == nil {
			return normalize(obj, 1)
		}
	}
	return ID(s)
}

func fromObject(get func(string) (any, bool), depth int) Ref {
	for _, key := range IDKeys {
		raw, ok := get(key)
		if !ok {
			continue
		}
		if ref := normalize(raw, depth+1); ref.Resolved() {
			return ref
		}
	}
	return Unresolvable("objeto sin campo id")
}
