package reference

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Ref is the resolved form of a heterogeneous reference field. The same
// logical entity (a skill, a language, an industry) may arrive as a bare
// identifier, as an object carrying denormalized display fields, or as a
// plain display string depending on the caller. Ref normalizes all three
// shapes once so scorers never have to type-switch.
type Ref struct {
	ID       string `json:"id,omitempty" bson:"id,omitempty"`
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Code     string `json:"code,omitempty" bson:"code,omitempty"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`
}

// IsZero reports whether the reference carries no data at all.
func (r Ref) IsZero() bool {
	return r.ID == "" && r.Name == "" && r.Code == "" && r.Category == ""
}

// Key returns the canonical comparison key: the best available display
// field lowercased, trimmed and stripped to alphanumerics. An empty key
// means the reference is unusable for comparison, never an error.
func (r Ref) Key() string {
	for _, candidate := range []string{r.Name, r.Code, r.ID} {
		if k := Canonical(candidate); k != "" {
			return k
		}
	}
	return ""
}

// Display returns only the known display fields, dropping anything the
// caller may have smuggled along inside a raw object.
func (r Ref) Display() map[string]string {
	out := make(map[string]string)
	if r.ID != "" {
		out["id"] = r.ID
	}
	if r.Name != "" {
		out["name"] = r.Name
	}
	if r.Code != "" {
		out["code"] = r.Code
	}
	if r.Category != "" {
		out["category"] = r.Category
	}
	return out
}

// Label returns the best human-readable name for diagnostics.
func (r Ref) Label() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Code != "" {
		return r.Code
	}
	return r.ID
}

// Canonical lowercases, trims and strips a value down to alphanumerics.
func Canonical(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(v))
	for _, ch := range v {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// Resolve normalizes any supported input shape into a Ref. Nil and
// unknown shapes resolve to a zero Ref rather than an error.
func Resolve(v any) Ref {
	switch val := v.(type) {
	case nil:
		return Ref{}
	case Ref:
		return val
	case *Ref:
		if val == nil {
			return Ref{}
		}
		return *val
	case string:
		return Ref{Name: strings.TrimSpace(val)}
	case map[string]any:
		return fromMap(val)
	case map[string]string:
		m := make(map[string]any, len(val))
		for k, s := range val {
			m[k] = s
		}
		return fromMap(m)
	case bson.M:
		return fromMap(map[string]any(val))
	default:
		return Ref{}
	}
}

func fromMap(m map[string]any) Ref {
	r := Ref{
		ID:       stringField(m, "id", "_id"),
		Name:     stringField(m, "name", "title", "label"),
		Code:     stringField(m, "code"),
		Category: stringField(m, "category", "type"),
	}
	return r
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			return strings.TrimSpace(s)
		case bson.ObjectID:
			return s.Hex()
		case fmt.Stringer:
			return strings.TrimSpace(s.String())
		}
	}
	return ""
}

// UnmarshalJSON accepts a bare string or an object.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Resolve(s)
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*r = Resolve(m)
	return nil
}

// UnmarshalBSONValue accepts a bare string, an ObjectID or an embedded
// document, mirroring the JSON behavior for documents stored before the
// reference shape was unified.
func (r *Ref) UnmarshalBSONValue(t byte, data []byte) error {
	switch bson.Type(t) {
	case bson.TypeNull, bson.TypeUndefined:
		*r = Ref{}
		return nil
	case bson.TypeString:
		rv := bson.RawValue{Type: bson.TypeString, Value: data}
		*r = Resolve(rv.StringValue())
		return nil
	case bson.TypeObjectID:
		rv := bson.RawValue{Type: bson.TypeObjectID, Value: data}
		*r = Ref{ID: rv.ObjectID().Hex()}
		return nil
	case bson.TypeEmbeddedDocument:
		var m bson.M
		if err := bson.Unmarshal(data, &m); err != nil {
			return err
		}
		*r = Resolve(map[string]any(m))
		return nil
	default:
		*r = Ref{}
		return nil
	}
}

// SameKey reports canonical-key equality between two references.
func SameKey(a, b Ref) bool {
	ka, kb := a.Key(), b.Key()
	return ka != "" && ka == kb
}

// Contains reports bidirectional substring containment between two
// canonical keys, used for loose industry and activity matching.
func Contains(a, b Ref) bool {
	ka, kb := a.Key(), b.Key()
	if ka == "" || kb == "" {
		return false
	}
	return strings.Contains(ka, kb) || strings.Contains(kb, ka)
}
