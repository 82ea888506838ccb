package listing

import (
	"net/url"
	"strconv"
	"strings"

	"topodash/internal/models"
)

type FieldKind int

const (
	Text FieldKind = iota
	Enum
	Number
	Bool
)

// Field is one accepted search filter. Name is also the backend query parameter.
type Field struct {
	Name      string
	Label     string
	Kind      FieldKind
	Options   []models.Option // allowed values for Enum
	AdminOnly bool
}

type Schema []Field

// Filters are search parameters keyed by field name. Empty values mean "not set".
type Filters map[string]string

func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Active reports whether any filter carries a value.
func (f Filters) Active() bool {
	for _, v := range f {
		if v != "" {
			return true
		}
	}
	return false
}

// Equal compares the set values of two filter maps; empty values are ignored.
func (f Filters) Equal(other Filters) bool {
	for k, v := range f {
		if v != "" && other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if v != "" && f[k] != v {
			return false
		}
	}
	return true
}

// FromQuery picks the schema's fields out of q, unvalidated.
func (s Schema) FromQuery(q url.Values) Filters {
	out := Filters{}
	for _, field := range s {
		if v := q.Get(field.Name); v != "" {
			out[field.Name] = v
		}
	}
	return out
}

// Validate keeps only the filters that belong to the schema and hold a value
// of the right domain. Admin-only fields are dropped for everyone else.
// Rejected fields are dropped silently.
func (s Schema) Validate(in Filters, isAdmin bool) Filters {
	out := Filters{}
	for _, field := range s {
		raw, ok := in[field.Name]
		if !ok {
			continue
		}
		if field.AdminOnly && !isAdmin {
			continue
		}
		if v, ok := field.normalize(raw); ok {
			out[field.Name] = v
		}
	}
	return out
}

func (f Field) normalize(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	switch f.Kind {
	case Text:
		return v, true
	case Enum:
		v = strings.ToUpper(v)
		for _, o := range f.Options {
			if o.Value == v {
				return v, true
			}
		}
		return "", false
	case Number:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return "", false
		}
		return strconv.FormatInt(n, 10), true
	case Bool:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	}
	return "", false
}

var (
	ProjectSchema = Schema{
		{Name: "name", Label: "Nom", Kind: Text},
		{Name: "status", Label: "Statut", Kind: Enum, Options: models.ProjectStatusOptions()},
		{Name: "clientId", Label: "Client", Kind: Number},
		{Name: "topographeId", Label: "Topographe", Kind: Number, AdminOnly: true},
	}

	ClientSchema = Schema{
		{Name: "searchTerm", Label: "Recherche", Kind: Text},
		{Name: "clientType", Label: "Type", Kind: Enum, Options: models.ClientTypeOptions()},
		{Name: "cityName", Label: "Ville", Kind: Text},
		{Name: "isActive", Label: "Actif", Kind: Bool},
		{Name: "topographeId", Label: "Topographe", Kind: Number, AdminOnly: true},
	}

	TechnicienSchema = Schema{
		{Name: "searchTerm", Label: "Recherche", Kind: Text},
		{Name: "skillLevel", Label: "Niveau", Kind: Enum, Options: models.SkillLevelOptions()},
		{Name: "isActive", Label: "Actif", Kind: Bool},
		{Name: "topographeId", Label: "Topographe", Kind: Number, AdminOnly: true},
	}

	TopographeSchema = Schema{
		{Name: "searchTerm", Label: "Recherche", Kind: Text},
		{Name: "isActive", Label: "Actif", Kind: Bool},
	}

	UserSchema = Schema{
		{Name: "searchTerm", Label: "Recherche", Kind: Text},
		{Name: "role", Label: "Rôle", Kind: Enum, Options: models.RoleOptions()},
	}

	CountrySchema = Schema{
		{Name: "name", Label: "Nom", Kind: Text},
		{Name: "code", Label: "Code", Kind: Text},
	}
)
