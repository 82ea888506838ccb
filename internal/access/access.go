package access

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"topodash/internal/models"
)

//go:embed routes.yaml
var defaultRoutes []byte

// Table maps a top-level route section ("clients", "users", ...) to the
// roles allowed on it.
type Table struct {
	routes map[string][]models.UserRole
}

type tableFile struct {
	Routes map[string][]string `yaml:"routes"`
}

// Default is the table shipped with the binary.
func Default() *Table {
	t, err := Parse(defaultRoutes)
	if err != nil {
		panic(fmt.Sprintf("embedded routes.yaml is invalid: %v", err))
	}
	return t
}

func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse route table: %w", err)
	}

	t := &Table{routes: make(map[string][]models.UserRole, len(f.Routes))}
	for section, roles := range f.Routes {
		list := make([]models.UserRole, 0, len(roles))
		for _, r := range roles {
			role := models.UserRole(strings.ToUpper(strings.TrimSpace(r)))
			if !role.Valid() {
				return nil, fmt.Errorf("route %q: unknown role %q", section, r)
			}
			list = append(list, role)
		}
		t.routes[section] = list
	}
	return t, nil
}

// Roles returns the roles allowed on section; nil means any signed-in user.
func (t *Table) Roles(section string) []models.UserRole {
	return t.routes[section]
}

// Allows reports whether role may open section.
func (t *Table) Allows(section string, role models.UserRole) bool {
	roles := t.routes[section]
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// SectionOf returns the first segment of a dashboard path: "/clients/4" -> "clients".
func SectionOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
