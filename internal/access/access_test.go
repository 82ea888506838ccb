package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topodash/internal/models"
)

func TestDefaultTable(t *testing.T) {
	table := Default()

	assert.True(t, table.Allows("users", models.RoleAdmin))
	assert.False(t, table.Allows("users", models.RoleTopographe))
	assert.False(t, table.Allows("users", models.RoleManager))

	for _, section := range []string{"clients", "collaborateurs"} {
		assert.True(t, table.Allows(section, models.RoleAdmin))
		assert.True(t, table.Allows(section, models.RoleTopographe))
		assert.True(t, table.Allows(section, models.RoleManager))
		assert.False(t, table.Allows(section, models.RoleTechnicien))
	}

	assert.True(t, table.Allows("projects", models.RoleTechnicien))
	assert.True(t, table.Allows("documentation", models.RoleUser))
	assert.Nil(t, table.Roles("documentation"))
}

func TestParseRejectsUnknownRole(t *testing.T) {
	_, err := Parse([]byte("routes:\n  users: [ROOT]\n"))
	assert.Error(t, err)
}

func TestParseNormalizesCase(t *testing.T) {
	table, err := Parse([]byte("routes:\n  countries: [admin, ' manager ']\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.UserRole{models.RoleAdmin, models.RoleManager}, table.Roles("countries"))
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("routes: [unclosed"))
	assert.Error(t, err)
}

func TestSectionOf(t *testing.T) {
	assert.Equal(t, "clients", SectionOf("/clients/12"))
	assert.Equal(t, "users", SectionOf("/users"))
	assert.Equal(t, "", SectionOf("/"))
}
