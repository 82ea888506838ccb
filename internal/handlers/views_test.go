package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topodash/internal/access"
	"topodash/internal/listing"
	"topodash/internal/models"
	"topodash/internal/payload"
)

func TestPageLinksWindow(t *testing.T) {
	links := pageLinks("/projects", nil, listing.Pagination{PageNumber: 0, PageSize: 5, TotalPages: 3})
	require.Len(t, links, 5)

	assert.True(t, links[0].Disabled)
	assert.Equal(t, "1", links[1].Label)
	assert.True(t, links[1].Active)
	assert.Equal(t, "/projects?page=2&size=5", links[3].URL)
	assert.Equal(t, "/projects?page=1&size=5", links[4].URL)
	assert.False(t, links[4].Disabled)

	links = pageLinks("/projects", nil, listing.Pagination{PageNumber: 7, PageSize: 10, TotalPages: 8})
	assert.Equal(t, "6", links[1].Label)
	assert.True(t, links[len(links)-1].Disabled)

	assert.Nil(t, pageLinks("/projects", nil, listing.Pagination{TotalPages: 1}))
}

func TestPageLinksKeepFilters(t *testing.T) {
	links := pageLinks("/clients", listing.Filters{"clientType": "COMPANY"}, listing.Pagination{PageSize: 10, TotalPages: 2})
	assert.Contains(t, links[2].URL, "clientType=COMPANY")
}

func TestFormErrors(t *testing.T) {
	fields, general := formErrors(payload.ValidationErrors{"name": "required"})
	assert.Equal(t, "required", fields["name"])
	assert.NotEmpty(t, general)

	fields, general = formErrors(payload.ErrAssignmentRequired)
	assert.Contains(t, fields, "topographeId")
	assert.Empty(t, general)

	fields, general = formErrors(errors.New("Server error, please try again later"))
	assert.Nil(t, fields)
	assert.Equal(t, "Server error, please try again later", general)

	fields, general = formErrors(nil)
	assert.Nil(t, fields)
	assert.Empty(t, general)
}

func TestNavForRole(t *testing.T) {
	h := New(Options{Routes: access.Default()})

	sections := func(role models.UserRole) []string {
		var out []string
		for _, l := range h.navFor(role) {
			out = append(out, l.Section)
		}
		return out
	}

	assert.Contains(t, sections(models.RoleAdmin), "users")
	assert.Contains(t, sections(models.RoleAdmin), "audit")
	assert.NotContains(t, sections(models.RoleTopographe), "users")
	assert.NotContains(t, sections(models.RoleTopographe), "topographes")
	assert.Contains(t, sections(models.RoleTopographe), "clients")
	assert.Equal(t, []string{"", "projects", "documentation"}, sections(models.RoleTechnicien))
}

func TestNeedsAssignment(t *testing.T) {
	assert.True(t, needsAssignment(models.RoleAdmin))
	assert.True(t, needsAssignment(models.RoleManager))
	assert.False(t, needsAssignment(models.RoleTopographe))
	assert.False(t, needsAssignment(models.RoleUser))
}
