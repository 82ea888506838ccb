package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDomains(t *testing.T) {
	in := Filters{
		"searchTerm":   "  dupont ",
		"clientType":   "company",
		"cityName":     "   ",
		"isActive":     "1",
		"topographeId": "abc",
		"unknown":      "x",
	}

	out := ClientSchema.Validate(in, true)

	assert.Equal(t, Filters{
		"searchTerm": "dupont",
		"clientType": "COMPANY",
		"isActive":   "true",
	}, out)
}

func TestValidateRejectsUnknownEnum(t *testing.T) {
	out := ProjectSchema.Validate(Filters{"status": "ARCHIVED"}, true)
	assert.Empty(t, out)
}

func TestValidateNumbers(t *testing.T) {
	assert.Equal(t, Filters{"clientId": "12"}, ProjectSchema.Validate(Filters{"clientId": "012"}, true))
	assert.Empty(t, ProjectSchema.Validate(Filters{"clientId": "-3"}, true))
	assert.Empty(t, ProjectSchema.Validate(Filters{"clientId": "0"}, true))
}

func TestValidateAdminOnly(t *testing.T) {
	in := Filters{"topographeId": "5"}
	assert.Empty(t, TechnicienSchema.Validate(in, false))
	assert.Equal(t, in, TechnicienSchema.Validate(in, true))
}

func TestFromQuery(t *testing.T) {
	q := url.Values{"name": {"Maroc"}, "page": {"2"}, "code": {""}}
	assert.Equal(t, Filters{"name": "Maroc"}, CountrySchema.FromQuery(q))
}

func TestActive(t *testing.T) {
	assert.False(t, Filters{}.Active())
	assert.False(t, Filters{"name": ""}.Active())
	assert.True(t, Filters{"name": "x"}.Active())
	var nilFilters Filters
	assert.False(t, nilFilters.Active())
}

func TestFiltersEqual(t *testing.T) {
	assert.True(t, Filters{}.Equal(nil))
	assert.True(t, Filters{"name": ""}.Equal(Filters{}))
	assert.True(t, Filters{"name": "a", "status": "PLANNING"}.Equal(Filters{"status": "PLANNING", "name": "a"}))
	assert.False(t, Filters{"name": "a"}.Equal(Filters{"name": "b"}))
	assert.False(t, Filters{"name": "a"}.Equal(Filters{}))
	assert.False(t, Filters{}.Equal(Filters{"name": "a"}))
}
