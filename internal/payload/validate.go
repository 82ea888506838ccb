package payload

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"topodash/internal/models"
)

const dateLayout = "2006-01-02"

var (
	ErrAssignmentRequired = errors.New("a topographe must be selected")
	ErrRoleNotAllowed     = errors.New("your role cannot create this record")
)

// ValidationErrors maps a payload field (its JSON name) to a message
// shown next to the form input.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(clientCompanyRule, ClientCreate{}, ClientUpdate{})
	v.RegisterStructValidation(projectDatesRule, ProjectCreate{}, ProjectUpdate{})
	return v
}

func clientCompanyRule(sl validator.StructLevel) {
	var t models.ClientType
	var company string
	switch c := sl.Current().Interface().(type) {
	case ClientCreate:
		t, company = c.ClientType, c.CompanyName
	case ClientUpdate:
		t, company = c.ClientType, c.CompanyName
	}
	if t.RequiresCompany() && strings.TrimSpace(company) == "" {
		sl.ReportError(company, "companyName", "CompanyName", "company_required", "")
	}
}

func projectDatesRule(sl validator.StructLevel) {
	var start, end string
	switch p := sl.Current().Interface().(type) {
	case ProjectCreate:
		start, end = p.StartDate, p.EndDate
	case ProjectUpdate:
		start, end = p.StartDate, p.EndDate
	}
	if start == "" || end == "" {
		return
	}
	s, err1 := time.Parse(dateLayout, start)
	e, err2 := time.Parse(dateLayout, end)
	if err1 == nil && err2 == nil && e.Before(s) {
		sl.ReportError(end, "endDate", "EndDate", "after_start", "")
	}
}

// Struct runs the tag and struct-level rules and converts failures to
// per-field messages.
func Struct(p any) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	case "numeric":
		return "must contain digits only"
	case "alpha", "uppercase":
		return "must be upper-case letters"
	case "gt":
		return "must be selected"
	case "company_required":
		return "company name is required for companies and government clients"
	case "after_start":
		return "end date must not be before start date"
	default:
		return "is invalid"
	}
}
