package payload

import (
	"strconv"

	"topodash/internal/models"
)

type ProjectForm struct {
	Name         string `form:"name"`
	Description  string `form:"description"`
	StartDate    string `form:"startDate"`
	EndDate      string `form:"endDate"`
	ClientID     string `form:"clientId"`
	TopographeID string `form:"topographeId"`
}

type ProjectCreate struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
	ClientID    int64  `json:"clientId" validate:"gt=0"`

	TopographeID *int64 `json:"topographeId,omitempty"`
}

// ProjectUpdate never carries status: that only moves through the lifecycle endpoints.
type ProjectUpdate struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
	ClientID    int64  `json:"clientId" validate:"gt=0"`
}

func BuildProjectCreate(role models.UserRole, f ProjectForm) (ProjectCreate, error) {
	p := ProjectCreate{
		Name:        trim(f.Name),
		Description: trim(f.Description),
		StartDate:   trim(f.StartDate),
		EndDate:     trim(f.EndDate),
		ClientID:    parseID(f.ClientID),
	}
	if err := Struct(p); err != nil {
		return ProjectCreate{}, err
	}

	owner, err := assignment(role, f.TopographeID)
	if err != nil {
		return ProjectCreate{}, err
	}
	p.TopographeID = owner
	return p, nil
}

func BuildProjectUpdate(f ProjectForm) (ProjectUpdate, error) {
	p := ProjectUpdate{
		Name:        trim(f.Name),
		Description: trim(f.Description),
		StartDate:   trim(f.StartDate),
		EndDate:     trim(f.EndDate),
		ClientID:    parseID(f.ClientID),
	}
	if err := Struct(p); err != nil {
		return ProjectUpdate{}, err
	}
	return p, nil
}

func ProjectFormFrom(p models.Project) ProjectForm {
	return ProjectForm{
		Name:         p.Name,
		Description:  p.Description,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		ClientID:     strconv.FormatInt(p.ClientID, 10),
		TopographeID: strconv.FormatInt(p.TopographeID, 10),
	}
}
