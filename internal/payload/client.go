package payload

import "topodash/internal/models"

type ClientForm struct {
	Username     string `form:"username"`
	Email        string `form:"email"`
	PhoneNumber  string `form:"phoneNumber"`
	FirstName    string `form:"firstName"`
	LastName     string `form:"lastName"`
	Birthday     string `form:"birthday"`
	CIN          string `form:"cin"`
	CityName     string `form:"cityName"`
	ClientType   string `form:"clientType"`
	CompanyName  string `form:"companyName"`
	TopographeID string `form:"topographeId"`
}

type ClientCreate struct {
	Username    string            `json:"username" validate:"required,min=3,max=50"`
	Email       string            `json:"email" validate:"required,email"`
	PhoneNumber string            `json:"phoneNumber" validate:"required,min=8,max=20"`
	FirstName   string            `json:"firstName" validate:"required,max=50"`
	LastName    string            `json:"lastName" validate:"required,max=50"`
	Birthday    string            `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CIN         string            `json:"cin,omitempty" validate:"omitempty,max=20"`
	CityName    string            `json:"cityName,omitempty" validate:"max=100"`
	ClientType  models.ClientType `json:"clientType" validate:"required,oneof=INDIVIDUAL COMPANY GOVERNMENT"`
	CompanyName string            `json:"companyName,omitempty" validate:"max=100"`

	CreatedByTopographeID *int64 `json:"createdByTopographeId,omitempty"`
}

// ClientUpdate leaves out username and CIN, which cannot change.
type ClientUpdate struct {
	Email       string            `json:"email" validate:"required,email"`
	PhoneNumber string            `json:"phoneNumber" validate:"required,min=8,max=20"`
	FirstName   string            `json:"firstName" validate:"required,max=50"`
	LastName    string            `json:"lastName" validate:"required,max=50"`
	Birthday    string            `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CityName    string            `json:"cityName,omitempty" validate:"max=100"`
	ClientType  models.ClientType `json:"clientType" validate:"required,oneof=INDIVIDUAL COMPANY GOVERNMENT"`
	CompanyName string            `json:"companyName,omitempty" validate:"max=100"`
}

func BuildClientCreate(role models.UserRole, f ClientForm) (ClientCreate, error) {
	p := ClientCreate{
		Username:    trim(f.Username),
		Email:       trim(f.Email),
		PhoneNumber: trim(f.PhoneNumber),
		FirstName:   trim(f.FirstName),
		LastName:    trim(f.LastName),
		Birthday:    trim(f.Birthday),
		CIN:         upper(f.CIN),
		CityName:    trim(f.CityName),
		ClientType:  models.ClientType(upper(f.ClientType)),
		CompanyName: trim(f.CompanyName),
	}
	if !p.ClientType.RequiresCompany() {
		p.CompanyName = ""
	}
	if err := Struct(p); err != nil {
		return ClientCreate{}, err
	}

	owner, err := assignment(role, f.TopographeID)
	if err != nil {
		return ClientCreate{}, err
	}
	p.CreatedByTopographeID = owner
	return p, nil
}

func BuildClientUpdate(f ClientForm) (ClientUpdate, error) {
	p := ClientUpdate{
		Email:       trim(f.Email),
		PhoneNumber: trim(f.PhoneNumber),
		FirstName:   trim(f.FirstName),
		LastName:    trim(f.LastName),
		Birthday:    trim(f.Birthday),
		CityName:    trim(f.CityName),
		ClientType:  models.ClientType(upper(f.ClientType)),
		CompanyName: trim(f.CompanyName),
	}
	if !p.ClientType.RequiresCompany() {
		p.CompanyName = ""
	}
	if err := Struct(p); err != nil {
		return ClientUpdate{}, err
	}
	return p, nil
}

// ClientFormFrom pre-fills the edit form.
func ClientFormFrom(c models.Client) ClientForm {
	return ClientForm{
		Username:    c.Username,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Birthday:    c.Birthday,
		CIN:         c.CIN,
		CityName:    c.CityName,
		ClientType:  string(c.ClientType),
		CompanyName: c.CompanyName,
	}
}
