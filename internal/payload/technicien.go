package payload

import "topodash/internal/models"

type TechnicienForm struct {
	Username     string `form:"username"`
	Email        string `form:"email"`
	PhoneNumber  string `form:"phoneNumber"`
	FirstName    string `form:"firstName"`
	LastName     string `form:"lastName"`
	Birthday     string `form:"birthday"`
	CIN          string `form:"cin"`
	CityName     string `form:"cityName"`
	SkillLevel   string `form:"skillLevel"`
	Specialties  string `form:"specialties"`
	TopographeID string `form:"topographeId"`
}

type TechnicienCreate struct {
	Username    string            `json:"username" validate:"required,min=3,max=50"`
	Email       string            `json:"email" validate:"required,email"`
	PhoneNumber string            `json:"phoneNumber" validate:"required,min=8,max=20"`
	FirstName   string            `json:"firstName" validate:"required,max=50"`
	LastName    string            `json:"lastName" validate:"required,max=50"`
	Birthday    string            `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CIN         string            `json:"cin,omitempty" validate:"omitempty,max=20"`
	CityName    string            `json:"cityName,omitempty" validate:"max=100"`
	SkillLevel  models.SkillLevel `json:"skillLevel" validate:"required,oneof=JUNIOR SENIOR EXPERT"`
	Specialties string            `json:"specialties,omitempty" validate:"max=500"`

	AssignedToTopographeID *int64 `json:"assignedToTopographeId,omitempty"`
}

type TechnicienUpdate struct {
	Email       string            `json:"email" validate:"required,email"`
	PhoneNumber string            `json:"phoneNumber" validate:"required,min=8,max=20"`
	FirstName   string            `json:"firstName" validate:"required,max=50"`
	LastName    string            `json:"lastName" validate:"required,max=50"`
	Birthday    string            `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CityName    string            `json:"cityName,omitempty" validate:"max=100"`
	SkillLevel  models.SkillLevel `json:"skillLevel" validate:"required,oneof=JUNIOR SENIOR EXPERT"`
	Specialties string            `json:"specialties,omitempty" validate:"max=500"`
}

func BuildTechnicienCreate(role models.UserRole, f TechnicienForm) (TechnicienCreate, error) {
	p := TechnicienCreate{
		Username:    trim(f.Username),
		Email:       trim(f.Email),
		PhoneNumber: trim(f.PhoneNumber),
		FirstName:   trim(f.FirstName),
		LastName:    trim(f.LastName),
		Birthday:    trim(f.Birthday),
		CIN:         upper(f.CIN),
		CityName:    trim(f.CityName),
		SkillLevel:  models.SkillLevel(upper(f.SkillLevel)),
		Specialties: trim(f.Specialties),
	}
	if err := Struct(p); err != nil {
		return TechnicienCreate{}, err
	}

	owner, err := assignment(role, f.TopographeID)
	if err != nil {
		return TechnicienCreate{}, err
	}
	p.AssignedToTopographeID = owner
	return p, nil
}

func BuildTechnicienUpdate(f TechnicienForm) (TechnicienUpdate, error) {
	p := TechnicienUpdate{
		Email:       trim(f.Email),
		PhoneNumber: trim(f.PhoneNumber),
		FirstName:   trim(f.FirstName),
		LastName:    trim(f.LastName),
		Birthday:    trim(f.Birthday),
		CityName:    trim(f.CityName),
		SkillLevel:  models.SkillLevel(upper(f.SkillLevel)),
		Specialties: trim(f.Specialties),
	}
	if err := Struct(p); err != nil {
		return TechnicienUpdate{}, err
	}
	return p, nil
}

func TechnicienFormFrom(t models.Technicien) TechnicienForm {
	return TechnicienForm{
		Username:    t.Username,
		Email:       t.Email,
		PhoneNumber: t.PhoneNumber,
		FirstName:   t.FirstName,
		LastName:    t.LastName,
		Birthday:    t.Birthday,
		CIN:         t.CIN,
		CityName:    t.CityName,
		SkillLevel:  string(t.SkillLevel),
		Specialties: t.Specialties,
	}
}
