package payload

import "topodash/internal/models"

type UserForm struct {
	Username    string `form:"username"`
	Email       string `form:"email"`
	PhoneNumber string `form:"phoneNumber"`
	Password    string `form:"password"`
	Role        string `form:"role"`
}

type UserCreate struct {
	Username    string          `json:"username" validate:"required,min=3,max=50"`
	Email       string          `json:"email" validate:"required,email"`
	PhoneNumber string          `json:"phoneNumber,omitempty" validate:"omitempty,min=8,max=20"`
	Password    string          `json:"password" validate:"required,min=6,max=100"`
	Role        models.UserRole `json:"role" validate:"required,oneof=ADMIN TOPOGRAPHE MANAGER TECHNICIEN USER"`
}

type UserUpdate struct {
	Email       string          `json:"email" validate:"required,email"`
	PhoneNumber string          `json:"phoneNumber,omitempty" validate:"omitempty,min=8,max=20"`
	Role        models.UserRole `json:"role" validate:"required,oneof=ADMIN TOPOGRAPHE MANAGER TECHNICIEN USER"`
}

func BuildUserCreate(f UserForm) (UserCreate, error) {
	p := UserCreate{
		Username:    trim(f.Username),
		Email:       trim(f.Email),
		PhoneNumber: trim(f.PhoneNumber),
		Password:    f.Password,
		Role:        models.UserRole(upper(f.Role)),
	}
	if err := Struct(p); err != nil {
		return UserCreate{}, err
	}
	return p, nil
}

func BuildUserUpdate(f UserForm) (UserUpdate, error) {
	p := UserUpdate{
		Email:       trim(f.Email),
		PhoneNumber: trim(f.PhoneNumber),
		Role:        models.UserRole(upper(f.Role)),
	}
	if err := Struct(p); err != nil {
		return UserUpdate{}, err
	}
	return p, nil
}

func UserFormFrom(u models.User) UserForm {
	return UserForm{
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
	}
}

type CountryForm struct {
	Name string `form:"name"`
	Code string `form:"code"`
}

type CountryPayload struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Code string `json:"code" validate:"required,min=2,max=3,alpha,uppercase"`
}

func BuildCountry(f CountryForm) (CountryPayload, error) {
	p := CountryPayload{Name: trim(f.Name), Code: upper(f.Code)}
	if err := Struct(p); err != nil {
		return CountryPayload{}, err
	}
	return p, nil
}

func CountryFormFrom(c models.Country) CountryForm {
	return CountryForm{Name: c.Name, Code: c.Code}
}

// Auth forms. These go to the public endpoints.

type SignInForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type SignUpForm struct {
	Username    string `form:"username" json:"username" validate:"required,min=3,max=50"`
	Email       string `form:"email" json:"email" validate:"required,email"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber,omitempty" validate:"omitempty,min=8,max=20"`
	Password    string `form:"password" json:"password" validate:"required,min=6,max=100"`
}

type ForgetPasswordForm struct {
	Email string `form:"email" json:"email" validate:"required,email"`
}

func CleanSignIn(f SignInForm) (SignInForm, error) {
	f.Username = trim(f.Username)
	return f, Struct(f)
}

func CleanSignUp(f SignUpForm) (SignUpForm, error) {
	f.Username = trim(f.Username)
	f.Email = trim(f.Email)
	f.PhoneNumber = trim(f.PhoneNumber)
	return f, Struct(f)
}

func CleanForgetPassword(f ForgetPasswordForm) (ForgetPasswordForm, error) {
	f.Email = trim(f.Email)
	return f, Struct(f)
}
