package models

type Topographe struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	CityName       string `json:"cityName"`
	LicenseNumber  string `json:"licenseNumber"`
	Specialization string `json:"specialization"`
	IsActive       bool   `json:"isActive"`

	TotalClients     int `json:"totalClients"`
	TotalProjects    int `json:"totalProjects"`
	TotalTechniciens int `json:"totalTechniciens"`
}

func (t Topographe) FullName() string {
	return joinName(t.FirstName, t.LastName)
}
