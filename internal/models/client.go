package models

type ClientType string

const (
	ClientIndividual ClientType = "INDIVIDUAL"
	ClientCompany    ClientType = "COMPANY"
	ClientGovernment ClientType = "GOVERNMENT"
)

var ClientTypes = []ClientType{ClientIndividual, ClientCompany, ClientGovernment}

var clientTypeMeta = map[ClientType]Meta{
	ClientIndividual: {Label: "Particulier", Badge: "info"},
	ClientCompany:    {Label: "Entreprise", Badge: "primary"},
	ClientGovernment: {Label: "Administration", Badge: "dark"},
}

func (t ClientType) Meta() Meta {
	if m, ok := clientTypeMeta[t]; ok {
		return m
	}
	return unknownMeta
}

func (t ClientType) Valid() bool {
	_, ok := clientTypeMeta[t]
	return ok
}

// RequiresCompany: company and government clients must carry a company name.
func (t ClientType) RequiresCompany() bool {
	return t == ClientCompany || t == ClientGovernment
}

func ClientTypeOptions() []Option { return options(ClientTypes, ClientType.Meta) }

type Client struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Birthday    string `json:"birthday"`
	CIN         string `json:"cin"`
	CityName    string `json:"cityName"`

	ClientType  ClientType `json:"clientType"`
	CompanyName string     `json:"companyName"`

	CreatedByTopographeID   int64  `json:"createdByTopographeId"`
	CreatedByTopographeName string `json:"createdByTopographeName"`

	IsActive bool `json:"isActive"`

	TotalProjects     int `json:"totalProjects"`
	ActiveProjects    int `json:"activeProjects"`
	CompletedProjects int `json:"completedProjects"`
}

func (c Client) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
