package models

type SkillLevel string

const (
	SkillJunior SkillLevel = "JUNIOR"
	SkillSenior SkillLevel = "SENIOR"
	SkillExpert SkillLevel = "EXPERT"
)

var SkillLevels = []SkillLevel{SkillJunior, SkillSenior, SkillExpert}

var skillLevelMeta = map[SkillLevel]Meta{
	SkillJunior: {Label: "Junior", Badge: "info"},
	SkillSenior: {Label: "Senior", Badge: "primary"},
	SkillExpert: {Label: "Expert", Badge: "success"},
}

func (s SkillLevel) Meta() Meta {
	if m, ok := skillLevelMeta[s]; ok {
		return m
	}
	return unknownMeta
}

func (s SkillLevel) Valid() bool {
	_, ok := skillLevelMeta[s]
	return ok
}

func SkillLevelOptions() []Option { return options(SkillLevels, SkillLevel.Meta) }

type Technicien struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Birthday    string `json:"birthday"`
	CIN         string `json:"cin"`
	CityName    string `json:"cityName"`

	SkillLevel  SkillLevel `json:"skillLevel"`
	Specialties string     `json:"specialties"`

	AssignedToTopographeID   int64  `json:"assignedToTopographeId"`
	AssignedToTopographeName string `json:"assignedToTopographeName"`

	IsActive bool `json:"isActive"`

	TotalTasks      int `json:"totalTasks"`
	TodoTasks       int `json:"todoTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
}

func (t Technicien) FullName() string {
	return joinName(t.FirstName, t.LastName)
}
