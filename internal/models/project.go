package models

type ProjectStatus string
type HealthStatus string

const (
	StatusPlanning   ProjectStatus = "PLANNING"
	StatusInProgress ProjectStatus = "IN_PROGRESS"
	StatusOnHold     ProjectStatus = "ON_HOLD"
	StatusCompleted  ProjectStatus = "COMPLETED"
	StatusCancelled  ProjectStatus = "CANCELLED"

	HealthGood     HealthStatus = "GOOD"
	HealthWarning  HealthStatus = "WARNING"
	HealthCritical HealthStatus = "CRITICAL"
)

var ProjectStatuses = []ProjectStatus{
	StatusPlanning, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled,
}

var projectStatusMeta = map[ProjectStatus]Meta{
	StatusPlanning:   {Label: "Planification", Badge: "secondary"},
	StatusInProgress: {Label: "En cours", Badge: "primary"},
	StatusOnHold:     {Label: "En pause", Badge: "warning"},
	StatusCompleted:  {Label: "Terminé", Badge: "success"},
	StatusCancelled:  {Label: "Annulé", Badge: "danger"},
}

var healthMeta = map[HealthStatus]Meta{
	HealthGood:     {Label: "Bon", Badge: "success"},
	HealthWarning:  {Label: "Attention", Badge: "warning"},
	HealthCritical: {Label: "Critique", Badge: "danger"},
}

func (s ProjectStatus) Meta() Meta {
	if m, ok := projectStatusMeta[s]; ok {
		return m
	}
	return unknownMeta
}

func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusMeta[s]
	return ok
}

// Terminal reports whether no further transition is accepted.
func (s ProjectStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ProjectStatusOptions() []Option { return options(ProjectStatuses, ProjectStatus.Meta) }

func (h HealthStatus) Meta() Meta {
	if m, ok := healthMeta[h]; ok {
		return m
	}
	return unknownMeta
}

// Project mirrors the backend's project DTO. Progress, time and health
// fields are computed server side and only ever replaced by a re-fetch.
type Project struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	StartDate   string        `json:"startDate"`
	EndDate     string        `json:"endDate"`

	ClientID          int64  `json:"clientId"`
	ClientName        string `json:"clientName"`
	ClientCompanyName string `json:"clientCompanyName"`

	TopographeID            int64  `json:"topographeId"`
	TopographeName          string `json:"topographeName"`
	TopographeLicenseNumber string `json:"topographeLicenseNumber"`

	TotalTasks      int `json:"totalTasks"`
	TodoTasks       int `json:"todoTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	ReviewTasks     int `json:"reviewTasks"`
	CompletedTasks  int `json:"completedTasks"`

	ProgressPercentage         float64 `json:"progressPercentage"`
	WeightedProgressPercentage float64 `json:"weightedProgressPercentage"`
	DaysRemaining              int     `json:"daysRemaining"`
	IsOverdue                  bool    `json:"isOverdue"`
	TimeProgressPercentage     float64 `json:"timeProgressPercentage"`

	AssignedTechniciensCount int      `json:"assignedTechniciensCount"`
	AssignedTechniciensNames []string `json:"assignedTechniciensNames"`

	HealthStatus  HealthStatus `json:"healthStatus"`
	HealthMessage string       `json:"healthMessage"`
}
