package mutation

import (
	"context"
	"errors"
	"strings"

	"topodash/internal/metrics"
	"topodash/internal/models"
	"topodash/internal/projectstate"
)

var (
	ErrAlreadyActive     = errors.New("this record is already active")
	ErrAlreadyInactive   = errors.New("this record is already inactive")
	ErrClientHasProjects = errors.New("cannot delete client with active projects")
	ErrTechnicienHasTask = errors.New("cannot delete technicien with assigned tasks")
)

const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionDelete     = "delete"
)

func rejected(resource, action string) {
	metrics.RecordRejectedMutation(resource, action)
}

// ConfirmationRequired is returned by a project transition that is legal but
// carries warnings the user has not confirmed yet.
type ConfirmationRequired struct {
	Action   projectstate.Action
	Warnings []string
}

func (e *ConfirmationRequired) Error() string {
	return "confirmation required: " + strings.Join(e.Warnings, "; ")
}

// IsWarning reports whether err is a pre-check that should be shown as a
// warning rather than an error.
func IsWarning(err error) bool {
	var conf *ConfirmationRequired
	return errors.Is(err, ErrAlreadyActive) || errors.Is(err, ErrAlreadyInactive) || errors.As(err, &conf)
}

// toggle applies the activate/deactivate pre-check shared by every entity
// with an isActive flag.
func toggle[T any](ctx context.Context, c *Controller[T], id int64, isActive, activate bool) (string, error) {
	action := ActionDeactivate
	if activate {
		action = ActionActivate
	}
	switch {
	case activate && isActive:
		return "", c.Reject(action, ErrAlreadyActive)
	case !activate && !isActive:
		return "", c.Reject(action, ErrAlreadyInactive)
	}
	return c.Patch(ctx, id, action)
}

type Clients struct {
	*Controller[models.Client]
}

func NewClients(api Doer, id Tokener) Clients {
	return Clients{NewController[models.Client](api, id, "client")}
}

func (c Clients) Activate(ctx context.Context, cl models.Client) (string, error) {
	return toggle(ctx, c.Controller, cl.ID, cl.IsActive, true)
}

func (c Clients) Deactivate(ctx context.Context, cl models.Client) (string, error) {
	return toggle(ctx, c.Controller, cl.ID, cl.IsActive, false)
}

func (c Clients) Remove(ctx context.Context, cl models.Client) (string, error) {
	if cl.TotalProjects > 0 {
		return "", c.Reject(ActionDelete, ErrClientHasProjects)
	}
	return c.Delete(ctx, cl.ID)
}

type Techniciens struct {
	*Controller[models.Technicien]
}

func NewTechniciens(api Doer, id Tokener) Techniciens {
	return Techniciens{NewController[models.Technicien](api, id, "technicien")}
}

func (c Techniciens) Activate(ctx context.Context, t models.Technicien) (string, error) {
	return toggle(ctx, c.Controller, t.ID, t.IsActive, true)
}

func (c Techniciens) Deactivate(ctx context.Context, t models.Technicien) (string, error) {
	return toggle(ctx, c.Controller, t.ID, t.IsActive, false)
}

func (c Techniciens) Remove(ctx context.Context, t models.Technicien) (string, error) {
	if t.TotalTasks > 0 {
		return "", c.Reject(ActionDelete, ErrTechnicienHasTask)
	}
	return c.Delete(ctx, t.ID)
}

type Topographes struct {
	*Controller[models.Topographe]
}

func NewTopographes(api Doer, id Tokener) Topographes {
	return Topographes{NewController[models.Topographe](api, id, "topographe")}
}

func (c Topographes) Activate(ctx context.Context, t models.Topographe) (string, error) {
	return toggle(ctx, c.Controller, t.ID, t.IsActive, true)
}

func (c Topographes) Deactivate(ctx context.Context, t models.Topographe) (string, error) {
	return toggle(ctx, c.Controller, t.ID, t.IsActive, false)
}

type Projects struct {
	*Controller[models.Project]
}

func NewProjects(api Doer, id Tokener) Projects {
	return Projects{NewController[models.Project](api, id, "project")}
}

// Transition checks the lifecycle rules and, unless confirmed, stops on
// soft warnings with a *ConfirmationRequired.
func (c Projects) Transition(ctx context.Context, p models.Project, action projectstate.Action, confirmed bool) (string, error) {
	warnings, err := projectstate.Check(p, action)
	if err != nil {
		return "", c.Reject(string(action), err)
	}
	if len(warnings) > 0 && !confirmed {
		return "", c.Reject(string(action), &ConfirmationRequired{Action: action, Warnings: warnings})
	}
	return c.Patch(ctx, p.ID, string(action))
}

func (c Projects) Remove(ctx context.Context, p models.Project) (string, error) {
	if !projectstate.CanDelete(p) {
		return "", c.Reject(ActionDelete, projectstate.ErrCannotDelete)
	}
	return c.Delete(ctx, p.ID)
}

// Users and countries have no pre-checks.

func NewUsers(api Doer, id Tokener) *Controller[models.User] {
	return NewController[models.User](api, id, "user")
}

func NewCountries(api Doer, id Tokener) *Controller[models.Country] {
	return NewController[models.Country](api, id, "country")
}
