// Package projectstate holds the project lifecycle rules checked before any
// status change is sent to the backend.
//
//	PLANNING    -> IN_PROGRESS (start), ON_HOLD (hold)
//	IN_PROGRESS -> COMPLETED (complete), ON_HOLD (hold)
//	ON_HOLD     -> IN_PROGRESS (start)
//	any non-terminal state -> CANCELLED (cancel)
//
// COMPLETED and CANCELLED are terminal.
package projectstate

import (
	"errors"
	"fmt"

	"topodash/internal/models"
)

type Action string

const (
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionHold     Action = "hold"
	ActionCancel   Action = "cancel"
)

var Actions = []Action{ActionStart, ActionComplete, ActionHold, ActionCancel}

type rule struct {
	from    []models.ProjectStatus
	to      models.ProjectStatus
	illegal string
}

var rules = map[Action]rule{
	ActionStart: {
		from:    []models.ProjectStatus{models.StatusPlanning, models.StatusOnHold},
		to:      models.StatusInProgress,
		illegal: "cannot start from current state",
	},
	ActionComplete: {
		from:    []models.ProjectStatus{models.StatusInProgress},
		to:      models.StatusCompleted,
		illegal: "only in-progress projects can be completed",
	},
	ActionHold: {
		from:    []models.ProjectStatus{models.StatusPlanning, models.StatusInProgress},
		to:      models.StatusOnHold,
		illegal: "cannot be put on hold",
	},
	ActionCancel: {
		from:    []models.ProjectStatus{models.StatusPlanning, models.StatusInProgress, models.StatusOnHold},
		to:      models.StatusCancelled,
		illegal: "a completed project cannot be cancelled",
	},
}

var actionLabels = map[Action]string{
	ActionStart:    "Démarrer",
	ActionComplete: "Terminer",
	ActionHold:     "Mettre en pause",
	ActionCancel:   "Annuler",
}

func (a Action) Valid() bool {
	_, ok := rules[a]
	return ok
}

func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// TransitionError is returned when an action is not legal from the current status.
type TransitionError struct {
	Action Action
	From   models.ProjectStatus
	Reason string
}

func (e *TransitionError) Error() string { return e.Reason }

// ErrCannotDelete: projects with tasks can only be removed once cancelled.
var ErrCannotDelete = errors.New("a project with tasks can only be deleted once cancelled")

// CanPerform reports whether action is legal from status.
func CanPerform(status models.ProjectStatus, action Action) bool {
	r, ok := rules[action]
	if !ok {
		return false
	}
	for _, s := range r.from {
		if s == status {
			return true
		}
	}
	return false
}

// Next returns the status a legal action leads to.
func Next(status models.ProjectStatus, action Action) (models.ProjectStatus, error) {
	if err := legal(status, action); err != nil {
		return status, err
	}
	return rules[action].to, nil
}

// Available lists the actions legal from status, in display order.
func Available(status models.ProjectStatus) []Action {
	var out []Action
	for _, a := range Actions {
		if CanPerform(status, a) {
			out = append(out, a)
		}
	}
	return out
}

func legal(status models.ProjectStatus, action Action) error {
	r, ok := rules[action]
	if !ok {
		return &TransitionError{Action: action, From: status, Reason: fmt.Sprintf("unknown action %q", action)}
	}
	if !CanPerform(status, action) {
		return &TransitionError{Action: action, From: status, Reason: r.illegal}
	}
	return nil
}

// Check validates action against p. A non-nil error blocks the call;
// warnings do not, but must be confirmed by the user first.
func Check(p models.Project, action Action) (warnings []string, err error) {
	if err := legal(p.Status, action); err != nil {
		return nil, err
	}
	done := Completion(p)
	switch action {
	case ActionComplete:
		if done < 100 {
			warnings = append(warnings, fmt.Sprintf(
				"project is only %.0f%% complete; completing it will close the remaining tasks",
				done))
		}
	case ActionCancel:
		if done > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"project is already %.0f%% complete; cancelling it discards that progress",
				done))
		}
	}
	return warnings, nil
}

var ErrClosed = errors.New("a completed or cancelled project can no longer be edited")

// CanEdit: only projects that are not completed or cancelled accept updates.
func CanEdit(p models.Project) bool {
	return !p.Status.Terminal()
}

// CanDelete: a project may be deleted when it has no tasks or is cancelled.
func CanDelete(p models.Project) bool {
	return p.TotalTasks == 0 || p.Status == models.StatusCancelled
}

// Completion is the backend's progressPercentage, or the task ratio when the
// backend sent none.
func Completion(p models.Project) float64 {
	if p.ProgressPercentage > 0 || p.TotalTasks == 0 {
		return p.ProgressPercentage
	}
	return Progress(p.CompletedTasks, p.TotalTasks)
}

// Progress is completed/total as a percentage, 0 when there are no tasks.
func Progress(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
