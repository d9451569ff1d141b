package domain

import (
	"fmt"
	"strings"
)

type RentalStatus string

const (
	RentalStatusReserved  RentalStatus = "RESERVED"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusOverdue   RentalStatus = "OVERDUE"
	RentalStatusFinalized RentalStatus = "FINALIZED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// AllRentalStatuses in lifecycle order
var AllRentalStatuses = []RentalStatus{
	RentalStatusReserved,
	RentalStatusActive,
	RentalStatusOverdue,
	RentalStatusFinalized,
	RentalStatusCancelled,
}

// OpenRentalStatuses are the states that still hold the vehicle for their window
var OpenRentalStatuses = []RentalStatus{
	RentalStatusReserved,
	RentalStatusActive,
	RentalStatusOverdue,
}

type RentalAction string

const (
	ActionStart    RentalAction = "start"
	ActionComplete RentalAction = "complete"
	ActionCancel   RentalAction = "cancel"
	ActionDelete   RentalAction = "delete"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityPositive Severity = "positive"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeverityNeutral  Severity = "neutral"
)

// StatusPresentation is the label and visual severity every renderer uses
type StatusPresentation struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// rentalStatusTable is the only place status labels and severities are defined
var rentalStatusTable = map[RentalStatus]StatusPresentation{
	RentalStatusReserved:  {Label: "Reservado", Severity: SeverityInfo},
	RentalStatusActive:    {Label: "Activo", Severity: SeverityPositive},
	RentalStatusOverdue:   {Label: "Atrasado", Severity: SeverityWarning},
	RentalStatusFinalized: {Label: "Finalizado", Severity: SeverityNeutral},
	RentalStatusCancelled: {Label: "Cancelado", Severity: SeverityCritical},
}

// rentalTransitions holds every user-triggerable transition.
// ACTIVE -> OVERDUE happens on the server only and is deliberately absent.
var rentalTransitions = map[RentalStatus]map[RentalAction]RentalStatus{
	RentalStatusReserved: {
		ActionStart:  RentalStatusActive,
		ActionCancel: RentalStatusCancelled,
	},
	RentalStatusActive: {
		ActionComplete: RentalStatusFinalized,
	},
	RentalStatusOverdue: {
		ActionComplete: RentalStatusFinalized,
	},
	RentalStatusFinalized: {},
	RentalStatusCancelled: {},
}

// actionOrder fixes the order actions are offered in
var actionOrder = []RentalAction{ActionStart, ActionComplete, ActionCancel}

// actionRoles is the minimum role for each action
var actionRoles = map[RentalAction]Role{
	ActionStart:    RoleEmployee,
	ActionComplete: RoleEmployee,
	ActionCancel:   RoleClient,
	ActionDelete:   RoleAdmin,
}

func ParseRentalStatus(s string) (RentalStatus, error) {
	st := RentalStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := rentalStatusTable[st]; !ok {
		return "", fmt.Errorf("unknown rental status: %q", s)
	}
	return st, nil
}

func ParseRentalAction(s string) (RentalAction, error) {
	a := RentalAction(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := actionRoles[a]; !ok {
		return "", fmt.Errorf("unknown rental action: %q", s)
	}
	return a, nil
}

func (s RentalStatus) Valid() bool {
	_, ok := rentalStatusTable[s]
	return ok
}

// Terminal reports whether no further transition is possible
func (s RentalStatus) Terminal() bool {
	return s == RentalStatusFinalized || s == RentalStatusCancelled
}

// PresentationOf returns the status's label and severity; unknown codes render as neutral
func PresentationOf(s RentalStatus) StatusPresentation {
	if p, ok := rentalStatusTable[s]; ok {
		return p
	}
	return StatusPresentation{Label: string(s), Severity: SeverityNeutral}
}

// StatusTable returns a copy of the presentation table
func StatusTable() map[RentalStatus]StatusPresentation {
	out := make(map[RentalStatus]StatusPresentation, len(rentalStatusTable))
	for k, v := range rentalStatusTable {
		out[k] = v
	}
	return out
}

// Transition returns the state reached by applying action to from
func Transition(from RentalStatus, action RentalAction) (RentalStatus, error) {
	to, ok := rentalTransitions[from][action]
	if !ok {
		return "", NewInvalidTransitionError(fmt.Sprintf("cannot %s a rental in state %s", action, from))
	}
	return to, nil
}

// TransitionActions is the action set derived from the current state alone
func TransitionActions(s RentalStatus) []RentalAction {
	allowed := rentalTransitions[s]
	actions := make([]RentalAction, 0, len(allowed))
	for _, a := range actionOrder {
		if _, ok := allowed[a]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// TransitionSources lists the states from which action is valid
func TransitionSources(action RentalAction) []RentalStatus {
	var out []RentalStatus
	for _, s := range AllRentalStatuses {
		if _, ok := rentalTransitions[s][action]; ok {
			out = append(out, s)
		}
	}
	return out
}

func CanStart(s RentalStatus) bool {
	_, ok := rentalTransitions[s][ActionStart]
	return ok
}

func CanComplete(s RentalStatus) bool {
	_, ok := rentalTransitions[s][ActionComplete]
	return ok
}

func CanCancel(s RentalStatus) bool {
	_, ok := rentalTransitions[s][ActionCancel]
	return ok
}

// RequiredRole is the minimum role allowed to invoke action
func (a RentalAction) RequiredRole() Role {
	if r, ok := actionRoles[a]; ok {
		return r
	}
	return RoleAdmin
}

// CanPerform combines the gate and the transition predicate for one action.
// Delete is independent of state and only needs the admin role.
func CanPerform(s RentalStatus, action RentalAction, session *Session) error {
	if err := session.Require(action.RequiredRole()); err != nil {
		return err
	}
	if action == ActionDelete {
		return nil
	}
	_, err := Transition(s, action)
	return err
}

// AvailableActions is the action set a caller is offered for a rental in state s
func AvailableActions(s RentalStatus, session *Session) []RentalAction {
	var out []RentalAction
	for _, a := range TransitionActions(s) {
		if session.HasPermission(a.RequiredRole()) {
			out = append(out, a)
		}
	}
	if session.HasPermission(ActionDelete.RequiredRole()) {
		out = append(out, ActionDelete)
	}
	if out == nil {
		out = []RentalAction{}
	}
	return out
}
