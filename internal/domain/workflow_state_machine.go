package domain

import (
	"sort"

	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	appErrors "github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
)

// WorkflowStateMachine enforces valid status transitions for records.
// The transition table is partitioned by chain length, so a 1-level record can
// never reach a level-specific status and vice versa.
type WorkflowStateMachine struct {
	// transitions maps (levels, current status, action) -> next status
	transitions map[stateTransitionKey]constants.Status
	allowed     map[int][]constants.Status
}

type stateTransitionKey struct {
	levels int
	status constants.Status
	action constants.Action
}

// NewWorkflowStateMachine creates a state machine with the approval lifecycle rules.
// State diagram (2 levels):
//
//	[WAITING_L1] ──approve──► [WAITING_L2] ──approve──► [APPROVED]
//	     │                          │
//	   reject                     reject
//	     ▼                          ▼
//	[REJECTED_L1]              [REJECTED_L2]
//
//	1 level: [WAITING] ──approve──► [APPROVED], ──reject──► [REJECTED]
//	Every waiting status can move to [CANCELLED] via cancel.
func NewWorkflowStateMachine() *WorkflowStateMachine {
	sm := &WorkflowStateMachine{
		transitions: make(map[stateTransitionKey]constants.Status),
		allowed: map[int][]constants.Status{
			constants.LevelsSingle: {
				constants.StatusWaiting,
				constants.StatusApproved,
				constants.StatusRejected,
				constants.StatusCancelled,
			},
			constants.LevelsDouble: {
				constants.StatusWaitingL1,
				constants.StatusWaitingL2,
				constants.StatusApproved,
				constants.StatusRejectedL1,
				constants.StatusRejectedL2,
				constants.StatusCancelled,
			},
		},
	}

	single := constants.LevelsSingle
	sm.addTransition(single, constants.StatusWaiting, constants.ActionApprove, constants.StatusApproved)
	sm.addTransition(single, constants.StatusWaiting, constants.ActionReject, constants.StatusRejected)
	sm.addTransition(single, constants.StatusWaiting, constants.ActionCancel, constants.StatusCancelled)

	double := constants.LevelsDouble
	sm.addTransition(double, constants.StatusWaitingL1, constants.ActionApprove, constants.StatusWaitingL2)
	sm.addTransition(double, constants.StatusWaitingL1, constants.ActionReject, constants.StatusRejectedL1)
	sm.addTransition(double, constants.StatusWaitingL1, constants.ActionCancel, constants.StatusCancelled)
	sm.addTransition(double, constants.StatusWaitingL2, constants.ActionApprove, constants.StatusApproved)
	sm.addTransition(double, constants.StatusWaitingL2, constants.ActionReject, constants.StatusRejectedL2)
	sm.addTransition(double, constants.StatusWaitingL2, constants.ActionCancel, constants.StatusCancelled)

	return sm
}

func (sm *WorkflowStateMachine) addTransition(levels int, from constants.Status, via constants.Action, to constants.Status) {
	key := stateTransitionKey{levels: levels, status: from, action: via}
	sm.transitions[key] = to
}

// Transition returns the next status, or an InvalidTransitionError and the unchanged status
func (sm *WorkflowStateMachine) Transition(levels int, current constants.Status, action constants.Action) (constants.Status, error) {
	key := stateTransitionKey{levels: levels, status: current, action: action}
	next, ok := sm.transitions[key]
	if !ok {
		return current, appErrors.NewInvalidTransitionError("", string(current), string(action))
	}
	return next, nil
}

// CanTransition checks if a transition is valid without performing it
func (sm *WorkflowStateMachine) CanTransition(levels int, current constants.Status, action constants.Action) bool {
	_, ok := sm.transitions[stateTransitionKey{levels: levels, status: current, action: action}]
	return ok
}

// ValidTransitions returns the actions available from the given status, sorted by name
func (sm *WorkflowStateMachine) ValidTransitions(levels int, status constants.Status) []constants.Action {
	var result []constants.Action
	for key := range sm.transitions {
		if key.levels == levels && key.status == status {
			result = append(result, key.action)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// IsTerminal returns true if no action leaves the status
func (sm *WorkflowStateMachine) IsTerminal(status constants.Status) bool {
	switch status {
	case constants.StatusApproved,
		constants.StatusRejected,
		constants.StatusRejectedL1,
		constants.StatusRejectedL2,
		constants.StatusCancelled:
		return true
	}
	return false
}

// InitialStatus returns the status a freshly submitted record starts in
func (sm *WorkflowStateMachine) InitialStatus(levels int) (constants.Status, error) {
	switch levels {
	case constants.LevelsSingle:
		return constants.StatusWaiting, nil
	case constants.LevelsDouble:
		return constants.StatusWaitingL1, nil
	}
	return "", appErrors.NewValidationError("levels", "chain length must be 1 or 2")
}

// AllowedStatuses returns the status vocabulary for a chain length
func (sm *WorkflowStateMachine) AllowedStatuses(levels int) []constants.Status {
	statuses := sm.allowed[levels]
	out := make([]constants.Status, len(statuses))
	copy(out, statuses)
	return out
}

// IsAllowed reports whether status belongs to the vocabulary of the chain length
func (sm *WorkflowStateMachine) IsAllowed(levels int, status constants.Status) bool {
	for _, s := range sm.allowed[levels] {
		if s == status {
			return true
		}
	}
	return false
}
