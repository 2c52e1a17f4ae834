package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain/models"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	appErrors "github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
)

// Approver identifies who is acting on a record and when
type Approver struct {
	Name string
	Role string
	At   time.Time
}

// ApprovalPayload carries domain fields merged into the record together with an approval
type ApprovalPayload struct {
	ProposedGrading string `json:"proposed_grading,omitempty"`
	FinalGrading    string `json:"final_grading,omitempty"`
}

// IsEmpty reports whether no payload field is set
func (p ApprovalPayload) IsEmpty() bool {
	return strings.TrimSpace(p.ProposedGrading) == "" && strings.TrimSpace(p.FinalGrading) == ""
}

// WorkflowEngine computes the next state of a record for an approver action.
// It holds no records: every method takes a record value and returns a new one,
// leaving the input untouched. A failed action returns the input record as-is.
type WorkflowEngine struct {
	registry *ProcessRegistry
	sm       *WorkflowStateMachine
}

// NewWorkflowEngine creates an engine backed by the given process registry
func NewWorkflowEngine(registry *ProcessRegistry) *WorkflowEngine {
	return &WorkflowEngine{
		registry: registry,
		sm:       NewWorkflowStateMachine(),
	}
}

// StateMachine exposes the transition table used by the engine
func (e *WorkflowEngine) StateMachine() *WorkflowStateMachine {
	return e.sm
}

// Approve moves the record one level forward and stamps an APPROVED entry.
// An empty comment is replaced by the default approval phrase.
func (e *WorkflowEngine) Approve(rec models.Record, comment string, payload ApprovalPayload, approver Approver) (models.Record, error) {
	levels, next, err := e.prepare(rec, constants.ActionApprove)
	if err != nil {
		return rec, err
	}

	details, err := mergePayload(rec, levels, payload)
	if err != nil {
		return rec, err
	}

	if strings.TrimSpace(comment) == "" {
		comment = constants.DefaultApproveComment
	}

	out := rec.Clone()
	out.Status = next
	out.Details = details
	stamp(&out, rec.Status, newApprovalInfo(approver, comment, constants.ResultApproved))
	return out, nil
}

// Reject stamps a REJECTED entry on the current level and ends the workflow.
// The comment is mandatory.
func (e *WorkflowEngine) Reject(rec models.Record, comment string, approver Approver) (models.Record, error) {
	_, next, err := e.prepare(rec, constants.ActionReject)
	if err != nil {
		return rec, err
	}

	if strings.TrimSpace(comment) == "" {
		return rec, appErrors.NewValidationError("comment", "a reason is required to reject")
	}

	out := rec.Clone()
	out.Status = next
	stamp(&out, rec.Status, newApprovalInfo(approver, comment, constants.ResultRejected))
	return out, nil
}

// Cancel withdraws a waiting record. No audit entry is appended.
func (e *WorkflowEngine) Cancel(rec models.Record) (models.Record, error) {
	_, next, err := e.prepare(rec, constants.ActionCancel)
	if err != nil {
		return rec, err
	}
	out := rec.Clone()
	out.Status = next
	return out, nil
}

// CheckConsistency verifies that a record's status belongs to its process vocabulary,
// that its details variant matches its type and that the audit fields are ordered
func (e *WorkflowEngine) CheckConsistency(rec models.Record) error {
	levels, err := e.registry.LevelsOf(rec.Type)
	if err != nil {
		return err
	}
	if !e.sm.IsAllowed(levels, rec.Status) {
		return appErrors.NewValidationError("status",
			fmt.Sprintf("status %s is not valid for a %d-level process", rec.Status, levels))
	}
	if rec.Details != nil && rec.Details.ProcessType() != rec.Type {
		return appErrors.NewValidationError("details",
			fmt.Sprintf("details of %s cannot be attached to a %s record", rec.Details.ProcessType(), rec.Type))
	}
	if rec.Level2Result != nil && (levels != constants.LevelsDouble || rec.Level1Result == nil) {
		return appErrors.NewValidationError("level2_result", "level 2 result requires a level 1 result on a 2-level process")
	}
	return nil
}

// prepare resolves the chain length and the next status for an action
func (e *WorkflowEngine) prepare(rec models.Record, action constants.Action) (int, constants.Status, error) {
	levels, err := e.registry.LevelsOf(rec.Type)
	if err != nil {
		return 0, rec.Status, err
	}

	next, err := e.sm.Transition(levels, rec.Status, action)
	if err != nil {
		return levels, rec.Status, appErrors.NewInvalidTransitionError(rec.ID, string(rec.Status), string(action))
	}

	// Each level result is written once, and level 2 only after level 1
	if action != constants.ActionCancel {
		switch rec.Status {
		case constants.StatusWaiting, constants.StatusWaitingL1:
			if rec.Level1Result != nil {
				return levels, rec.Status, appErrors.NewInvalidTransitionError(rec.ID, string(rec.Status), string(action))
			}
		case constants.StatusWaitingL2:
			if rec.Level1Result == nil || rec.Level2Result != nil {
				return levels, rec.Status, appErrors.NewInvalidTransitionError(rec.ID, string(rec.Status), string(action))
			}
		}
	}
	return levels, next, nil
}

func newApprovalInfo(approver Approver, comment string, result constants.ApprovalResult) models.ApprovalInfo {
	return models.ApprovalInfo{
		ApproverName: approver.Name,
		ApproverRole: approver.Role,
		ActionDate:   approver.At.Format(constants.DateLayout),
		Comment:      comment,
		Result:       result,
	}
}

// stamp writes the audit entry into the level field matching the status acted upon
func stamp(rec *models.Record, actedOn constants.Status, info models.ApprovalInfo) {
	if actedOn == constants.StatusWaitingL2 {
		rec.Level2Result = &info
		return
	}
	rec.Level1Result = &info
}

// mergePayload validates the approval payload against the record's process and
// returns the details with the payload applied
func mergePayload(rec models.Record, levels int, payload ApprovalPayload) (models.Details, error) {
	proposed := strings.TrimSpace(payload.ProposedGrading)
	final := strings.TrimSpace(payload.FinalGrading)

	switch rec.Type {
	case constants.ProcessOrgGrading:
		if final == "" {
			return nil, appErrors.NewValidationError("final_grading", "a grading result is required to approve")
		}
		if proposed != "" {
			return nil, appErrors.NewValidationError("proposed_grading", "not applicable to a 1-level grading")
		}
		d, _ := rec.Details.(models.OrgGradingDetails)
		d.FinalGrading = final
		return d, nil

	case constants.ProcessMemberGrading:
		if payload.IsEmpty() {
			return rec.Details, nil
		}
		d, _ := rec.Details.(models.MemberGradingDetails)
		if proposed != "" {
			d.ProposedGrading = proposed
		}
		if final != "" {
			d.FinalGrading = final
		}
		return d, nil
	}

	if !payload.IsEmpty() {
		return nil, appErrors.NewValidationError("payload",
			fmt.Sprintf("grading fields are not applicable to %s (%d-level)", rec.Type, levels))
	}
	return rec.Details, nil
}
