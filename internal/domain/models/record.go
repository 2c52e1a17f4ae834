package models

import (
	"encoding/json"
	"fmt"

	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
)

// ProcessConfig describes how many approval levels a process type requires
type ProcessConfig struct {
	ID     constants.ProcessType `json:"id" yaml:"id"`
	Label  string                `json:"label" yaml:"label"`
	Levels int                   `json:"levels" yaml:"levels"` // 1 or 2
}

// ApprovalInfo is the audit entry stamped when an approver acts on a record.
// It is a value type and is never modified after creation.
type ApprovalInfo struct {
	ApproverName string                   `json:"approver_name"`
	ApproverRole string                   `json:"approver_role"`
	ActionDate   string                   `json:"action_date"`
	Comment      string                   `json:"comment"`
	Result       constants.ApprovalResult `json:"result"`
}

// PartyMember is a member attached to a request
type PartyMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Branch string `json:"branch"`
	DOB    string `json:"dob"`
}

// MemberRef identifies the sender or the subject of a request
type MemberRef struct {
	Code   string `json:"code,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// IsZero reports whether no member field is set
func (m MemberRef) IsZero() bool {
	return m == MemberRef{}
}

// Decision holds the decision document fields shared by several process types
type Decision struct {
	Number   string `json:"number,omitempty"`
	Agency   string `json:"agency,omitempty"`
	SignDate string `json:"sign_date,omitempty"`
}

// Record is the subject of the approval workflow
type Record struct {
	ID            string                `json:"id"`
	Type          constants.ProcessType `json:"type"`
	Status        constants.Status      `json:"status"`
	SubmittedDate string                `json:"date"`
	Applicant     string                `json:"applicant"`
	Summary       string                `json:"summary"`
	Sender        MemberRef             `json:"sender"`
	Target        MemberRef             `json:"target"`
	Decision      *Decision             `json:"decision,omitempty"`
	Members       []PartyMember         `json:"members,omitempty"`
	Details       Details               `json:"-"`
	Level1Result  *ApprovalInfo         `json:"level1_result,omitempty"`
	Level2Result  *ApprovalInfo         `json:"level2_result,omitempty"`
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	out := r
	if r.Decision != nil {
		d := *r.Decision
		out.Decision = &d
	}
	if r.Members != nil {
		out.Members = make([]PartyMember, len(r.Members))
		copy(out.Members, r.Members)
	}
	if r.Level1Result != nil {
		info := *r.Level1Result
		out.Level1Result = &info
	}
	if r.Level2Result != nil {
		info := *r.Level2Result
		out.Level2Result = &info
	}
	// Details variants are value types, copying the interface copies the value
	return out
}

// History returns the stamped approval entries in level order
func (r Record) History() []ApprovalInfo {
	var history []ApprovalInfo
	if r.Level1Result != nil {
		history = append(history, *r.Level1Result)
	}
	if r.Level2Result != nil {
		history = append(history, *r.Level2Result)
	}
	return history
}

type recordAlias Record

type recordJSON struct {
	recordAlias
	Details json.RawMessage `json:"details,omitempty"`
}

// MarshalJSON encodes the record with its Details variant under "details"
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{recordAlias: recordAlias(r)}
	if r.Details != nil {
		raw, err := json.Marshal(r.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to encode details: %w", err)
		}
		out.Details = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes "details" into the variant selected by the record type
func (r *Record) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Record(in.recordAlias)
	r.Details = nil
	if len(in.Details) == 0 || string(in.Details) == "null" {
		return nil
	}
	details, err := DecodeDetails(in.Type, in.Details)
	if err != nil {
		return err
	}
	r.Details = details
	return nil
}
