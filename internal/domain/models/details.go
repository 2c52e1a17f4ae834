package models

import (
	"encoding/json"
	"fmt"

	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
)

// Details carries the fields specific to one process type.
// Each variant holds only the fields relevant to its process.
type Details interface {
	ProcessType() constants.ProcessType
}

// RewardDetails holds reward request fields
type RewardDetails struct {
	Year    string `json:"year"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Note    string `json:"note,omitempty"`
}

func (RewardDetails) ProcessType() constants.ProcessType { return constants.ProcessReward }

// DisciplineDetails holds discipline request fields
type DisciplineDetails struct {
	Year    string `json:"year"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Note    string `json:"note,omitempty"`
}

func (DisciplineDetails) ProcessType() constants.ProcessType { return constants.ProcessDiscipline }

// MemberGradingDetails holds member grading fields.
// ProposedGrading is set by the level 1 approver, FinalGrading by level 2.
type MemberGradingDetails struct {
	Year            string `json:"year"`
	SelfGrading     string `json:"self_grading"`
	ProposedGrading string `json:"proposed_grading,omitempty"`
	FinalGrading    string `json:"final_grading,omitempty"`
	Note            string `json:"note,omitempty"`
}

func (MemberGradingDetails) ProcessType() constants.ProcessType {
	return constants.ProcessMemberGrading
}

// OrgGradingDetails holds organisation grading fields.
// FinalGrading is mandatory when the single approver approves.
type OrgGradingDetails struct {
	Year         string `json:"year"`
	SelfGrading  string `json:"self_grading"`
	FinalGrading string `json:"final_grading,omitempty"`
	Note         string `json:"note,omitempty"`
}

func (OrgGradingDetails) ProcessType() constants.ProcessType { return constants.ProcessOrgGrading }

// ConfirmationDetails holds confirmation (title change) fields
type ConfirmationDetails struct {
	CurrentPartyTitle     string `json:"current_party_title"`
	CurrentDecisionNumber string `json:"current_decision_number,omitempty"`
	CurrentEffectiveDate  string `json:"current_effective_date,omitempty"`
	DecisionType          string `json:"decision_type"`
	NewPartyTitle         string `json:"new_party_title"`
	NewDecisionNumber     string `json:"new_decision_number,omitempty"`
	NewEffectiveDate      string `json:"new_effective_date,omitempty"`
	Note                  string `json:"note,omitempty"`
}

func (ConfirmationDetails) ProcessType() constants.ProcessType {
	return constants.ProcessConfirmation
}

// TransferDetails holds party membership transfer fields
type TransferDetails struct {
	DecisionType              string `json:"decision_type"`
	DestinationBranch         string `json:"destination_branch"`
	DestinationPartyCommittee string `json:"destination_party_committee,omitempty"`
	DecisionNumber            string `json:"decision_number,omitempty"`
	EffectiveDate             string `json:"effective_date,omitempty"`
	Note                      string `json:"note,omitempty"`
}

func (TransferDetails) ProcessType() constants.ProcessType { return constants.ProcessTransfer }

// AbroadDetails holds overseas travel fields
type AbroadDetails struct {
	Kind        string `json:"kind"`
	Purpose     string `json:"purpose"`
	DepartDate  string `json:"depart_date"`
	ReturnDate  string `json:"return_date"`
	Destination string `json:"destination"`
	Budget      string `json:"budget,omitempty"`
	Note        string `json:"note,omitempty"`
}

func (AbroadDetails) ProcessType() constants.ProcessType { return constants.ProcessAbroad }

// SupplementaryDetails holds supplementary information request fields
type SupplementaryDetails struct {
	Content string `json:"content"`
	Note    string `json:"note,omitempty"`
}

func (SupplementaryDetails) ProcessType() constants.ProcessType {
	return constants.ProcessSupplementary
}

// DecodeDetails decodes raw JSON into the Details variant for the process type
func DecodeDetails(t constants.ProcessType, raw json.RawMessage) (Details, error) {
	switch t {
	case constants.ProcessReward:
		return decodeVariant[RewardDetails](raw)
	case constants.ProcessDiscipline:
		return decodeVariant[DisciplineDetails](raw)
	case constants.ProcessMemberGrading:
		return decodeVariant[MemberGradingDetails](raw)
	case constants.ProcessOrgGrading:
		return decodeVariant[OrgGradingDetails](raw)
	case constants.ProcessConfirmation:
		return decodeVariant[ConfirmationDetails](raw)
	case constants.ProcessTransfer:
		return decodeVariant[TransferDetails](raw)
	case constants.ProcessAbroad:
		return decodeVariant[AbroadDetails](raw)
	case constants.ProcessSupplementary:
		return decodeVariant[SupplementaryDetails](raw)
	default:
		return nil, fmt.Errorf("no details variant for process type %q", t)
	}
}

func decodeVariant[T Details](raw json.RawMessage) (Details, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s details: %w", v.ProcessType(), err)
	}
	return v, nil
}
