package constants

// ProcessType identifies a category of personnel request
type ProcessType string

const (
	ProcessReward        ProcessType = "REWARD"         // 1 level
	ProcessDiscipline    ProcessType = "DISCIPLINE"     // 1 level
	ProcessMemberGrading ProcessType = "MEMBER_GRADING" // 2 levels
	ProcessOrgGrading    ProcessType = "ORG_GRADING"    // 1 level
	ProcessConfirmation  ProcessType = "CONFIRMATION"   // 1 level
	ProcessTransfer      ProcessType = "TRANSFER"       // 2 levels
	ProcessAbroad        ProcessType = "ABROAD"         // 2 levels
	ProcessSupplementary ProcessType = "SUPPLEMENTARY"  // 1 level
)

// Status is the workflow status of a record
type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"

	// Level 1 specific
	StatusWaitingL1  Status = "WAITING_L1"
	StatusRejectedL1 Status = "REJECTED_L1"

	// Level 2 specific
	StatusWaitingL2  Status = "WAITING_L2"
	StatusRejectedL2 Status = "REJECTED_L2"
)

// Action is something an actor does to a record
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
)

// ApprovalResult is the outcome stamped into an audit entry
type ApprovalResult string

const (
	ResultApproved ApprovalResult = "APPROVED"
	ResultRejected ApprovalResult = "REJECTED"
)

// ViewMode selects the registrant or the approver view
type ViewMode string

const (
	ModeRegister ViewMode = "REGISTER"
	ModeApproval ViewMode = "APPROVAL"
)

// Chain lengths
const (
	LevelsSingle = 1
	LevelsDouble = 2
)

// TabTotal is the id of the always-present tab counting every record
const TabTotal = "TOTAL"

// Display labels for status tabs
const (
	TabLabelTotal      = "Tất cả"
	TabLabelWaiting    = "Chờ phê duyệt"
	TabLabelWaitingL1  = "Chờ phê duyệt cấp 1"
	TabLabelWaitingL2  = "Chờ phê duyệt cấp 2"
	TabLabelApproved   = "Đã duyệt"
	TabLabelRejected   = "Từ chối"
	TabLabelRejectedL1 = "Từ chối cấp 1"
	TabLabelRejectedL2 = "Từ chối cấp 2"
	TabLabelCancelled  = "Đã hủy"
)

// Approval defaults
const (
	DefaultApproveComment = "Đồng ý"
	DefaultApproverName   = "Cán bộ quản lý"
	DefaultApproverRole   = "Cán bộ quản lý"
)

// DateLayout is the dd/mm/yyyy layout used for submission and action dates
const DateLayout = "02/01/2006"

// Pagination defaults
const (
	DefaultPageSize = 10
	MaxPageSize     = 200
)

// RecordIDPrefix prefixes generated record ids
const RecordIDPrefix = "REQ-"

// GetAllProcessTypes returns all process types in catalog order
func GetAllProcessTypes() []ProcessType {
	return []ProcessType{
		ProcessReward,
		ProcessDiscipline,
		ProcessMemberGrading,
		ProcessOrgGrading,
		ProcessConfirmation,
		ProcessTransfer,
		ProcessAbroad,
		ProcessSupplementary,
	}
}

// GetAllStatuses returns every status value
func GetAllStatuses() []Status {
	return []Status{
		StatusWaiting,
		StatusWaitingL1,
		StatusWaitingL2,
		StatusApproved,
		StatusRejected,
		StatusRejectedL1,
		StatusRejectedL2,
		StatusCancelled,
	}
}

// IsValidViewMode reports whether m is a known view mode
func IsValidViewMode(m ViewMode) bool {
	return m == ModeRegister || m == ModeApproval
}

// IsKnownProcessType reports whether t has a details variant
func IsKnownProcessType(t ProcessType) bool {
	for _, known := range GetAllProcessTypes() {
		if t == known {
			return true
		}
	}
	return false
}
