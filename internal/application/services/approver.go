package services

import (
	"time"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
)

// ApproverProvider supplies the identity and clock used to stamp approval entries
type ApproverProvider interface {
	CurrentApprover() domain.Approver
}

// StaticApprover always acts as the same configured person.
// The portal has no authentication, so the approver comes from configuration.
type StaticApprover struct {
	Name  string
	Role  string
	Clock func() time.Time
}

// NewStaticApprover returns a provider for the given name and role, falling back to the defaults
func NewStaticApprover(name, role string) *StaticApprover {
	if name == "" {
		name = constants.DefaultApproverName
	}
	if role == "" {
		role = constants.DefaultApproverRole
	}
	return &StaticApprover{Name: name, Role: role, Clock: time.Now}
}

// CurrentApprover implements ApproverProvider
func (a *StaticApprover) CurrentApprover() domain.Approver {
	return domain.Approver{Name: a.Name, Role: a.Role, At: a.now()}
}

func (a *StaticApprover) now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock()
}
