package domain

import (
	"fmt"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain/models"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	appErrors "github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
)

// Tab is a named, counted status filter shown above a record list
type Tab struct {
	ID        string                      `json:"id"`
	Label     string                      `json:"label"`
	Count     int                         `json:"count"`
	Predicate func(constants.Status) bool `json:"-"`
}

// Matches reports whether a record belongs to the tab
func (t Tab) Matches(rec models.Record) bool {
	if t.Predicate == nil {
		return true
	}
	return t.Predicate(rec.Status)
}

type tabDef struct {
	status constants.Status
	label  string
}

var singleLevelTabs = []tabDef{
	{constants.StatusWaiting, constants.TabLabelWaiting},
	{constants.StatusApproved, constants.TabLabelApproved},
	{constants.StatusRejected, constants.TabLabelRejected},
	{constants.StatusCancelled, constants.TabLabelCancelled},
}

var doubleLevelTabs = []tabDef{
	{constants.StatusWaitingL1, constants.TabLabelWaitingL1},
	{constants.StatusWaitingL2, constants.TabLabelWaitingL2},
	{constants.StatusApproved, constants.TabLabelApproved},
	{constants.StatusRejectedL1, constants.TabLabelRejectedL1},
	{constants.StatusRejectedL2, constants.TabLabelRejectedL2},
	{constants.StatusCancelled, constants.TabLabelCancelled},
}

// BuildTabs derives the ordered status tabs for the records of one process type.
// TOTAL always comes first. Cancellation is a registrant concept, so the
// CANCELLED tab is left out in approval mode. Counts are recomputed on every call.
func BuildTabs(records []models.Record, levels int, mode constants.ViewMode) ([]Tab, error) {
	var defs []tabDef
	switch levels {
	case constants.LevelsSingle:
		defs = singleLevelTabs
	case constants.LevelsDouble:
		defs = doubleLevelTabs
	default:
		return nil, appErrors.NewValidationError("levels", fmt.Sprintf("unsupported chain length %d", levels))
	}
	if !constants.IsValidViewMode(mode) {
		return nil, appErrors.NewValidationError("mode", fmt.Sprintf("unknown view mode '%s'", mode))
	}

	tabs := make([]Tab, 0, len(defs)+1)
	tabs = append(tabs, Tab{
		ID:        constants.TabTotal,
		Label:     constants.TabLabelTotal,
		Count:     len(records),
		Predicate: func(constants.Status) bool { return true },
	})

	for _, def := range defs {
		if mode == constants.ModeApproval && def.status == constants.StatusCancelled {
			continue
		}
		tab := Tab{
			ID:        string(def.status),
			Label:     def.label,
			Predicate: statusEquals(def.status),
		}
		for _, rec := range records {
			if tab.Predicate(rec.Status) {
				tab.Count++
			}
		}
		tabs = append(tabs, tab)
	}
	return tabs, nil
}

// FindTab looks a tab up by id
func FindTab(tabs []Tab, id string) (Tab, bool) {
	for _, t := range tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

func statusEquals(status constants.Status) func(constants.Status) bool {
	return func(s constants.Status) bool { return s == status }
}
