package services

import (
	"fmt"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain/models"
	appErrors "github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/expression"
)

// Page is one page of a filtered record list
type Page struct {
	Items      []models.Record `json:"items"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

// FilterByTab keeps the records matching the tab with the given id.
// A tab id missing from tabs (e.g. after switching process type) leaves the input unfiltered.
func FilterByTab(records []models.Record, tabs []domain.Tab, tabID string) []models.Record {
	tab, ok := domain.FindTab(tabs, tabID)
	if !ok {
		return records
	}
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if tab.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Paginate returns the 1-based page of records and the total page count.
// Pages below 1 are read as page 1; pages past the end yield an empty slice.
func Paginate(records []models.Record, page, pageSize int) ([]models.Record, int, error) {
	if pageSize < 1 {
		return nil, 0, appErrors.NewValidationError("page_size", "page size must be at least 1")
	}
	if page < 1 {
		page = 1
	}

	totalPages := len(records) / pageSize
	if len(records)%pageSize != 0 {
		totalPages++
	}
	// Compare pages before multiplying so huge page numbers cannot overflow
	if page > totalPages {
		return []models.Record{}, totalPages, nil
	}
	start := (page - 1) * pageSize
	end := len(records)
	if pageSize < end-start {
		end = start + pageSize
	}
	return records[start:end], totalPages, nil
}

// FilterByExpression keeps the records for which the boolean expression holds.
// The expression sees the fields returned by RecordEnv.
func FilterByExpression(engine *expression.Engine, records []models.Record, filter string) ([]models.Record, error) {
	if filter == "" {
		return records, nil
	}
	// Compile against an empty record so malformed filters fail even on empty lists
	if err := engine.ValidateBool(filter, RecordEnv(models.Record{})); err != nil {
		return nil, appErrors.NewValidationError("filter", err.Error())
	}

	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		ok, err := engine.EvaluateBool(filter, RecordEnv(rec))
		if err != nil {
			return nil, appErrors.NewValidationError("filter", fmt.Sprintf("record %s: %v", rec.ID, err))
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// RecordEnv flattens a record into the variables available to filter expressions
func RecordEnv(rec models.Record) map[string]interface{} {
	env := map[string]interface{}{
		"id":              rec.ID,
		"type":            string(rec.Type),
		"status":          string(rec.Status),
		"submitted_date":  rec.SubmittedDate,
		"applicant":       rec.Applicant,
		"summary":         rec.Summary,
		"sender_code":     rec.Sender.Code,
		"sender_name":     rec.Sender.Name,
		"sender_role":     rec.Sender.Role,
		"sender_branch":   rec.Sender.Branch,
		"target_code":     rec.Target.Code,
		"target_name":     rec.Target.Name,
		"target_role":     rec.Target.Role,
		"target_branch":   rec.Target.Branch,
		"decision_number": "",
		"member_count":    len(rec.Members),
		"level1_result":   "",
		"level2_result":   "",
	}
	if rec.Decision != nil {
		env["decision_number"] = rec.Decision.Number
	}
	if rec.Level1Result != nil {
		env["level1_result"] = string(rec.Level1Result.Result)
	}
	if rec.Level2Result != nil {
		env["level2_result"] = string(rec.Level2Result.Result)
	}
	return env
}
