package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain/models"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	appErrors "github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/expression"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/logging"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/utils"
)

// maxIDAttempts bounds id regeneration when a generated id collides
const maxIDAttempts = 3

// PortalService is the facade used by the presentation layer.
// The Apply*/ComputeTabs/FilterAndPaginate methods are pure and work on caller-supplied records;
// the remaining methods act on the record store.
type PortalService struct {
	registry *domain.ProcessRegistry
	engine   *domain.WorkflowEngine
	store    *RecordStore
	approver ApproverProvider
	exprs    *expression.Engine
	logger   *zap.Logger
}

// NewPortalService creates a new PortalService
func NewPortalService(
	registry *domain.ProcessRegistry,
	store *RecordStore,
	approver ApproverProvider,
	logger *zap.Logger,
) *PortalService {
	if approver == nil {
		approver = NewStaticApprover("", "")
	}
	return &PortalService{
		registry: registry,
		engine:   domain.NewWorkflowEngine(registry),
		store:    store,
		approver: approver,
		exprs:    expression.NewEngine(),
		logger:   logging.OrNop(logger),
	}
}

// Engine exposes the workflow engine
func (s *PortalService) Engine() *domain.WorkflowEngine {
	return s.engine
}

// ListProcessConfigs returns the process catalog in display order
func (s *PortalService) ListProcessConfigs() []models.ProcessConfig {
	return s.registry.List()
}

// ComputeTabs builds the tab set for one process type from the given records.
// Records of other process types are ignored.
func (s *PortalService) ComputeTabs(records []models.Record, processType constants.ProcessType, mode constants.ViewMode) ([]domain.Tab, error) {
	levels, err := s.registry.LevelsOf(processType)
	if err != nil {
		return nil, err
	}
	return domain.BuildTabs(filterByProcess(records, processType), levels, mode)
}

// ApplyApprove approves the record as the current approver
func (s *PortalService) ApplyApprove(rec models.Record, comment string, payload domain.ApprovalPayload) (models.Record, error) {
	return s.engine.Approve(rec, comment, payload, s.approver.CurrentApprover())
}

// ApplyReject rejects the record as the current approver
func (s *PortalService) ApplyReject(rec models.Record, comment string) (models.Record, error) {
	return s.engine.Reject(rec, comment, s.approver.CurrentApprover())
}

// ApplyCancel withdraws a record still waiting at any level
func (s *PortalService) ApplyCancel(rec models.Record) (models.Record, error) {
	return s.engine.Cancel(rec)
}

// FilterAndPaginate narrows records to a process type and register-mode tab, then pages them
func (s *PortalService) FilterAndPaginate(
	records []models.Record,
	processType constants.ProcessType,
	tabID string,
	page, pageSize int,
) (Page, error) {
	return s.view(records, ListQuery{
		ProcessType: processType,
		TabID:       tabID,
		Mode:        constants.ModeRegister,
		Page:        page,
		PageSize:    pageSize,
	})
}

// ListQuery selects one page of records from the store
type ListQuery struct {
	ProcessType constants.ProcessType
	TabID       string
	Mode        constants.ViewMode
	Page        int
	PageSize    int
	// Filter is an optional boolean expression over RecordEnv fields
	Filter string
}

// ListView returns one page of stored records for the query
func (s *PortalService) ListView(ctx context.Context, q ListQuery) (Page, error) {
	if q.Mode == "" {
		q.Mode = constants.ModeRegister
	}
	if !constants.IsValidViewMode(q.Mode) {
		return Page{}, appErrors.NewValidationError("mode", "unsupported view mode: "+string(q.Mode))
	}
	if q.PageSize == 0 {
		q.PageSize = constants.DefaultPageSize
	}
	if q.PageSize > constants.MaxPageSize {
		return Page{}, appErrors.NewValidationError("page_size", "page size is too large")
	}

	page, err := s.view(s.store.All(), q)
	if err != nil {
		logging.WithContext(s.logger, ctx).Debug("record list rejected",
			zap.String("process", string(q.ProcessType)),
			zap.String("tab", q.TabID),
			zap.Error(err),
		)
		return Page{}, err
	}
	return page, nil
}

// Tabs computes the tab set for a process type over the stored records
func (s *PortalService) Tabs(ctx context.Context, processType constants.ProcessType, mode constants.ViewMode) ([]domain.Tab, error) {
	if mode == "" {
		mode = constants.ModeRegister
	}
	return s.ComputeTabs(s.store.All(), processType, mode)
}

// GetRecord returns one stored record
func (s *PortalService) GetRecord(ctx context.Context, id string) (models.Record, error) {
	return s.store.Get(id)
}

// SubmitRequest is the input for registering a new record
type SubmitRequest struct {
	Type      constants.ProcessType
	Applicant string
	Summary   string
	Sender    models.MemberRef
	Target    models.MemberRef
	Decision  *models.Decision
	Members   []models.PartyMember
	Details   models.Details
}

// Submit registers a new record in the initial status of its process
func (s *PortalService) Submit(ctx context.Context, req SubmitRequest) (models.Record, error) {
	log := logging.WithContext(s.logger, ctx)

	levels, err := s.registry.LevelsOf(req.Type)
	if err != nil {
		return models.Record{}, err
	}
	initial, err := s.engine.StateMachine().InitialStatus(levels)
	if err != nil {
		return models.Record{}, err
	}
	if req.Target.IsZero() {
		return models.Record{}, appErrors.NewValidationError("target", "target member is required")
	}
	if req.Details == nil {
		return models.Record{}, appErrors.NewValidationError("details", "details are required")
	}

	sender := req.Sender
	if sender.IsZero() {
		sender = req.Target
	}
	applicant := strings.TrimSpace(req.Applicant)
	if applicant == "" {
		applicant = req.Target.Name
	}

	rec := models.Record{
		Type:          req.Type,
		Status:        initial,
		SubmittedDate: s.approver.CurrentApprover().At.Format(constants.DateLayout),
		Applicant:     applicant,
		Summary:       strings.TrimSpace(req.Summary),
		Sender:        sender,
		Target:        req.Target,
		Decision:      req.Decision,
		Members:       req.Members,
		Details:       req.Details,
	}
	if err := s.engine.CheckConsistency(rec); err != nil {
		return models.Record{}, err
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := utils.GenerateRecordID()
		if err != nil {
			return models.Record{}, appErrors.NewInternalError("failed to generate record id", err)
		}
		rec.ID = id

		err = s.store.Create(rec)
		if err == nil {
			log.Info("record submitted",
				zap.String("record_id", rec.ID),
				zap.String("process", string(rec.Type)),
				zap.String("status", string(rec.Status)),
			)
			return rec.Clone(), nil
		}
		if !appErrors.IsConflict(err) {
			return models.Record{}, err
		}
		log.Warn("record id collision, regenerating", zap.String("record_id", id))
	}
	return models.Record{}, appErrors.NewInternalError("could not allocate a unique record id", nil)
}

// Approve approves a stored record
func (s *PortalService) Approve(ctx context.Context, id, comment string, payload domain.ApprovalPayload) (models.Record, error) {
	return s.act(ctx, id, constants.ActionApprove, func(rec models.Record) (models.Record, error) {
		return s.ApplyApprove(rec, comment, payload)
	})
}

// Reject rejects a stored record
func (s *PortalService) Reject(ctx context.Context, id, comment string) (models.Record, error) {
	return s.act(ctx, id, constants.ActionReject, func(rec models.Record) (models.Record, error) {
		return s.ApplyReject(rec, comment)
	})
}

// Cancel withdraws a stored record that is still waiting
func (s *PortalService) Cancel(ctx context.Context, id string) (models.Record, error) {
	return s.act(ctx, id, constants.ActionCancel, s.ApplyCancel)
}

func (s *PortalService) act(
	ctx context.Context,
	id string,
	action constants.Action,
	apply func(models.Record) (models.Record, error),
) (models.Record, error) {
	log := logging.WithContext(s.logger, ctx).With(
		zap.String("record_id", id),
		zap.String("action", string(action)),
	)

	var from constants.Status
	updated, err := s.store.Update(id, func(rec models.Record) (models.Record, error) {
		from = rec.Status
		return apply(rec)
	})
	if err != nil {
		if !appErrors.IsNotFound(err) {
			log.Warn("record action refused", zap.String("status", string(from)), zap.Error(err))
		}
		return models.Record{}, err
	}

	log.Info("record action applied",
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
	)
	return updated, nil
}

func (s *PortalService) view(records []models.Record, q ListQuery) (Page, error) {
	scoped := filterByProcess(records, q.ProcessType)

	levels, err := s.registry.LevelsOf(q.ProcessType)
	if err != nil {
		return Page{}, err
	}
	tabs, err := domain.BuildTabs(scoped, levels, q.Mode)
	if err != nil {
		return Page{}, err
	}

	filtered := FilterByTab(scoped, tabs, q.TabID)
	filtered, err = FilterByExpression(s.exprs, filtered, q.Filter)
	if err != nil {
		return Page{}, err
	}

	pageNum := q.Page
	if pageNum < 1 {
		pageNum = 1
	}
	items, totalPages, err := Paginate(filtered, pageNum, q.PageSize)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Items:      items,
		Total:      len(filtered),
		TotalPages: totalPages,
		Page:       pageNum,
		PageSize:   q.PageSize,
	}, nil
}
