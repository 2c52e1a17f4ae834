package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/application/services"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain/models"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	appErrors "github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
)

// PortalService defines the interface for portal operations
type PortalService interface {
	ListProcessConfigs() []models.ProcessConfig
	Tabs(ctx context.Context, processType constants.ProcessType, mode constants.ViewMode) ([]domain.Tab, error)
	ListView(ctx context.Context, q services.ListQuery) (services.Page, error)
	GetRecord(ctx context.Context, id string) (models.Record, error)
	Submit(ctx context.Context, req services.SubmitRequest) (models.Record, error)
	Approve(ctx context.Context, id, comment string, payload domain.ApprovalPayload) (models.Record, error)
	Reject(ctx context.Context, id, comment string) (models.Record, error)
	Cancel(ctx context.Context, id string) (models.Record, error)
}

// ApprovalHandler handles process catalog and record workflow endpoints
type ApprovalHandler struct {
	svc      PortalService
	pageSize int
}

// NewApprovalHandler creates a new ApprovalHandler; pageSize is used when a list request omits it
func NewApprovalHandler(svc PortalService, pageSize int) *ApprovalHandler {
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	return &ApprovalHandler{svc: svc, pageSize: pageSize}
}

// ============================================================================
// Request Types
// ============================================================================

// SubmitRecordRequest represents a request to register a new record
type SubmitRecordRequest struct {
	Type      string               `json:"type" binding:"required"`
	Applicant string               `json:"applicant"`
	Summary   string               `json:"summary"`
	Sender    models.MemberRef     `json:"sender"`
	Target    models.MemberRef     `json:"target"`
	Decision  *models.Decision     `json:"decision"`
	Members   []models.PartyMember `json:"members"`
	Details   json.RawMessage      `json:"details"`
}

// ApproveRequest represents an approve request; every field is optional
type ApproveRequest struct {
	Comment         string `json:"comment"`
	FinalGrading    string `json:"final_grading"`
	ProposedGrading string `json:"proposed_grading"`
}

// RejectRequest represents a reject request
type RejectRequest struct {
	Comment string `json:"comment"`
}

// ============================================================================
// Catalog Endpoints
// ============================================================================

// ListProcesses handles GET /api/processes
func (h *ApprovalHandler) ListProcesses(c *gin.Context) {
	HandleGetEnvelope(c, constants.ResponseData, func() (interface{}, error) {
		return h.svc.ListProcessConfigs(), nil
	})
}

// GetTabs handles GET /api/processes/:type/tabs?mode=
func (h *ApprovalHandler) GetTabs(c *gin.Context) {
	processType := constants.ProcessType(c.Param(constants.PathProcessType))
	mode := constants.ViewMode(c.Query(constants.ParamMode))

	HandleGetEnvelope(c, constants.ResponseData, func() (interface{}, error) {
		return h.svc.Tabs(c.Request.Context(), processType, mode)
	})
}

// ============================================================================
// Record Endpoints
// ============================================================================

// ListRecords handles GET /api/records?process=&tab=&mode=&page=&page_size=&filter=
func (h *ApprovalHandler) ListRecords(c *gin.Context) {
	HandleGetEnvelope(c, constants.ResponseData, func() (interface{}, error) {
		processType := c.Query(constants.ParamProcess)
		if processType == "" {
			return nil, appErrors.NewValidationError(constants.ParamProcess, "process type is required")
		}
		page, err := queryInt(c, constants.ParamPage, 1)
		if err != nil {
			return nil, err
		}
		pageSize, err := queryInt(c, constants.ParamPageSize, h.pageSize)
		if err != nil {
			return nil, err
		}

		return h.svc.ListView(c.Request.Context(), services.ListQuery{
			ProcessType: constants.ProcessType(processType),
			TabID:       c.DefaultQuery(constants.ParamTab, constants.TabTotal),
			Mode:        constants.ViewMode(c.Query(constants.ParamMode)),
			Page:        page,
			PageSize:    pageSize,
			Filter:      c.Query(constants.ParamFilter),
		})
	})
}

// GetRecord handles GET /api/records/:id
func (h *ApprovalHandler) GetRecord(c *gin.Context) {
	id := c.Param(constants.PathRecordID)
	HandleGetEnvelope(c, constants.ResponseData, func() (interface{}, error) {
		return h.svc.GetRecord(c.Request.Context(), id)
	})
}

// SubmitRecord handles POST /api/records
func (h *ApprovalHandler) SubmitRecord(c *gin.Context) {
	var req SubmitRecordRequest
	if !BindJSON(c, &req) {
		return
	}

	processType := constants.ProcessType(req.Type)
	var details models.Details
	// Unknown types are passed through so the service reports them as such
	if constants.IsKnownProcessType(processType) && len(req.Details) > 0 && string(req.Details) != "null" {
		d, err := models.DecodeDetails(processType, req.Details)
		if err != nil {
			RespondAppError(c, appErrors.NewValidationError("details", err.Error()))
			return
		}
		details = d
	}

	rec, err := h.svc.Submit(c.Request.Context(), services.SubmitRequest{
		Type:      processType,
		Applicant: req.Applicant,
		Summary:   req.Summary,
		Sender:    req.Sender,
		Target:    req.Target,
		Decision:  req.Decision,
		Members:   req.Members,
		Details:   details,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{constants.ResponseData: rec})
}

// Approve handles POST /api/records/:id/approve
func (h *ApprovalHandler) Approve(c *gin.Context) {
	id := c.Param(constants.PathRecordID)

	var req ApproveRequest
	if !BindOptionalJSON(c, &req) {
		return
	}

	rec, err := h.svc.Approve(c.Request.Context(), id, req.Comment, domain.ApprovalPayload{
		FinalGrading:    req.FinalGrading,
		ProposedGrading: req.ProposedGrading,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.ResponseData: rec})
}

// Reject handles POST /api/records/:id/reject
func (h *ApprovalHandler) Reject(c *gin.Context) {
	id := c.Param(constants.PathRecordID)

	var req RejectRequest
	if !BindOptionalJSON(c, &req) {
		return
	}

	rec, err := h.svc.Reject(c.Request.Context(), id, req.Comment)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.ResponseData: rec})
}

// Cancel handles POST /api/records/:id/cancel
func (h *ApprovalHandler) Cancel(c *gin.Context) {
	id := c.Param(constants.PathRecordID)

	rec, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.ResponseData: rec})
}
