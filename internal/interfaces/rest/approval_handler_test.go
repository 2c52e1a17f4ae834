package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/application/services"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain/models"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/interfaces/rest"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	appErrors "github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
)

// MockPortalService is a mock implementation of the PortalService
type MockPortalService struct {
	mock.Mock
}

func (m *MockPortalService) ListProcessConfigs() []models.ProcessConfig {
	args := m.Called()
	return args.Get(0).([]models.ProcessConfig)
}

func (m *MockPortalService) Tabs(ctx context.Context, processType constants.ProcessType, mode constants.ViewMode) ([]domain.Tab, error) {
	args := m.Called(ctx, processType, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tab), args.Error(1)
}

func (m *MockPortalService) ListView(ctx context.Context, q services.ListQuery) (services.Page, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(services.Page), args.Error(1)
}

func (m *MockPortalService) GetRecord(ctx context.Context, id string) (models.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Record), args.Error(1)
}

func (m *MockPortalService) Submit(ctx context.Context, req services.SubmitRequest) (models.Record, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Record), args.Error(1)
}

func (m *MockPortalService) Approve(ctx context.Context, id, comment string, payload domain.ApprovalPayload) (models.Record, error) {
	args := m.Called(ctx, id, comment, payload)
	return args.Get(0).(models.Record), args.Error(1)
}

func (m *MockPortalService) Reject(ctx context.Context, id, comment string) (models.Record, error) {
	args := m.Called(ctx, id, comment)
	return args.Get(0).(models.Record), args.Error(1)
}

func (m *MockPortalService) Cancel(ctx context.Context, id string) (models.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Record), args.Error(1)
}

func newTestRouter(svc rest.PortalService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rest.RegisterRoutes(r, rest.NewApprovalHandler(svc, 10))
	return r
}

func doRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		buf = bytes.NewBuffer(jsonBytes)
	}
	var req *http.Request
	if buf != nil {
		req = httptest.NewRequest(method, path, buf)
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	w := doRequest(newTestRouter(new(MockPortalService)), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestApprovalHandler_ListProcesses(t *testing.T) {
	mockService := new(MockPortalService)
	mockService.On("ListProcessConfigs").Return([]models.ProcessConfig{
		{ID: constants.ProcessReward, Label: "Khen thưởng Đảng viên", Levels: 1},
	})

	w := doRequest(newTestRouter(mockService), http.MethodGet, "/api/processes", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "REWARD", data[0].(map[string]interface{})["id"])
	mockService.AssertExpectations(t)
}

func TestApprovalHandler_GetTabs(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockPortalService)
		mockService.On("Tabs", mock.Anything, constants.ProcessAbroad, constants.ModeApproval).Return([]domain.Tab{
			{ID: constants.TabTotal, Label: constants.TabLabelTotal, Count: 3},
		}, nil)

		w := doRequest(newTestRouter(mockService), http.MethodGet, "/api/processes/ABROAD/tabs?mode=APPROVAL", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].([]interface{})
		tab := data[0].(map[string]interface{})
		assert.Equal(t, "TOTAL", tab["id"])
		assert.Equal(t, float64(3), tab["count"])
		mockService.AssertExpectations(t)
	})

	t.Run("Unknown process", func(t *testing.T) {
		mockService := new(MockPortalService)
		mockService.On("Tabs", mock.Anything, constants.ProcessType("PROMOTION"), constants.ViewMode("")).
			Return(nil, appErrors.NewUnknownProcessTypeError("PROMOTION"))

		w := doRequest(newTestRouter(mockService), http.MethodGet, "/api/processes/PROMOTION/tabs", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeBody(t, w)
		assert.Equal(t, "UNKNOWN_PROCESS_TYPE", resp["code"])
		assert.Nil(t, resp["data"])
		assert.NotEmpty(t, resp["message"])
	})
}

func TestApprovalHandler_ListRecords(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockPortalService)
		expectedQuery := services.ListQuery{
			ProcessType: constants.ProcessReward,
			TabID:       "WAITING",
			Mode:        constants.ModeRegister,
			Page:        2,
			PageSize:    5,
			Filter:      `status == "WAITING"`,
		}
		mockService.On("ListView", mock.Anything, expectedQuery).Return(services.Page{
			Items:      []models.Record{{ID: "REQ-1", Type: constants.ProcessReward, Status: constants.StatusWaiting}},
			Total:      6,
			TotalPages: 2,
			Page:       2,
			PageSize:   5,
		}, nil)

		path := "/api/records?process=REWARD&tab=WAITING&mode=REGISTER&page=2&page_size=5&filter=status+%3D%3D+%22WAITING%22"
		w := doRequest(newTestRouter(mockService), http.MethodGet, path, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, float64(2), data["total_pages"])
		assert.Len(t, data["items"], 1)
		mockService.AssertExpectations(t)
	})

	t.Run("Defaults", func(t *testing.T) {
		mockService := new(MockPortalService)
		mockService.On("ListView", mock.Anything, services.ListQuery{
			ProcessType: constants.ProcessReward,
			TabID:       constants.TabTotal,
			Page:        1,
			PageSize:    10,
		}).Return(services.Page{Items: []models.Record{}, Page: 1, PageSize: 10}, nil)

		w := doRequest(newTestRouter(mockService), http.MethodGet, "/api/records?process=REWARD", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Missing process", func(t *testing.T) {
		mockService := new(MockPortalService)
		w := doRequest(newTestRouter(mockService), http.MethodGet, "/api/records", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, w)["code"])
		mockService.AssertNotCalled(t, "ListView", mock.Anything, mock.Anything)
	})

	t.Run("Bad page", func(t *testing.T) {
		mockService := new(MockPortalService)
		w := doRequest(newTestRouter(mockService), http.MethodGet, "/api/records?process=REWARD&page=two", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "ListView", mock.Anything, mock.Anything)
	})
}

func TestApprovalHandler_GetRecord(t *testing.T) {
	mockService := new(MockPortalService)
	mockService.On("GetRecord", mock.Anything, "REQ-1").Return(models.Record{
		ID:      "REQ-1",
		Type:    constants.ProcessReward,
		Status:  constants.StatusWaiting,
		Details: models.RewardDetails{Year: "2024"},
	}, nil)
	mockService.On("GetRecord", mock.Anything, "REQ-404").Return(models.Record{}, appErrors.NewNotFoundError("Record", "REQ-404"))
	r := newTestRouter(mockService)

	w := doRequest(r, http.MethodGet, "/api/records/REQ-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "REQ-1", data["id"])
	assert.Equal(t, "2024", data["details"].(map[string]interface{})["year"])

	w = doRequest(r, http.MethodGet, "/api/records/REQ-404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, w)["code"])
}

func TestApprovalHandler_SubmitRecord(t *testing.T) {
	target := models.MemberRef{Code: "DV001", Name: "Nguyễn Văn A", Branch: "Chi bộ 1"}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockPortalService)
		expected := services.SubmitRequest{
			Type:    constants.ProcessReward,
			Summary: "Khen thưởng",
			Target:  target,
			Details: models.RewardDetails{Year: "2024", Kind: "Giấy khen"},
		}
		mockService.On("Submit", mock.Anything, expected).Return(models.Record{
			ID:     "REQ-0A1B2C3D",
			Type:   constants.ProcessReward,
			Status: constants.StatusWaiting,
		}, nil)

		body := map[string]interface{}{
			"type":    "REWARD",
			"summary": "Khen thưởng",
			"target":  target,
			"details": map[string]string{"year": "2024", "kind": "Giấy khen"},
		}
		w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/records", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "REQ-0A1B2C3D", data["id"])
		assert.Equal(t, "WAITING", data["status"])
		mockService.AssertExpectations(t)
	})

	t.Run("Missing type", func(t *testing.T) {
		mockService := new(MockPortalService)
		w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/records", map[string]interface{}{"summary": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("Malformed details", func(t *testing.T) {
		mockService := new(MockPortalService)
		body := map[string]interface{}{"type": "REWARD", "target": target, "details": []int{1, 2}}
		w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/records", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, w)["code"])
		mockService.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("Unknown type reaches service", func(t *testing.T) {
		mockService := new(MockPortalService)
		mockService.On("Submit", mock.Anything, mock.MatchedBy(func(req services.SubmitRequest) bool {
			return req.Type == "PROMOTION" && req.Details == nil
		})).Return(models.Record{}, appErrors.NewUnknownProcessTypeError("PROMOTION"))

		body := map[string]interface{}{"type": "PROMOTION", "target": target, "details": map[string]string{"year": "2024"}}
		w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/records", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "UNKNOWN_PROCESS_TYPE", decodeBody(t, w)["code"])
		mockService.AssertExpectations(t)
	})
}

func TestApprovalHandler_Approve(t *testing.T) {
	t.Run("Success with grading", func(t *testing.T) {
		mockService := new(MockPortalService)
		payload := domain.ApprovalPayload{FinalGrading: "Hoàn thành xuất sắc nhiệm vụ"}
		mockService.On("Approve", mock.Anything, "REQ-1", "Đồng ý", payload).Return(models.Record{
			ID:     "REQ-1",
			Status: constants.StatusApproved,
		}, nil)

		body := rest.ApproveRequest{Comment: "Đồng ý", FinalGrading: "Hoàn thành xuất sắc nhiệm vụ"}
		w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/records/REQ-1/approve", body)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "APPROVED", data["status"])
		mockService.AssertExpectations(t)
	})

	t.Run("Empty body", func(t *testing.T) {
		mockService := new(MockPortalService)
		mockService.On("Approve", mock.Anything, "REQ-1", "", domain.ApprovalPayload{}).Return(models.Record{
			ID:     "REQ-1",
			Status: constants.StatusWaitingL2,
		}, nil)

		w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/records/REQ-1/approve", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid transition", func(t *testing.T) {
		mockService := new(MockPortalService)
		mockService.On("Approve", mock.Anything, "REQ-1", "", domain.ApprovalPayload{}).
			Return(models.Record{}, appErrors.NewInvalidTransitionError("REQ-1", "APPROVED", "approve"))

		w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/records/REQ-1/approve", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INVALID_TRANSITION", decodeBody(t, w)["code"])
	})
}

func TestApprovalHandler_Reject(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockPortalService)
		mockService.On("Reject", mock.Anything, "REQ-1", "Thiếu hồ sơ").Return(models.Record{
			ID:     "REQ-1",
			Status: constants.StatusRejected,
		}, nil)

		w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/records/REQ-1/reject", rest.RejectRequest{Comment: "Thiếu hồ sơ"})

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Missing comment", func(t *testing.T) {
		mockService := new(MockPortalService)
		mockService.On("Reject", mock.Anything, "REQ-1", "").
			Return(models.Record{}, appErrors.NewValidationError("comment", "a reason is required to reject"))

		w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/records/REQ-1/reject", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, w)["code"])
	})
}

func TestApprovalHandler_Cancel(t *testing.T) {
	mockService := new(MockPortalService)
	mockService.On("Cancel", mock.Anything, "REQ-1").Return(models.Record{ID: "REQ-1", Status: constants.StatusCancelled}, nil)
	mockService.On("Cancel", mock.Anything, "REQ-2").
		Return(models.Record{}, appErrors.NewInvalidTransitionError("REQ-2", "WAITING_L1", "cancel"))
	r := newTestRouter(mockService)

	w := doRequest(r, http.MethodPost, "/api/records/REQ-1/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CANCELLED", decodeBody(t, w)["data"].(map[string]interface{})["status"])

	w = doRequest(r, http.MethodPost, "/api/records/REQ-2/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
