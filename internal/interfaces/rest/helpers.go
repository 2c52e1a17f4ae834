package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
)

// RespondAppError sends a standardised JSON error response using pkg/errors.
// The error is also attached to the gin context so the request logger records it.
func RespondAppError(c *gin.Context, err error) {
	code := errors.GetHTTPStatus(err)
	resp := errors.ToResponse(err)
	_ = c.Error(err)

	c.AbortWithStatusJSON(code, gin.H{
		constants.ResponseError:   resp.Message,
		constants.ResponseMessage: resp.Message,
		constants.ResponseCode:    resp.Code,
		constants.ResponseData:    nil,
	})
}

// BindJSON decodes the request body into obj. On failure it writes a VALIDATION_ERROR and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, errors.NewValidationError("body", err.Error()))
		return false
	}
	return true
}

// BindOptionalJSON binds a JSON body when one is present; an empty body leaves obj untouched
func BindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	return BindJSON(c, obj)
}

// HandleGetEnvelope runs a read and writes {key: result}, or the mapped error
func HandleGetEnvelope(c *gin.Context, key string, action func() (interface{}, error)) {
	result, err := action()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: result})
}

// queryInt reads an integer query parameter, returning def when it is absent
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError(name, "must be an integer")
	}
	return v, nil
}
