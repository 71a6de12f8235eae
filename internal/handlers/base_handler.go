package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ncst-capstone/evaluation-service/internal/services"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
	"github.com/ncst-capstone/evaluation-service/internal/validator"
)

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Message string                      `json:"message"`
	Fields  []validator.ValidationError `json:"fields,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	utils.FromContext(c.Request.Context(), h.logger).Debug(msg, "path", c.FullPath(), "method", c.Request.Method)
}

// handleServiceError maps the service error taxonomy onto HTTP status
// codes. Unknown errors become opaque 500s; the cause is logged, never
// echoed to the client.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		h.logger.Error("Unclassified service error", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindNotAuthorized:
		status = http.StatusForbidden
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindInternal:
		h.logger.Error("Internal service error", "error", svcErr.Unwrap(), "path", c.FullPath())
	}

	c.JSON(status, ErrorResponse{
		Message: svcErr.Message,
		Fields:  svcErr.Fields,
	})
}

// parseIDParam reads a positive integer path parameter.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes a request body, replying 400 on malformed payloads.
func (h *BaseHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return false
	}
	return true
}
