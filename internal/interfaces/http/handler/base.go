package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/logger"
	"github.com/pantryfresh/backend/internal/interfaces/http/dto"
	"github.com/pantryfresh/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	logger *zap.Logger
}

func newBaseHandler(log *zap.Logger) BaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return BaseHandler{logger: log}
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Page sends a listing with paging in meta
func Page[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// Error sends an error envelope carrying the request id
func (h *BaseHandler) Error(c *gin.Context, status int, info *dto.ErrorInfo) {
	info.RequestID = middleware.RequestIDFrom(c)
	c.JSON(status, dto.NewErrorResponse(info))
}

// HandleError maps err to its status and envelope. Server-side failures are
// logged with the full error; the client only sees a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, info := dto.FromError(err)
	l := logger.For(c.Request.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		l.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
	} else {
		l.Debug("request rejected", zap.String("code", info.Code), zap.Error(err))
	}
	h.Error(c, status, info)
}

// BindJSON decodes the body into req, answering 400 (or 413) on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		info := middleware.BindingErrorInfo(err)
		h.Error(c, middleware.BindingStatus(info), info)
		return false
	}
	return true
}

// BindQuery decodes query parameters into req, answering 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.Error(c, http.StatusBadRequest, middleware.BindingErrorInfo(err))
		return false
	}
	return true
}

// Actor returns the authenticated caller, answering 401 when there is none
func (h *BaseHandler) Actor(c *gin.Context) (order.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthorized)
		return order.Actor{}, false
	}
	return actor, true
}

// UUIDParam parses a path parameter, answering 400 when it is not a UUID
func (h *BaseHandler) UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.HandleError(c, shared.NewValidationError("INVALID_ID", name+" must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
