package handler

import (
	"strconv"

	"leadscore_backend/internal/leads/service"
	"leadscore_backend/internal/leads/transport"
	"leadscore_backend/platform/apperr"
	"leadscore_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest    = "invalid request body"
	msgInvalidLeadNumber = "lead number must be an integer"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/predict", h.Predict)
	rg.GET("/:leadNumber", h.GetByLeadNumber)
}

// Predict scores a new lead, or reports that it was already scored.
func (h *Handler) Predict(c *gin.Context) {
	var req transport.LeadInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgInvalidRequest).WithOp("handler.Predict").WithDetails(err.Error()))
		return
	}

	result, err := h.svc.Score(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	if result.Duplicate {
		httpkit.OK(c, transport.DuplicateResponse{Message: transport.DuplicateMessage})
		return
	}
	httpkit.OK(c, transport.ScoreResponse{Score: result.Score})
}

func (h *Handler) GetByLeadNumber(c *gin.Context) {
	leadNumber, err := strconv.ParseInt(c.Param("leadNumber"), 10, 64)
	if err != nil {
		httpkit.HandleError(c, apperr.Validation(msgInvalidLeadNumber).WithOp("handler.GetByLeadNumber"))
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), leadNumber)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadRecordResponse(rec))
}
