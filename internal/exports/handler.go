package exports

import (
	"net/http"
	"time"

	"freight_broker_backend/platform/httpkit"
	"freight_broker_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// RunExportRequest selects the date range, inclusive of from, exclusive of to.
type RunExportRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) HandleRunAuditExport(c *gin.Context) {
	tenantID, ok := httpkit.TenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "no tenant context", nil)
		return
	}

	var req RunExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "from must be a YYYY-MM-DD date", nil)
		return
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "to must be a YYYY-MM-DD date", nil)
		return
	}
	if !to.After(from) {
		httpkit.Error(c, http.StatusBadRequest, "to must be after from", nil)
		return
	}

	result, err := h.svc.Run(c.Request.Context(), tenantID, from, to)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "export failed", err.Error())
		return
	}

	httpkit.OK(c, result)
}
