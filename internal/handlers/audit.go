package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const auditPageSize = 200

func (h *Handlers) ListAuditLogs(c *gin.Context) {
	logs, err := h.trail.Recent(c.Request.Context(), auditPageSize)

	data := gin.H{
		"Title":   "Journal d'audit",
		"Logs":    logs,
		"Enabled": h.trail.Enabled(),
	}
	if err != nil {
		h.log.Error("[Audit] failed to load entries", "error", err)
		data["Error"] = err.Error()
	}
	h.render(c, http.StatusOK, "audit_list.html", data)
}
