package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves statistics and exports.
type ReportHandler struct {
	reports ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary handles GET /reports/summary.
func (h *ReportHandler) Summary(c *gin.Context) {
	s, err := h.reports.Summary(c.Request.Context(), shopIDFrom(c))
	if err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ExportCSV handles GET /reports/export.csv. The file is built in memory so a
// failure can still be reported with a proper status.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reports.ExportCSV(c.Request.Context(), shopIDFrom(c), &buf); err != nil {
		mapErrorToStatus(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="cambios-de-aceite-%s.csv"`, shopIDFrom(c)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
