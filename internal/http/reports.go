package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	echo "github.com/labstack/echo/v4"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/service/dashboard"
	"github.com/jmehdipour/sms-admin/internal/util"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

func wantsCSV(c echo.Context) bool {
	return strings.EqualFold(c.QueryParam("format"), "csv")
}

// writeCSV streams a dataset as an attachment. Once the header is sent,
// failures can only be logged.
func writeCSV(c echo.Context, dash *dashboard.Service, ds dashboard.Dataset, f dashboard.ExportFilter) error {
	name := fmt.Sprintf("%s-%s.csv", ds, time.Now().UTC().Format("2006-01-02"))
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	c.Response().WriteHeader(http.StatusOK)

	n, err := dash.Export(c.Request().Context(), c.Response(), ds, f)
	if err != nil {
		c.Logger().Errorf("export %s failed after %d rows: %v", ds, n, err)
	}
	return nil
}

func limitQuery(c echo.Context) int {
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxListLimit {
			return n
		}
	}
	return defaultListLimit
}

func logFilter(c echo.Context) (model.LogFilter, error) {
	f := model.LogFilter{
		OrgID:      strings.TrimSpace(c.QueryParam("org_id")),
		TemplateID: strings.TrimSpace(c.QueryParam("template_id")),
		Phone:      util.NormalizePhone(strings.TrimSpace(c.QueryParam("phone"))),
	}
	if raw := c.QueryParam("status"); raw != "" {
		st, ok := model.ParseMessageStatus(raw)
		if !ok {
			return f, fmt.Errorf("unknown status %q", raw)
		}
		f.Status = st
	}
	if raw := c.QueryParam("direction"); raw != "" {
		d, ok := model.ParseDirection(raw)
		if !ok {
			return f, fmt.Errorf("unknown direction %q", raw)
		}
		f.Direction = d
	}
	return f, nil
}

func listLogsHandler(dash *dashboard.Service, repo repository.LogsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		f, err := logFilter(c)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		if wantsCSV(c) {
			return writeCSV(c, dash, dashboard.DatasetLogs, dashboard.ExportFilter{Logs: f})
		}

		f.Limit = limitQuery(c)
		logs, err := repo.List(c.Request().Context(), f)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"limit":   f.Limit,
			"count":   len(logs),
			"results": logs,
		})
	}
}

func auditFilter(c echo.Context) (model.AuditFilter, error) {
	f := model.AuditFilter{EntityID: strings.TrimSpace(c.QueryParam("entity_id"))}
	if raw := c.QueryParam("entity_type"); raw != "" {
		et := model.EntityType(strings.ToUpper(strings.TrimSpace(raw)))
		if !et.Valid() {
			return f, fmt.Errorf("unknown entity type %q", raw)
		}
		f.EntityType = et
	}
	if raw := c.QueryParam("action"); raw != "" {
		a := model.AuditAction(strings.ToUpper(strings.TrimSpace(raw)))
		if !a.Valid() {
			return f, fmt.Errorf("unknown action %q", raw)
		}
		f.Action = a
	}
	return f, nil
}

func listAuditHandler(dash *dashboard.Service, repo repository.AuditRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		f, err := auditFilter(c)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		if wantsCSV(c) {
			return writeCSV(c, dash, dashboard.DatasetAudit, dashboard.ExportFilter{Audit: f})
		}

		f.Limit = limitQuery(c)
		entries, err := repo.List(c.Request().Context(), f)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"limit":   f.Limit,
			"count":   len(entries),
			"results": entries,
		})
	}
}

func listSuppressionsHandler(dash *dashboard.Service, repo repository.SuppressionsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		orgID := strings.TrimSpace(c.QueryParam("org_id"))
		if wantsCSV(c) {
			return writeCSV(c, dash, dashboard.DatasetSuppressions, dashboard.ExportFilter{OrgID: orgID})
		}

		var (
			sups []model.Suppression
			err  error
		)
		if orgID != "" {
			sups, err = repo.ListByOrg(c.Request().Context(), orgID)
		} else {
			sups, err = repo.ListAll(c.Request().Context())
		}
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"count": len(sups), "results": sups})
	}
}
