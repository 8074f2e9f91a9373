package http

import (
	"net/http"
	"strconv"
	"strings"

	echo "github.com/labstack/echo/v4"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/service/admin"
	"github.com/jmehdipour/sms-admin/internal/service/dashboard"
)

func dashboardHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		sum, err := dash.Dashboard(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, sum)
	}
}

func searchHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := dash.Search(c.Request().Context(), c.QueryParam("q"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(c echo.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func listOrgsHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if wantsCSV(c) {
			return writeCSV(c, dash, dashboard.DatasetOrgs, dashboard.ExportFilter{})
		}
		enabled, err := boolQuery(c, "enabled")
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "enabled must be a boolean")
		}
		ready, err := boolQuery(c, "ready")
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "ready must be a boolean")
		}
		list, err := dash.Organizations(c.Request().Context(), dashboard.OrgFilter{Enabled: enabled, Ready: ready})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func orgDetailHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		d, err := dash.OrgDetail(c.Request().Context(), c.Param("orgId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, d)
	}
}

type smsEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func setSMSEnabledHandler(adm *admin.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req smsEnabledRequest
		if err := c.Bind(&req); err != nil || req.Enabled == nil {
			return errorJSON(c, http.StatusBadRequest, "enabled is required")
		}
		org, err := adm.SetSMSEnabled(c.Request().Context(), actorFromCtx(c), c.Param("orgId"), *req.Enabled)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, org)
	}
}

func orgHealthHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		h, err := dash.Health(c.Request().Context(), c.Param("orgId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, h)
	}
}

func orgTemplatesHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		tpls, err := dash.EffectiveTemplates(c.Request().Context(), c.Param("orgId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"count": len(tpls), "results": tpls})
	}
}

type previewRequest struct {
	Body      string            `json:"body"`
	Variables map[string]string `json:"variables"`
}

// overrideViewHandler serves both the plain view (GET) and a preview with
// custom variables (POST).
func overrideViewHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req previewRequest
		if c.Request().Method == http.MethodPost {
			if err := c.Bind(&req); err != nil {
				return errorJSON(c, http.StatusBadRequest, "invalid body")
			}
		}
		v, err := dash.OverrideView(c.Request().Context(), c.Param("orgId"), c.Param("templateId"), req.Variables)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, v)
	}
}

func saveOverrideHandler(adm *admin.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in admin.OverrideInput
		if err := c.Bind(&in); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid body")
		}
		o, created, err := adm.SaveOverride(c.Request().Context(), actorFromCtx(c), c.Param("orgId"), c.Param("templateId"), in)
		if err != nil {
			return writeError(c, err)
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return c.JSON(status, o)
	}
}

func deleteOverrideHandler(adm *admin.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := adm.DeleteOrgOverride(c.Request().Context(), actorFromCtx(c), c.Param("orgId"), c.Param("templateId")); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func getQuietHoursHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := dash.QuietHours(c.Request().Context(), c.Param("orgId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, q)
	}
}

func updateQuietHoursHandler(adm *admin.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var q model.QuietHours
		if err := c.Bind(&q); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid body")
		}
		saved, err := adm.UpdateQuietHours(c.Request().Context(), actorFromCtx(c), c.Param("orgId"), q)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, saved)
	}
}

func listProvisioningHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobs, err := dash.ProvisioningJobs(c.Request().Context(), c.Param("orgId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"count": len(jobs), "results": jobs})
	}
}

func triggerProvisioningHandler(adm *admin.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := adm.TriggerProvisioning(c.Request().Context(), actorFromCtx(c), c.Param("orgId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusAccepted, job)
	}
}

func listJobsHandler(repo repository.JobsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var (
			jobs []model.SmsJob
			err  error
		)
		if orgID := strings.TrimSpace(c.QueryParam("org_id")); orgID != "" {
			jobs, err = repo.ListByOrg(c.Request().Context(), orgID)
		} else {
			jobs, err = repo.ListAll(c.Request().Context())
		}
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"count": len(jobs), "results": jobs})
	}
}
