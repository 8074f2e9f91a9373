package http

import (
	"net/http"

	echo "github.com/labstack/echo/v4"

	"github.com/jmehdipour/sms-admin/internal/quiethours"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/service/admin"
	"github.com/jmehdipour/sms-admin/internal/service/dashboard"
)

func listTemplatesHandler(repo repository.TemplatesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		tpls, err := repo.List(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"count": len(tpls), "results": tpls})
	}
}

func getTemplateHandler(repo repository.TemplatesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		tpl, err := repo.GetByID(c.Request().Context(), c.Param("templateId"))
		if err != nil {
			return writeError(c, err)
		}
		if tpl == nil {
			return writeError(c, admin.ErrTemplateNotFound)
		}
		return c.JSON(http.StatusOK, tpl)
	}
}

func updateTemplateHandler(adm *admin.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in admin.TemplateInput
		if err := c.Bind(&in); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid body")
		}
		tpl, err := adm.UpdateTemplate(c.Request().Context(), actorFromCtx(c), c.Param("templateId"), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, tpl)
	}
}

func listVersionsHandler(repo repository.VersionsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		vs, err := repo.ListByTemplate(c.Request().Context(), c.Param("templateId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"count": len(vs), "results": vs})
	}
}

func previewHandler(dash *dashboard.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req previewRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid body")
		}
		return c.JSON(http.StatusOK, dash.Preview(req.Body, req.Variables))
	}
}

func timezonesHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, quiethours.Timezones)
	}
}
