package report

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/churchconnect/admin/internal/platform/export"
	"github.com/churchconnect/admin/internal/platform/rest"
	"github.com/churchconnect/admin/internal/platform/view"
	"github.com/churchconnect/admin/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/reports", h.List)
	admin.GET("/reports/:id", h.Detail)
	admin.GET("/reports/:id/export", h.Export)
}

func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return view.Error(c, err)
	}
	return view.Render(c, "dashboard", stats, false)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	q := rest.Query{
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
		Page:     pg.Page,
		PageSize: pg.PageSize,
		Filters:  map[string]string{"kind": c.QueryParam("kind")},
	}
	snap := h.svc.Browse(c.Request().Context(), q)
	return view.Render(c, "reports/list", snap, snap.Err != nil)
}

func (h *Handler) Detail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid report id")
	}
	snap := h.svc.Load(c.Request().Context(), id.String())
	if snap.Detail == nil && snap.Err == nil {
		return view.NotFound(c, "report not found")
	}
	return view.Render(c, "reports/detail", snap, snap.Err != nil)
}

// Export downloads one report's rows as a JSON file.
func (h *Handler) Export(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid report id")
	}
	snap := h.svc.Load(c.Request().Context(), id.String())
	if snap.Detail == nil {
		if snap.Err != nil {
			return view.Error(c, snap.Err)
		}
		return view.NotFound(c, "report not found")
	}
	return export.Write(c, "reports", 1, snap.Detail)
}
