package member

import (
	"net/http"
	"strings"

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
	admin.GET("/members", h.List)
	admin.GET("/members/new", h.New)
	admin.POST("/members", h.Create)
	admin.GET("/members/export", h.Export)
	admin.DELETE("/members/bulk", h.BulkDelete)
	admin.POST("/members/dismiss-error", h.DismissError)
	admin.GET("/members/:id", h.Detail)
	admin.GET("/members/:id/edit", h.Edit)
	admin.PUT("/members/:id", h.Update)
	admin.DELETE("/members/:id", h.Delete)
}

func queryFromContext(c echo.Context) rest.Query {
	pg := pagination.FromContext(c)
	return rest.Query{
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
		Page:     pg.Page,
		PageSize: pg.PageSize,
		Filters: map[string]string{
			"status": c.QueryParam("status"),
			"family": c.QueryParam("family"),
		},
	}
}

func (h *Handler) List(c echo.Context) error {
	snap := h.svc.Browse(c.Request().Context(), queryFromContext(c))
	return view.Render(c, "members/list", snap, snap.Err != nil)
}

func (h *Handler) New(c echo.Context) error {
	return view.Render(c, "members/new", Input{Status: StatusVisitor}, false)
}

func (h *Handler) Create(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return view.BadRequest(c, "invalid form payload")
	}
	created, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return view.Error(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Detail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid member id")
	}
	snap := h.svc.Load(c.Request().Context(), id.String())
	if snap.Detail == nil && snap.Err == nil {
		return view.NotFound(c, "member not found")
	}
	return view.Render(c, "members/detail", snap, snap.Err != nil)
}

func (h *Handler) Edit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid member id")
	}
	snap := h.svc.Load(c.Request().Context(), id.String())
	if snap.Detail == nil && snap.Err == nil {
		return view.NotFound(c, "member not found")
	}
	return view.Render(c, "members/edit", snap, snap.Err != nil)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid member id")
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return view.BadRequest(c, "invalid form payload")
	}
	updated, err := h.svc.Update(c.Request().Context(), id.String(), in)
	if err != nil {
		return view.Error(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid member id")
	}
	if err := h.svc.Delete(c.Request().Context(), id.String()); err != nil {
		return view.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type bulkRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) BulkDelete(c echo.Context) error {
	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return view.BadRequest(c, "invalid bulk payload")
	}
	if err := h.svc.BulkDelete(c.Request().Context(), req.IDs); err != nil {
		return view.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Export(c echo.Context) error {
	store := h.svc.Store()
	if ids := c.QueryParam("ids"); ids != "" {
		store.ClearSelection()
		for _, id := range strings.Split(ids, ",") {
			store.Select(strings.TrimSpace(id))
		}
	}
	records := store.SelectedItems()
	if len(records) == 0 {
		records = store.Snapshot().Items
	}
	store.ClearSelection()
	return export.Write(c, "members", len(records), records)
}

func (h *Handler) DismissError(c echo.Context) error {
	h.svc.Store().ClearError()
	return c.NoContent(http.StatusNoContent)
}
