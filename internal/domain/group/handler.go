package group

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	admin.GET("/groups", h.List)
	admin.GET("/groups/new", h.New)
	admin.POST("/groups", h.Create)
	admin.DELETE("/groups/bulk", h.BulkDelete)
	admin.POST("/groups/dismiss-error", h.DismissError)
	admin.GET("/groups/:id", h.Detail)
	admin.GET("/groups/:id/edit", h.Edit)
	admin.PUT("/groups/:id", h.Update)
	admin.DELETE("/groups/:id", h.Delete)
	admin.GET("/groups/:id/roster", h.Roster)
}

func queryFromContext(c echo.Context) rest.Query {
	pg := pagination.FromContext(c)
	return rest.Query{
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
		Page:     pg.Page,
		PageSize: pg.PageSize,
		Filters:  map[string]string{"kind": c.QueryParam("kind")},
	}
}

func (h *Handler) List(c echo.Context) error {
	snap := h.svc.Browse(c.Request().Context(), queryFromContext(c))
	return view.Render(c, "groups/list", snap, snap.Err != nil)
}

func (h *Handler) New(c echo.Context) error {
	return view.Render(c, "groups/new", Input{Kind: KindSmallGroup}, false)
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
		return view.BadRequest(c, "invalid group id")
	}
	snap := h.svc.Load(c.Request().Context(), id.String())
	if snap.Detail == nil && snap.Err == nil {
		return view.NotFound(c, "group not found")
	}
	return view.Render(c, "groups/detail", snap, snap.Err != nil)
}

func (h *Handler) Edit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid group id")
	}
	snap := h.svc.Load(c.Request().Context(), id.String())
	if snap.Detail == nil && snap.Err == nil {
		return view.NotFound(c, "group not found")
	}
	return view.Render(c, "groups/edit", snap, snap.Err != nil)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid group id")
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
		return view.BadRequest(c, "invalid group id")
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

func (h *Handler) Roster(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid group id")
	}
	roster, err := h.svc.Roster(c.Request().Context(), id)
	if err != nil {
		return view.Error(c, err)
	}
	return view.Render(c, "groups/roster", roster, false)
}

func (h *Handler) DismissError(c echo.Context) error {
	h.svc.Store().ClearError()
	return c.NoContent(http.StatusNoContent)
}
