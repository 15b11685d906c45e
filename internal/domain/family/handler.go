package family

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
	admin.GET("/families", h.List)
	admin.GET("/families/new", h.New)
	admin.POST("/families", h.Create)
	admin.GET("/families/export", h.Export)
	admin.DELETE("/families/bulk", h.BulkDelete)
	admin.POST("/families/dismiss-error", h.DismissError)
	admin.GET("/families/:id", h.Detail)
	admin.GET("/families/:id/edit", h.Edit)
	admin.PUT("/families/:id", h.Update)
	admin.DELETE("/families/:id", h.Delete)
	admin.GET("/families/:id/members", h.Members)
	admin.POST("/families/:id/members", h.AddMember)
}

// queryFromContext builds the backend list query from the screen's search,
// filter, ordering and pagination parameters.
func queryFromContext(c echo.Context) rest.Query {
	pg := pagination.FromContext(c)
	return rest.Query{
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
		Page:     pg.Page,
		PageSize: pg.PageSize,
		Filters:  map[string]string{"status": c.QueryParam("status")},
	}
}

func (h *Handler) List(c echo.Context) error {
	snap := h.svc.Browse(c.Request().Context(), queryFromContext(c))
	return view.Render(c, "families/list", snap, snap.Err != nil)
}

// New serves the blank form scaffold for the create view.
func (h *Handler) New(c echo.Context) error {
	return view.Render(c, "families/new", Input{Status: "active"}, false)
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
		return view.BadRequest(c, "invalid family id")
	}
	snap := h.svc.Load(c.Request().Context(), id.String())
	if snap.Detail == nil && snap.Err == nil {
		return view.NotFound(c, "family not found")
	}
	return view.Render(c, "families/detail", snap, snap.Err != nil)
}

// Edit serves the edit form pre-filled with the loaded record.
func (h *Handler) Edit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid family id")
	}
	snap := h.svc.Load(c.Request().Context(), id.String())
	if snap.Detail == nil && snap.Err == nil {
		return view.NotFound(c, "family not found")
	}
	return view.Render(c, "families/edit", snap, snap.Err != nil)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid family id")
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
		return view.BadRequest(c, "invalid family id")
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

// Export downloads the families selected via the ids query parameter, or
// the whole loaded page when none are given.
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
	return export.Write(c, "families", len(records), records)
}

func (h *Handler) DismissError(c echo.Context) error {
	h.svc.Store().ClearError()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Members(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid family id")
	}
	roster, err := h.svc.Members(c.Request().Context(), id)
	if err != nil {
		return view.Error(c, err)
	}
	return view.Render(c, "families/members", roster, false)
}

func (h *Handler) AddMember(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return view.BadRequest(c, "invalid family id")
	}
	var in RelationshipInput
	if err := c.Bind(&in); err != nil {
		return view.BadRequest(c, "invalid relationship payload")
	}
	rel, err := h.svc.AddMember(c.Request().Context(), id, in)
	if err != nil {
		return view.Error(c, err)
	}
	return c.JSON(http.StatusCreated, rel)
}
