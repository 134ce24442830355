package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-admin/page"
)

// reserved query parameters that are not filters
var reserved = map[string]bool{"q": true, "sort": true, "reload": true, "token": true}

func queryFrom(c *gin.Context) page.Query {
	q := page.Query{
		Term:    c.Query("q"),
		Sort:    c.Query("sort"),
		Filters: map[string]string{},
	}
	for name, values := range c.Request.URL.Query() {
		if reserved[name] || len(values) == 0 {
			continue
		}
		q.Filters[name] = values[0]
	}
	return q
}

func emptyQuery(q page.Query) bool {
	return q.Term == "" && q.Sort == "" && len(q.Filters) == 0
}

// PageHandler serves the list/create/update/delete endpoints of one page.
type PageHandler[T any] struct {
	h       *Handler
	ctl     *page.Controller[T]
	newForm func() page.Form
}

func (p PageHandler[T]) ensureLoaded(ctx context.Context, force bool) error {
	if force || p.ctl.Snapshot().LoadedAt.IsZero() {
		return p.ctl.Load(ctx)
	}
	return nil
}

// List returns the page view. With no query parameters it is the stored
// view of the page; otherwise the query is derived for this request only.
func (p PageHandler[T]) List(c *gin.Context) {
	if err := p.ensureLoaded(c.Request.Context(), c.Query("reload") == "true"); err != nil {
		snap := p.ctl.Snapshot()
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":  err.Error(),
			"retry":  true,
			"items":  snap.Items,
			"stats":  snap.Stats,
			"status": snap.Status,
		})
		return
	}

	q := queryFrom(c)
	snap := p.ctl.Snapshot()
	items := snap.Items
	if !emptyQuery(q) {
		found, err := p.ctl.Find(q)
		if err != nil {
			p.h.respondError(c, err)
			return
		}
		items = found
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(items),
		"items":    items,
		"stats":    snap.Stats,
		"status":   snap.Status,
		"loadedAt": snap.LoadedAt,
	})
}

// ApplyQuery stores the query as the page's current view
func (p PageHandler[T]) ApplyQuery(c *gin.Context) {
	var q page.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		badRequest(c, err)
		return
	}
	if err := p.ensureLoaded(c.Request.Context(), false); err != nil {
		p.h.respondError(c, err)
		return
	}

	items, err := p.ctl.Apply(q)
	if err != nil {
		p.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items, "query": q})
}

func (p PageHandler[T]) Get(c *gin.Context) {
	if err := p.ensureLoaded(c.Request.Context(), false); err != nil {
		p.h.respondError(c, err)
		return
	}
	item, ok := p.ctl.Lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": p.ctl.Name() + " not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// Draft returns the defaults of the create form
func (p PageHandler[T]) Draft(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"draft": p.ctl.Draft()})
}

func (p PageHandler[T]) Create(c *gin.Context) {
	draft := p.ctl.Draft()
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}
	if err := p.ctl.Create(c.Request.Context(), &draft); err != nil {
		p.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Created successfully", "item": draft})
}

func (p PageHandler[T]) Update(c *gin.Context) {
	form := p.newForm()
	if err := c.ShouldBindJSON(form); err != nil {
		badRequest(c, err)
		return
	}
	if err := p.ctl.Update(c.Request.Context(), c.Param("id"), form); err != nil {
		p.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
}

func (p PageHandler[T]) Delete(c *gin.Context) {
	if err := p.ctl.Delete(c.Request.Context(), c.Param("id")); err != nil {
		p.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// Register mounts the page under rg/path. Create and edit routes are only
// added when the page offers them.
func (p PageHandler[T]) Register(rg *gin.RouterGroup, path string) {
	g := rg.Group(path)
	g.GET("", p.List)
	g.PUT("/query", p.ApplyQuery)
	g.GET("/:id", p.Get)

	create, edit := p.ctl.Writable()
	if create {
		g.GET("/draft", p.Draft)
		g.POST("", p.Create)
	}
	if edit && p.newForm != nil {
		g.PUT("/:id", p.Update)
	}
	if edit {
		g.DELETE("/:id", p.Delete)
	}
}

// PageRoutes binds the generic page endpoints to one controller. A nil
// newForm leaves out the edit route.
func PageRoutes[T any](h *Handler, ctl *page.Controller[T], newForm func() page.Form) PageHandler[T] {
	return PageHandler[T]{h: h, ctl: ctl, newForm: newForm}
}
