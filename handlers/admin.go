package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"food-delivery-admin/logger"
	"food-delivery-admin/middleware"
	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/pages"
)

// tab is what the dashboard shell needs from every page
type tab interface {
	Name() string
	Load(ctx context.Context) error
	Stats() page.Stats
	State() page.Status
}

func (h *Handler) tabs() []tab {
	return []tab{
		h.pages.Orders,
		h.pages.Users,
		h.pages.Categories,
		h.pages.Banners,
		h.pages.FreeFood,
		h.pages.Help,
		h.pages.Addresses,
		h.pages.Cards,
		h.pages.Notifications,
	}
}

type tabSummary struct {
	Name   string      `json:"name"`
	Stats  page.Stats  `json:"stats"`
	Status page.Status `json:"status"`
}

// Dashboard reloads every page concurrently and returns the summary cards
// of each. A failing page keeps its last stats and reports its error.
func (h *Handler) Dashboard(c *gin.Context) {
	tabs := h.tabs()
	summaries := make([]tabSummary, len(tabs))

	var (
		mu     sync.Mutex
		failed []string
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(4)
	for i, t := range tabs {
		g.Go(func() error {
			if err := t.Load(ctx); err != nil {
				h.log.Warning("dashboard page failed to load",
					logger.String("page", t.Name()), logger.Error(err))
				mu.Lock()
				failed = append(failed, t.Name())
				mu.Unlock()
			}
			summaries[i] = tabSummary{Name: t.Name(), Stats: t.Stats(), Status: t.State()}
			return nil
		})
	}
	_ = g.Wait()

	c.JSON(http.StatusOK, gin.H{
		"operator": middleware.GetEmail(c),
		"tabs":     summaries,
		"failed":   failed,
	})
}

type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus is the inline status selector of the orders table
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.pages.Orders.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated to " + string(req.Status),
	})
}

type AssignRequest struct {
	AssignedTo string `json:"assignedTo"`
}

// AssignHelpRequest assigns a help request, by default to the caller
func (h *Handler) AssignHelpRequest(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.AssignedTo == "" {
		req.AssignedTo = middleware.GetEmail(c)
	}

	if err := h.pages.Help.Assign(c.Request.Context(), c.Param("id"), req.AssignedTo); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request assigned to " + req.AssignedTo})
}

// UpdateUserStatus is the block/unblock action of the users table
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	var form pages.UserStatusForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.pages.Users.Update(c.Request.Context(), c.Param("id"), &form); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User status updated to " + string(form.Status)})
}
