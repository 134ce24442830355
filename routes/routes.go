package routes

import (
	"github.com/gin-gonic/gin"

	"food-delivery-admin/handlers"
	"food-delivery-admin/middleware"
	"food-delivery-admin/page"
	"food-delivery-admin/pages"
	"food-delivery-admin/session"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, sessions *session.Manager) {
	p := h.Pages()

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Session routes ─────────────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(sessions))
	{
		auth.POST("/auth/logout", h.Logout)
		auth.GET("/session", h.Session)
		auth.POST("/operators", h.RegisterOperator)
		auth.GET("/dashboard", h.Dashboard)
	}

	// ── Console pages ──────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(sessions))
	{
		handlers.PageRoutes(h, p.Addresses, nil).Register(admin, "/addresses")
		handlers.PageRoutes(h, p.Cards, nil).Register(admin, "/cards")
		handlers.PageRoutes(h, p.Categories.Controller, func() page.Form { return &pages.CategoryForm{} }).Register(admin, "/categories")
		handlers.PageRoutes(h, p.Banners, func() page.Form { return &pages.BannerForm{} }).Register(admin, "/banners")
		handlers.PageRoutes(h, p.FreeFood, func() page.Form { return &pages.FreeFoodForm{} }).Register(admin, "/free-food-requests")
		handlers.PageRoutes(h, p.Help.Controller, func() page.Form { return &pages.HelpForm{} }).Register(admin, "/help-requests")
		handlers.PageRoutes(h, p.Orders.Controller, func() page.Form { return &pages.OrderForm{} }).Register(admin, "/orders")
		handlers.PageRoutes(h, p.Users, func() page.Form { return &pages.UserForm{} }).Register(admin, "/users")
		handlers.PageRoutes(h, p.Notifications, nil).Register(admin, "/notifications")

		admin.POST("/categories/with-image", h.CreateCategoryWithImage)
		admin.PUT("/categories/:id/with-image", h.UpdateCategoryWithImage)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
		admin.PUT("/help-requests/:id/assign", h.AssignHelpRequest)
		admin.PUT("/users/:id/status", h.UpdateUserStatus)
	}

	// ── Support chat ───────────────────────────────────────────────
	chats := r.Group("/api/chats")
	chats.Use(middleware.AuthRequired(sessions))
	{
		chats.GET("", h.ListChats)
		chats.GET("/stream", h.StreamChats)
		chats.GET("/:id/messages", h.GetChatMessages)
		chats.GET("/:id/stream", h.StreamChatMessages)
		chats.POST("/:id/messages", h.SendChatMessage)
		chats.PUT("/:id/end", h.EndChat)
	}

	// ── Notifications ──────────────────────────────────────────────
	notify := r.Group("/api/notifications")
	notify.Use(middleware.AuthRequired(sessions))
	{
		notify.POST("/send", h.SendNotification)
		notify.GET("/recipients", h.SearchRecipients)
		notify.GET("/types", h.NotificationTypes)
	}
}
