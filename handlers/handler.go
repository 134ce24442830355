package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-admin/chat"
	"food-delivery-admin/functions"
	"food-delivery-admin/logger"
	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/pages"
	"food-delivery-admin/session"
	"food-delivery-admin/statemachine"
	"food-delivery-admin/upload"
)

// Pages holds one controller per console tab.
type Pages struct {
	Addresses     *page.Controller[models.Address]
	Cards         *page.Controller[models.Card]
	Categories    *pages.Categories
	Banners       *page.Controller[models.Banner]
	FreeFood      *page.Controller[models.FreeFoodRequest]
	Help          *pages.HelpRequests
	Orders        *pages.Orders
	Users         *page.Controller[models.User]
	Notifications *page.Controller[models.Notification]
}

type Handler struct {
	sessions  *session.Manager
	pages     Pages
	chat      *chat.Controller
	functions *functions.Service
	log       logger.ILogger
}

func New(sessions *session.Manager, p Pages, chats *chat.Controller, fns *functions.Service, log logger.ILogger) *Handler {
	return &Handler{
		sessions:  sessions,
		pages:     p,
		chat:      chats,
		functions: fns,
		log:       log,
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Write failures
// carry the backend message verbatim; read failures invite a retry.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		validation *page.ValidationError
		read       *page.ReadError
		write      *page.WriteError
	)

	switch {
	case errors.As(err, &validation), errors.Is(err, upload.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, session.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, session.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, page.ErrGone):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, statemachine.ErrInvalidTransition), errors.Is(err, chat.ErrEnded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, functions.ErrNoRecipient):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, page.ErrReadOnly):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": err.Error()})
	case errors.As(err, &read):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "retry": true})
	case errors.As(err, &write):
		h.log.Error("write failed", logger.String("path", c.FullPath()), logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", logger.String("path", c.FullPath()), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) Pages() Pages { return h.pages }
