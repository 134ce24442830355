package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-admin/functions"
	"food-delivery-admin/logger"
	"food-delivery-admin/models"
)

// SendNotificationRequest selects one of the three send modes
type SendNotificationRequest struct {
	Mode         string `json:"mode" binding:"required,oneof=promotional direct broadcast"`
	Title        string `json:"title" binding:"required"`
	Body         string `json:"body" binding:"required"`
	OfferID      string `json:"offerId"`
	ImageURL     string `json:"imageUrl"`
	TargetUsers  string `json:"targetUsers"`
	UserID       string `json:"userId"`
	RestaurantID string `json:"restaurantId"`
}

func (h *Handler) SendNotification(c *gin.Context) {
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	target := functions.TargetRequest{
		UserID:       req.UserID,
		RestaurantID: req.RestaurantID,
		Title:        req.Title,
		Body:         req.Body,
	}

	var (
		res functions.Result
		err error
	)
	switch req.Mode {
	case "promotional":
		res, err = h.functions.SendPromotionalOffer(ctx, functions.OfferRequest{
			Title:       req.Title,
			Body:        req.Body,
			OfferID:     req.OfferID,
			ImageURL:    req.ImageURL,
			TargetUsers: req.TargetUsers,
		})
	case "direct":
		res, err = h.functions.SendDirectMessage(ctx, target)
	default:
		res, err = h.functions.SendNotificationFromAdmin(ctx, target)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	// the history tab picks the new record up on its next load
	if err := h.pages.Notifications.Load(ctx); err != nil {
		h.log.Warning("failed to refresh notification history", logger.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": res.Message(),
		"result":  res,
	})
}

// SearchRecipients is the prefix search behind the direct/broadcast target picker
func (h *Handler) SearchRecipients(c *gin.Context) {
	results, err := h.functions.SearchRecipients(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "results": results})
}

// NotificationTypes lists the history type tags
func (h *Handler) NotificationTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": []models.NotificationType{
		models.NotifyPromotional,
		models.NotifyDirect,
		models.NotifyBroadcast,
	}})
}
