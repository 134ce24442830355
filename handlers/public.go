package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-admin/models"
	"food-delivery-admin/statemachine"
)

// GetStateMachineInfo returns the chat lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": []models.ChatState{models.ChatEnded},
		"description":     "Support Chat Lifecycle State Machine",
	})
}

func Health(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": service,
			"version": "1.0.0",
		})
	}
}
