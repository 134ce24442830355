package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-admin/middleware"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Login authenticates an operator and returns a session token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, op, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"operator": gin.H{
			"id":    op.ID,
			"name":  op.Name,
			"email": op.Email,
		},
	})
}

// Logout revokes the caller's token
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.SignOut(middleware.GetToken(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Session reports who is signed in; the shell renders the dashboard on 200
// and the login form on 401.
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"operator": gin.H{
			"id":    middleware.GetOperatorID(c),
			"email": middleware.GetEmail(c),
		},
	})
}

// RegisterOperator adds another console account
func (h *Handler) RegisterOperator(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	op, err := h.sessions.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Operator created successfully",
		"operator": op,
	})
}
