package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-admin/models"
	"food-delivery-admin/statemachine"
)

// latest keeps only the newest pending snapshot for a slow stream reader.
type latest[T any] struct {
	ch chan T
}

func newLatest[T any]() latest[T] {
	return latest[T]{ch: make(chan T, 1)}
}

func (l latest[T]) put(v T) {
	for {
		select {
		case l.ch <- v:
			return
		default:
		}
		select {
		case <-l.ch:
		default:
		}
	}
}

// ListChats returns the loaded conversations, filtered by ?q=
func (h *Handler) ListChats(c *gin.Context) {
	chats := h.chat.Search(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"count": len(chats), "chats": chats})
}

// GetChatMessages selects a conversation and returns its messages
func (h *Handler) GetChatMessages(c *gin.Context) {
	if err := h.chat.Select(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	msgs := h.chat.Messages()
	c.JSON(http.StatusOK, gin.H{"chatId": c.Param("id"), "count": len(msgs), "messages": msgs})
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) SendChatMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.chat.Send(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// EndChat closes a conversation on the operator's behalf
func (h *Handler) EndChat(c *gin.Context) {
	if err := h.chat.End(c.Request.Context(), c.Param("id"), statemachine.ActorOperator); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chat ended"})
}

// StreamChats pushes the conversation list as server-sent events
func (h *Handler) StreamChats(c *gin.Context) {
	updates := newLatest[[]models.ChatStatus]()
	unsub, err := h.chat.WatchConversations(c.Request.Context(), updates.put)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer unsub()

	stream(c, "chats", updates)
}

// StreamChatMessages pushes one conversation's messages as server-sent events
func (h *Handler) StreamChatMessages(c *gin.Context) {
	updates := newLatest[[]models.ChatMessage]()
	unsub, err := h.chat.WatchMessages(c.Request.Context(), c.Param("id"), updates.put)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer unsub()

	stream(c, "messages", updates)
}

func stream[T any](c *gin.Context, event string, updates latest[T]) {
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case v := <-updates.ch:
			c.SSEvent(event, v)
			return true
		}
	})
}
