// Chat HTTP handlers.
//
//   - POST   /chat                (send a message, get the assistant reply)
//   - GET    /chat/{thread}       (thread history)
//   - DELETE /chat/{thread}       (clear a thread)
//
// Threads group turns within a session; clients typically use one thread per
// recipe plus a general one.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/utils"
)

// ChatRequest is the JSON payload for a conversation turn.
type ChatRequest struct {
	// ThreadID groups turns; defaults to "general" when empty.
	ThreadID string `json:"thread_id" example:"garlic-pasta"`
	// Message is the user's message.
	Message string `json:"message" binding:"required" example:"Can I use frozen garlic?"`
}

// ChatHistoryResponse wraps a page of a thread's ordered turns. Total counts
// the whole thread.
type ChatHistoryResponse struct {
	ThreadID string               `json:"thread_id"`
	Messages []domain.ChatMessage `json:"messages"`
	Total    int                  `json:"total"`
}

// defaultThread is used when the client does not name one.
const defaultThread = "general"

func threadOrDefault(id string) string {
	if t := strings.TrimSpace(id); t != "" {
		return t
	}
	return defaultThread
}

// Chat godoc
// @ID          chat
// @Summary     Send a chat message
// @Description Appends the message to the thread, obtains the assistant reply over the model fallback list, and persists both turns.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       body          body    handlers.ChatRequest  true  "Chat payload"
// @Success     200  {object}  domain.ChatMessage
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     502  {object}  handlers.ErrorResponse  "All models exhausted"
// @Router      /chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	reply, err := h.chatSvc.Answer(c.Request.Context(), sessionID(c), threadOrDefault(req.ThreadID), req.Message)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, reply)
}

// ChatHistory godoc
// @ID          chatHistory
// @Summary     Fetch a thread's history
// @Tags        Chat
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       thread        path    string  true  "Thread ID"
// @Param       offset        query   int     false "Turns to skip"       default(0)
// @Param       limit         query   int     false "Page size (0 = all)" default(0)
// @Success     200  {object}  handlers.ChatHistoryResponse
// @Router      /chat/{thread} [get]
func (h *Handlers) ChatHistory(c *gin.Context) {
	thread := threadOrDefault(c.Param("thread"))
	msgs := h.chatSvc.History(c.Request.Context(), sessionID(c), thread)

	offset := utils.AtoiDefault(c.Query("offset"), 0)
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	lo, hi := utils.Window(len(msgs), offset, limit)

	ok(c, http.StatusOK, ChatHistoryResponse{ThreadID: thread, Messages: msgs[lo:hi], Total: len(msgs)})
}

// ClearChat godoc
// @ID          clearChat
// @Summary     Clear a thread's history
// @Tags        Chat
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       thread        path    string  true  "Thread ID"
// @Success     204  {string}  string "No Content"
// @Router      /chat/{thread} [delete]
func (h *Handlers) ClearChat(c *gin.Context) {
	h.chatSvc.Clear(c.Request.Context(), sessionID(c), threadOrDefault(c.Param("thread")))
	noContent(c)
}
