// Social post HTTP handlers.
//
//   - POST /social-posts   (compose a post for a stored recipe)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ComposeSocialPostRequest is the JSON payload for social post composition.
type ComposeSocialPostRequest struct {
	// RecipeName must name a recipe already stored in the session.
	RecipeName string `json:"recipe_name" binding:"required" example:"Garlic Pasta"`
}

// ComposeSocialPost godoc
// @ID          composeSocialPost
// @Summary     Compose a social post
// @Description Asks the provider for a JSON-formatted post (text, hashtags, image prompt) about the recipe and persists it.
// @Tags        Social
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       body          body    handlers.ComposeSocialPostRequest  true  "Post payload"
// @Success     201  {object}  domain.SocialPost
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Extraction incomplete"
// @Failure     502  {object}  handlers.ErrorResponse  "All models exhausted"
// @Router      /social-posts [post]
func (h *Handlers) ComposeSocialPost(c *gin.Context) {
	var req ComposeSocialPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	post, err := h.socialSvc.Compose(c.Request.Context(), sessionID(c), req.RecipeName)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, post)
}
