// Image HTTP handlers.
//
//   - POST /images          (generate an image for a stored recipe)
//   - GET  /images/{name}   (fetch a previously generated image)
//
// Image generation is synchronous from the client's point of view: the
// handler blocks while the provider's asynchronous job is polled to
// completion, bounded by the request context and the configured max wait.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenerateImageRequest is the JSON payload for image generation.
type GenerateImageRequest struct {
	// RecipeName must name a recipe already stored in the session.
	RecipeName string `json:"recipe_name" binding:"required" example:"Garlic Pasta"`
	// Prompt optionally overrides the derived photo prompt.
	Prompt string `json:"prompt" example:"overhead shot, rustic wooden table"`
}

// GenerateImage godoc
// @ID          generateImage
// @Summary     Generate a recipe image
// @Description Submits an image job for the recipe and polls it to completion.
// @Tags        Images
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       body          body    handlers.GenerateImageRequest  true  "Image payload"
// @Success     201  {object}  domain.Image
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Image job failed"
// @Failure     504  {object}  handlers.ErrorResponse  "Image job timed out"
// @Router      /images [post]
func (h *Handlers) GenerateImage(c *gin.Context) {
	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	img, err := h.imageSvc.Generate(c.Request.Context(), sessionID(c), req.RecipeName, req.Prompt)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, img)
}

// GetImage godoc
// @ID          getImage
// @Summary     Fetch a stored recipe image
// @Tags        Images
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       name          path    string  true  "Recipe name"
// @Success     200  {object}  domain.Image
// @Failure     404  {object}  handlers.ErrorResponse  "Image not found"
// @Router      /images/{name} [get]
func (h *Handlers) GetImage(c *gin.Context) {
	img, found := h.imageSvc.Get(c.Request.Context(), sessionID(c), c.Param("name"))
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "image not found")
		return
	}
	ok(c, http.StatusOK, img)
}
