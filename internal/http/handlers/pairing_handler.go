// Pairing HTTP handlers.
//
//   - POST /pairings                  (generate a pairing for a stored recipe)
//   - GET  /pairings/{name}           (fetch a stored pairing, ?type=wine)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/go-recipe-backend/internal/domain"
)

// GeneratePairingRequest is the JSON payload for pairing generation.
type GeneratePairingRequest struct {
	// RecipeName must name a recipe already stored in the session.
	RecipeName string `json:"recipe_name" binding:"required" example:"Garlic Pasta"`
	// Type is one of: wine, beer, cocktail.
	Type string `json:"type" binding:"required" example:"wine"`
}

// GeneratePairing godoc
// @ID          generatePairing
// @Summary     Generate a drink pairing
// @Description Generates a wine, beer, or cocktail pairing for a stored recipe.
// @Tags        Pairings
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       body          body    handlers.GeneratePairingRequest  true  "Pairing payload"
// @Success     201  {object}  domain.Pairing
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request / unknown pairing type"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Extraction incomplete"
// @Failure     502  {object}  handlers.ErrorResponse  "All models exhausted"
// @Router      /pairings [post]
func (h *Handlers) GeneratePairing(c *gin.Context) {
	var req GeneratePairingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	pairing, err := h.pairingSvc.Generate(c.Request.Context(), sessionID(c), req.RecipeName, domain.PairingType(req.Type))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, pairing)
}

// GetPairing godoc
// @ID          getPairing
// @Summary     Fetch a stored pairing
// @Tags        Pairings
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       name          path    string  true  "Recipe name"
// @Param       type          query   string  true  "Pairing type (wine|beer|cocktail)"
// @Success     200  {object}  domain.Pairing
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown pairing type"
// @Failure     404  {object}  handlers.ErrorResponse  "Pairing not found"
// @Router      /pairings/{name} [get]
func (h *Handlers) GetPairing(c *gin.Context) {
	ptype := domain.PairingType(c.Query("type"))
	if !domain.KnownPairingType(ptype) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "type must be one of: wine, beer, cocktail")
		return
	}

	pairing, found := h.pairingSvc.Get(c.Request.Context(), sessionID(c), c.Param("name"), ptype)
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "pairing not found")
		return
	}
	ok(c, http.StatusOK, pairing)
}
