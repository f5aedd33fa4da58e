// Recipe HTTP handlers.
//
// This file exposes REST endpoints for recipe resources:
//   - POST   /recipes                (generate from specifications)
//   - GET    /recipes                (list session recipes)
//   - GET    /recipes/{name}         (fetch one)
//   - DELETE /recipes/{name}         (delete one)
//   - DELETE /recipes                (clear session recipes)
//   - POST   /recipes/{name}/adjust  (regenerate under an instruction)
//   - POST   /recipes/format         (normalize free text, no persistence)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. All state is scoped to the
// session id established by the session middleware.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/http/middleware"
	"github.com/plateful/go-recipe-backend/internal/services"
	"github.com/plateful/go-recipe-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RecipeAPI defines the recipe lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecipeAPI interface {
	// Generate creates a recipe from free-form specifications.
	Generate(ctx context.Context, session string, req services.GenerateRequest) (*domain.Recipe, error)
	// Adjust regenerates a stored recipe under an instruction.
	Adjust(ctx context.Context, session, name, instruction string) (*domain.Recipe, error)
	// Format normalizes free text into a structured recipe without persisting.
	Format(ctx context.Context, rawText string) (*domain.Recipe, error)
	// Get loads one recipe by name.
	Get(ctx context.Context, session, name string) (*domain.Recipe, error)
	// List returns every recipe in the session.
	List(ctx context.Context, session string) []domain.Recipe
	// Delete removes one recipe by name.
	Delete(ctx context.Context, session, name string) error
	// DeleteAll clears the session's recipes.
	DeleteAll(ctx context.Context, session string)
}

// PairingAPI defines drink-pairing operations consumed by HTTP handlers.
type PairingAPI interface {
	Generate(ctx context.Context, session, recipeName string, ptype domain.PairingType) (*domain.Pairing, error)
	Get(ctx context.Context, session, recipeName string, ptype domain.PairingType) (*domain.Pairing, bool)
}

// ChatAPI defines conversation operations consumed by HTTP handlers.
type ChatAPI interface {
	Answer(ctx context.Context, session, threadID, message string) (*domain.ChatMessage, error)
	History(ctx context.Context, session, threadID string) []domain.ChatMessage
	Clear(ctx context.Context, session, threadID string)
}

// ImageAPI defines image generation operations consumed by HTTP handlers.
type ImageAPI interface {
	Generate(ctx context.Context, session, recipeName, prompt string) (*domain.Image, error)
	Get(ctx context.Context, session, recipeName string) (*domain.Image, bool)
}

// SocialAPI defines social-post composition consumed by HTTP handlers.
type SocialAPI interface {
	Compose(ctx context.Context, session, recipeName string) (*domain.SocialPost, error)
}

// UploadAPI defines the upload-and-edit flow consumed by HTTP handlers.
type UploadAPI interface {
	Begin(ctx context.Context, session string) *domain.Upload
	Current(ctx context.Context, session string) (*domain.Upload, error)
	Receive(ctx context.Context, session, rawText string) (*domain.Upload, error)
	Edit(ctx context.Context, session, editedText string) (*domain.Upload, error)
	Ask(ctx context.Context, session, question string) (*domain.Upload, error)
	SaveRecipe(ctx context.Context, session string) (*domain.Recipe, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for recipes, pairings, chat, images, social
// posts, and uploads. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	recipeSvc  RecipeAPI
	pairingSvc PairingAPI
	chatSvc    ChatAPI
	imageSvc   ImageAPI
	socialSvc  SocialAPI
	uploadSvc  UploadAPI
}

// New constructs and returns a Handlers instance bound to the given services.
func New(recipes RecipeAPI, pairings PairingAPI, chat ChatAPI, images ImageAPI, social SocialAPI, uploads UploadAPI) *Handlers {
	return &Handlers{
		recipeSvc:  recipes,
		pairingSvc: pairings,
		chatSvc:    chat,
		imageSvc:   images,
		socialSvc:  social,
		uploadSvc:  uploads,
	}
}

// sessionID extracts the session id set by the session middleware. If the
// middleware is absent (tests), it falls back to the X-Session-ID header,
// and finally to "anonymous". It never touches c.Request if it's nil.
func sessionID(c *gin.Context) string {
	if sid, ok := middleware.SessionFrom(c); ok {
		return sid
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(middleware.HeaderSessionID)); h != "" {
			return h
		}
	}
	return "anonymous"
}

//
// DTOs
//

// GenerateRecipeRequest is the JSON payload for recipe generation.
type GenerateRecipeRequest struct {
	// Specifications describes the desired dish in free text.
	Specifications string `json:"specifications" binding:"required" example:"a quick garlic pasta for weeknights"`
	// Servings optionally fixes the serving count; 0 lets the model decide.
	Servings int `json:"servings" example:"4"`
}

// AdjustRecipeRequest is the JSON payload for adjusting a stored recipe.
type AdjustRecipeRequest struct {
	// Instruction describes the change, e.g. "make it vegetarian".
	Instruction string `json:"instruction" binding:"required" example:"make it vegetarian"`
}

// FormatRecipeRequest is the JSON payload for formatting free recipe text.
type FormatRecipeRequest struct {
	Text string `json:"text" binding:"required" example:"Nana's stew: brown the beef, add..."`
}

// ListRecipesResponse wraps a page of the session's recipes. Total counts the
// whole session so clients can page without a second request.
type ListRecipesResponse struct {
	Recipes []domain.Recipe `json:"recipes"`
	Total   int             `json:"total"`
}

//
// Handlers
//

// GenerateRecipe godoc
// @ID          generateRecipe
// @Summary     Generate a recipe
// @Description Generates a recipe from free-form specifications and stores it in the session.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       X-Session-ID  header  string  false "Session ID"  example(9f1c2d3e)
// @Param       body          body    handlers.GenerateRecipeRequest  true  "Generation payload"
//
// @Success     201  {object}  domain.Recipe
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     422  {object}  handlers.ErrorResponse  "Extraction incomplete"
// @Failure     502  {object}  handlers.ErrorResponse  "All models exhausted"
// @Router      /recipes [post]
func (h *Handlers) GenerateRecipe(c *gin.Context) {
	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	recipe, err := h.recipeSvc.Generate(c.Request.Context(), sessionID(c), services.GenerateRequest{
		Specifications: req.Specifications,
		Servings:       req.Servings,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, recipe)
}

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List session recipes
// @Tags        Recipes
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       offset        query   int     false "Items to skip"    default(0)
// @Param       limit         query   int     false "Page size (0 = all)" default(0)
// @Success     200  {object}  handlers.ListRecipesResponse
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	recipes := h.recipeSvc.List(c.Request.Context(), sessionID(c))

	offset := utils.AtoiDefault(c.Query("offset"), 0)
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	lo, hi := utils.Window(len(recipes), offset, limit)

	ok(c, http.StatusOK, ListRecipesResponse{Recipes: recipes[lo:hi], Total: len(recipes)})
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Fetch one recipe by name
// @Tags        Recipes
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       name          path    string  true  "Recipe name"
// @Success     200  {object}  domain.Recipe
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{name} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeSvc.Get(c.Request.Context(), sessionID(c), c.Param("name"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, recipe)
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete one recipe by name
// @Tags        Recipes
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       name          path    string  true  "Recipe name"
// @Success     204  {string}  string "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{name} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	if err := h.recipeSvc.Delete(c.Request.Context(), sessionID(c), c.Param("name")); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// DeleteAllRecipes godoc
// @ID          deleteAllRecipes
// @Summary     Delete every recipe in the session
// @Tags        Recipes
// @Param       X-Session-ID  header  string  false "Session ID"
// @Success     204  {string}  string "No Content"
// @Router      /recipes [delete]
func (h *Handlers) DeleteAllRecipes(c *gin.Context) {
	h.recipeSvc.DeleteAll(c.Request.Context(), sessionID(c))
	noContent(c)
}

// AdjustRecipe godoc
// @ID          adjustRecipe
// @Summary     Adjust a stored recipe
// @Description Regenerates the named recipe under an instruction; the result replaces the stored entry.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       name          path    string  true  "Recipe name"
// @Param       body          body    handlers.AdjustRecipeRequest  true  "Adjustment payload"
// @Success     200  {object}  domain.Recipe
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Extraction incomplete"
// @Failure     502  {object}  handlers.ErrorResponse  "All models exhausted"
// @Router      /recipes/{name}/adjust [post]
func (h *Handlers) AdjustRecipe(c *gin.Context) {
	var req AdjustRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Instruction) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "instruction required")
		return
	}

	recipe, err := h.recipeSvc.Adjust(c.Request.Context(), sessionID(c), c.Param("name"), req.Instruction)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, recipe)
}

// FormatRecipe godoc
// @ID          formatRecipe
// @Summary     Format free recipe text
// @Description Normalizes pasted or uploaded recipe text into the structured schema. Nothing is persisted.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.FormatRecipeRequest  true  "Raw text"
// @Success     200  {object}  domain.Recipe
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     422  {object}  handlers.ErrorResponse  "Extraction incomplete"
// @Failure     502  {object}  handlers.ErrorResponse  "All models exhausted"
// @Router      /recipes/format [post]
func (h *Handlers) FormatRecipe(c *gin.Context) {
	var req FormatRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	recipe, err := h.recipeSvc.Format(c.Request.Context(), req.Text)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, recipe)
}
