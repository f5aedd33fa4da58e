// Upload HTTP handlers.
//
// The upload-and-edit flow is the only stateful sequence in the API:
//
//   - POST /uploads            (submit extracted text; empty body restarts the flow)
//   - GET  /uploads            (current flow state)
//   - PUT  /uploads/text       (replace the working text with the user's edit)
//   - POST /uploads/question   (ask a question about the working text)
//   - POST /uploads/save       (format, persist as a recipe, end the flow)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UploadTextRequest carries raw or edited recipe text for the upload flow.
type UploadTextRequest struct {
	Text string `json:"text" example:"Nana's stew: brown the beef, add..."`
}

// UploadQuestionRequest is the JSON payload for questions about the upload.
type UploadQuestionRequest struct {
	Question string `json:"question" binding:"required" example:"What can replace the beef?"`
}

// SubmitUpload godoc
// @ID          submitUpload
// @Summary     Submit uploaded recipe text
// @Description Stores the extracted text and moves the flow to "extracted". An empty text restarts the flow in "awaiting_upload".
// @Tags        Uploads
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       body          body    handlers.UploadTextRequest  true  "Upload payload"
// @Success     201  {object}  domain.Upload
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /uploads [post]
func (h *Handlers) SubmitUpload(c *gin.Context) {
	var req UploadTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		up := h.uploadSvc.Begin(c.Request.Context(), sessionID(c))
		ok(c, http.StatusCreated, up)
		return
	}

	up, err := h.uploadSvc.Receive(c.Request.Context(), sessionID(c), req.Text)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, up)
}

// CurrentUpload godoc
// @ID          currentUpload
// @Summary     Fetch the current upload flow state
// @Tags        Uploads
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Success     200  {object}  domain.Upload
// @Failure     404  {object}  handlers.ErrorResponse  "No upload in progress"
// @Router      /uploads [get]
func (h *Handlers) CurrentUpload(c *gin.Context) {
	up, err := h.uploadSvc.Current(c.Request.Context(), sessionID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, up)
}

// EditUpload godoc
// @ID          editUpload
// @Summary     Replace the upload's working text
// @Description Moves the flow to "user_edited" and clears any prior answer.
// @Tags        Uploads
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       body          body    handlers.UploadTextRequest  true  "Edited text"
// @Success     200  {object}  domain.Upload
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "No upload in progress"
// @Failure     409  {object}  handlers.ErrorResponse  "Flow not in an editable state"
// @Router      /uploads/text [put]
func (h *Handlers) EditUpload(c *gin.Context) {
	var req UploadTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	up, err := h.uploadSvc.Edit(c.Request.Context(), sessionID(c), req.Text)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, up)
}

// AskUpload godoc
// @ID          askUpload
// @Summary     Ask a question about the working text
// @Description Answers via the model fallback list and moves the flow to "answered".
// @Tags        Uploads
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Param       body          body    handlers.UploadQuestionRequest  true  "Question payload"
// @Success     200  {object}  domain.Upload
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "No upload in progress"
// @Failure     409  {object}  handlers.ErrorResponse  "Flow has no working text yet"
// @Failure     502  {object}  handlers.ErrorResponse  "All models exhausted"
// @Router      /uploads/question [post]
func (h *Handlers) AskUpload(c *gin.Context) {
	var req UploadQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	up, err := h.uploadSvc.Ask(c.Request.Context(), sessionID(c), req.Question)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, up)
}

// SaveUpload godoc
// @ID          saveUpload
// @Summary     Save the upload as a recipe
// @Description Formats the working text into the structured schema, persists it in the session, and ends the flow.
// @Tags        Uploads
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session ID"
// @Success     201  {object}  domain.Recipe
// @Failure     404  {object}  handlers.ErrorResponse  "No upload in progress"
// @Failure     409  {object}  handlers.ErrorResponse  "Flow has no working text yet"
// @Failure     422  {object}  handlers.ErrorResponse  "Extraction incomplete / reserved name"
// @Failure     502  {object}  handlers.ErrorResponse  "All models exhausted"
// @Router      /uploads/save [post]
func (h *Handlers) SaveUpload(c *gin.Context) {
	recipe, err := h.uploadSvc.SaveRecipe(c.Request.Context(), sessionID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, recipe)
}
