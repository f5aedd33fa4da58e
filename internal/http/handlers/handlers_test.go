package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/services"
)

// Function-field fakes: each test scripts only the methods it expects the
// handler to call. An unscripted call panics, which is the point.

type fakeRecipeAPI struct {
	generate  func(ctx context.Context, session string, req services.GenerateRequest) (*domain.Recipe, error)
	adjust    func(ctx context.Context, session, name, instruction string) (*domain.Recipe, error)
	format    func(ctx context.Context, rawText string) (*domain.Recipe, error)
	get       func(ctx context.Context, session, name string) (*domain.Recipe, error)
	list      func(ctx context.Context, session string) []domain.Recipe
	deleteFn  func(ctx context.Context, session, name string) error
	deleteAll func(ctx context.Context, session string)
}

func (f *fakeRecipeAPI) Generate(ctx context.Context, session string, req services.GenerateRequest) (*domain.Recipe, error) {
	return f.generate(ctx, session, req)
}
func (f *fakeRecipeAPI) Adjust(ctx context.Context, session, name, instruction string) (*domain.Recipe, error) {
	return f.adjust(ctx, session, name, instruction)
}
func (f *fakeRecipeAPI) Format(ctx context.Context, rawText string) (*domain.Recipe, error) {
	return f.format(ctx, rawText)
}
func (f *fakeRecipeAPI) Get(ctx context.Context, session, name string) (*domain.Recipe, error) {
	return f.get(ctx, session, name)
}
func (f *fakeRecipeAPI) List(ctx context.Context, session string) []domain.Recipe {
	return f.list(ctx, session)
}
func (f *fakeRecipeAPI) Delete(ctx context.Context, session, name string) error {
	return f.deleteFn(ctx, session, name)
}
func (f *fakeRecipeAPI) DeleteAll(ctx context.Context, session string) {
	f.deleteAll(ctx, session)
}

type fakePairingAPI struct {
	generate func(ctx context.Context, session, recipeName string, ptype domain.PairingType) (*domain.Pairing, error)
	get      func(ctx context.Context, session, recipeName string, ptype domain.PairingType) (*domain.Pairing, bool)
}

func (f *fakePairingAPI) Generate(ctx context.Context, session, recipeName string, ptype domain.PairingType) (*domain.Pairing, error) {
	return f.generate(ctx, session, recipeName, ptype)
}
func (f *fakePairingAPI) Get(ctx context.Context, session, recipeName string, ptype domain.PairingType) (*domain.Pairing, bool) {
	return f.get(ctx, session, recipeName, ptype)
}

type fakeChatAPI struct {
	answer  func(ctx context.Context, session, threadID, message string) (*domain.ChatMessage, error)
	history func(ctx context.Context, session, threadID string) []domain.ChatMessage
	clear   func(ctx context.Context, session, threadID string)
}

func (f *fakeChatAPI) Answer(ctx context.Context, session, threadID, message string) (*domain.ChatMessage, error) {
	return f.answer(ctx, session, threadID, message)
}
func (f *fakeChatAPI) History(ctx context.Context, session, threadID string) []domain.ChatMessage {
	return f.history(ctx, session, threadID)
}
func (f *fakeChatAPI) Clear(ctx context.Context, session, threadID string) {
	f.clear(ctx, session, threadID)
}

type fakeImageAPI struct {
	generate func(ctx context.Context, session, recipeName, prompt string) (*domain.Image, error)
	get      func(ctx context.Context, session, recipeName string) (*domain.Image, bool)
}

func (f *fakeImageAPI) Generate(ctx context.Context, session, recipeName, prompt string) (*domain.Image, error) {
	return f.generate(ctx, session, recipeName, prompt)
}
func (f *fakeImageAPI) Get(ctx context.Context, session, recipeName string) (*domain.Image, bool) {
	return f.get(ctx, session, recipeName)
}

type fakeSocialAPI struct {
	compose func(ctx context.Context, session, recipeName string) (*domain.SocialPost, error)
}

func (f *fakeSocialAPI) Compose(ctx context.Context, session, recipeName string) (*domain.SocialPost, error) {
	return f.compose(ctx, session, recipeName)
}

type fakeUploadAPI struct {
	begin    func(ctx context.Context, session string) *domain.Upload
	current  func(ctx context.Context, session string) (*domain.Upload, error)
	receive  func(ctx context.Context, session, rawText string) (*domain.Upload, error)
	edit     func(ctx context.Context, session, editedText string) (*domain.Upload, error)
	ask      func(ctx context.Context, session, question string) (*domain.Upload, error)
	saveFunc func(ctx context.Context, session string) (*domain.Recipe, error)
}

func (f *fakeUploadAPI) Begin(ctx context.Context, session string) *domain.Upload {
	return f.begin(ctx, session)
}
func (f *fakeUploadAPI) Current(ctx context.Context, session string) (*domain.Upload, error) {
	return f.current(ctx, session)
}
func (f *fakeUploadAPI) Receive(ctx context.Context, session, rawText string) (*domain.Upload, error) {
	return f.receive(ctx, session, rawText)
}
func (f *fakeUploadAPI) Edit(ctx context.Context, session, editedText string) (*domain.Upload, error) {
	return f.edit(ctx, session, editedText)
}
func (f *fakeUploadAPI) Ask(ctx context.Context, session, question string) (*domain.Upload, error) {
	return f.ask(ctx, session, question)
}
func (f *fakeUploadAPI) SaveRecipe(ctx context.Context, session string) (*domain.Recipe, error) {
	return f.saveFunc(ctx, session)
}

// testDeps bundles one fake per service; zero-value fakes panic on use.
type testDeps struct {
	recipes  fakeRecipeAPI
	pairings fakePairingAPI
	chat     fakeChatAPI
	images   fakeImageAPI
	social   fakeSocialAPI
	uploads  fakeUploadAPI
}

// newTestRouter wires the handlers under the same paths the real router uses.
func newTestRouter(d *testDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(&d.recipes, &d.pairings, &d.chat, &d.images, &d.social, &d.uploads)

	r := gin.New()
	r.POST("/recipes", h.GenerateRecipe)
	r.GET("/recipes", h.ListRecipes)
	r.DELETE("/recipes", h.DeleteAllRecipes)
	r.POST("/recipes/format", h.FormatRecipe)
	r.GET("/recipes/:name", h.GetRecipe)
	r.DELETE("/recipes/:name", h.DeleteRecipe)
	r.POST("/recipes/:name/adjust", h.AdjustRecipe)
	r.POST("/pairings", h.GeneratePairing)
	r.GET("/pairings/:name", h.GetPairing)
	r.POST("/chat", h.Chat)
	r.GET("/chat/:thread", h.ChatHistory)
	r.DELETE("/chat/:thread", h.ClearChat)
	r.POST("/images", h.GenerateImage)
	r.GET("/images/:name", h.GetImage)
	r.POST("/social-posts", h.ComposeSocialPost)
	r.POST("/uploads", h.SubmitUpload)
	r.GET("/uploads", h.CurrentUpload)
	r.PUT("/uploads/text", h.EditUpload)
	r.POST("/uploads/question", h.AskUpload)
	r.POST("/uploads/save", h.SaveUpload)
	return r
}

// do issues a JSON request against the router and returns the recorder.
func do(t *testing.T, r *gin.Engine, method, path, body, session string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, status, w.Body.String())
	}
}

func wantErrCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	wantStatus(t, w, status)
	if !strings.Contains(w.Body.String(), `"code":"`+code+`"`) {
		t.Fatalf("body missing code %q: %s", code, w.Body.String())
	}
}

func intp(n int) *int { return &n }

func sampleRecipe() *domain.Recipe {
	return &domain.Recipe{
		Name:         "Garlic Pasta",
		PrepMinutes:  intp(5),
		CookMinutes:  intp(15),
		TotalMinutes: intp(20),
		Ingredients:  []string{"- Pasta", "- Garlic"},
		Directions:   []string{"Boil pasta.", "Saute garlic."},
	}
}
