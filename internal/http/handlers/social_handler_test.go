package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/extract"
	"github.com/plateful/go-recipe-backend/internal/services"
)

func TestComposeSocialPost_Created(t *testing.T) {
	d := &testDeps{}
	d.social.compose = func(_ context.Context, _, recipeName string) (*domain.SocialPost, error) {
		if recipeName != "Garlic Pasta" {
			t.Fatalf("recipe = %q", recipeName)
		}
		return &domain.SocialPost{
			Post:        "Garlic Pasta night!",
			Hashtags:    []string{"#pasta"},
			ImagePrompt: "steaming bowl",
		}, nil
	}
	r := newTestRouter(d)

	w := do(t, r, http.MethodPost, "/social-posts", `{"recipe_name":"Garlic Pasta"}`, "s1")
	wantStatus(t, w, http.StatusCreated)
	if !strings.Contains(w.Body.String(), `"hashtags":["#pasta"]`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestComposeSocialPost_MissingRecipeName(t *testing.T) {
	d := &testDeps{}
	r := newTestRouter(d)

	w := do(t, r, http.MethodPost, "/social-posts", `{}`, "s1")
	wantErrCode(t, w, http.StatusBadRequest, ErrCodeBadRequest)
}

func TestComposeSocialPost_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"recipe_missing", services.ErrRecipeNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"no_json_block", extract.ErrNoJSONBlock, http.StatusUnprocessableEntity, ErrCodeExtractionIncomplete},
		{"bad_json_block", &extract.JSONBlockError{Err: errors.New("unexpected end of input")}, http.StatusUnprocessableEntity, ErrCodeExtractionIncomplete},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &testDeps{}
			d.social.compose = func(context.Context, string, string) (*domain.SocialPost, error) {
				return nil, tc.err
			}
			r := newTestRouter(d)

			w := do(t, r, http.MethodPost, "/social-posts", `{"recipe_name":"Garlic Pasta"}`, "s1")
			wantErrCode(t, w, tc.status, tc.code)
		})
	}
}
