package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/plateful/go-recipe-backend/internal/domain"
)

const garlicPasta = `Here is your recipe!

Recipe Name: Garlic Pasta

Description: A quick weeknight pasta.

Ingredients:
- Pasta
- Garlic

Steps:
1. Boil pasta.
2. Saute garlic.

Cook time: 15 minutes
Prep time: 5 minutes
Total time: 20 minutes
Servings: 2
`

func TestRecipe_LabeledSections(t *testing.T) {
	r, err := Recipe(garlicPasta)
	if err != nil {
		t.Fatalf("Recipe() error: %v", err)
	}

	if r.Name != "Garlic Pasta" {
		t.Fatalf("name = %q", r.Name)
	}
	if r.Description != "A quick weeknight pasta." {
		t.Fatalf("description = %q", r.Description)
	}
	if len(r.Ingredients) != 2 || r.Ingredients[0] != "- Pasta" || r.Ingredients[1] != "- Garlic" {
		t.Fatalf("ingredients = %#v", r.Ingredients)
	}
	if len(r.Directions) != 2 || r.Directions[0] != "Boil pasta." || r.Directions[1] != "Saute garlic." {
		t.Fatalf("directions = %#v", r.Directions)
	}
	if r.PrepMinutes == nil || *r.PrepMinutes != 5 {
		t.Fatalf("prep = %v", r.PrepMinutes)
	}
	if r.CookMinutes == nil || *r.CookMinutes != 15 {
		t.Fatalf("cook = %v", r.CookMinutes)
	}
	if r.TotalMinutes == nil || *r.TotalMinutes != 20 {
		t.Fatalf("total = %v", r.TotalMinutes)
	}
	if r.Servings != 2 {
		t.Fatalf("servings = %d", r.Servings)
	}
}

func TestRecipe_DirectionsSynonym(t *testing.T) {
	raw := strings.Replace(garlicPasta, "Steps:", "Directions:", 1)
	r, err := Recipe(raw)
	if err != nil {
		t.Fatalf("Recipe() error: %v", err)
	}
	if len(r.Directions) != 2 {
		t.Fatalf("directions = %#v", r.Directions)
	}
}

func TestRecipe_ZeroTimesAreValid(t *testing.T) {
	raw := `Recipe Name: Ceviche
Ingredients:
- Fish
Steps:
1. Cure the fish in lime juice.
Cook time: 0 minutes
Prep time: 20 minutes
Total time: 20 minutes
`
	r, err := Recipe(raw)
	if err != nil {
		t.Fatalf("Recipe() error: %v", err)
	}
	if r.CookMinutes == nil || *r.CookMinutes != 0 {
		t.Fatalf("cook time 0 should parse, got %v", r.CookMinutes)
	}
}

func TestRecipe_IncompleteCarriesPartial(t *testing.T) {
	raw := `Recipe Name: Mystery Dish
Ingredients:
- Something
`
	_, err := Recipe(raw)
	var inc *IncompleteError
	if !errors.As(err, &inc) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	if inc.Partial == nil || inc.Partial.Name != "Mystery Dish" {
		t.Fatalf("partial should carry extracted fields: %+v", inc.Partial)
	}
	for _, want := range []string{"directions", "prep_minutes", "cook_minutes", "total_minutes"} {
		found := false
		for _, m := range inc.Missing {
			if m == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("Missing = %v; want it to contain %q", inc.Missing, want)
		}
	}
}

func TestRecipe_DuplicateHeaderKeepsFirst(t *testing.T) {
	raw := garlicPasta + "\nRecipe Name: Other Name\n"
	r, err := Recipe(raw)
	if err != nil {
		t.Fatalf("Recipe() error: %v", err)
	}
	if r.Name != "Garlic Pasta" {
		t.Fatalf("first occurrence should win, got %q", r.Name)
	}
}

func TestRecipe_FullTextRoundTrip(t *testing.T) {
	orig, err := Recipe(garlicPasta)
	if err != nil {
		t.Fatalf("Recipe() error: %v", err)
	}

	back, err := Recipe(orig.FullText())
	if err != nil {
		t.Fatalf("round-trip Recipe() error: %v", err)
	}
	if back.Name != orig.Name {
		t.Fatalf("round-trip name = %q, want %q", back.Name, orig.Name)
	}
	if len(back.Ingredients) != len(orig.Ingredients) {
		t.Fatalf("round-trip ingredient count = %d, want %d", len(back.Ingredients), len(orig.Ingredients))
	}
	if len(back.Directions) != len(orig.Directions) {
		t.Fatalf("round-trip step count = %d, want %d", len(back.Directions), len(orig.Directions))
	}
}

func TestPairing_Sections(t *testing.T) {
	raw := `Pairing: A dry Riesling
Reason: The acidity cuts through the garlic butter.
`
	p, err := Pairing(raw)
	if err != nil {
		t.Fatalf("Pairing() error: %v", err)
	}
	if p.Text != "A dry Riesling" {
		t.Fatalf("text = %q", p.Text)
	}
	if !strings.Contains(p.Reason, "acidity") {
		t.Fatalf("reason = %q", p.Reason)
	}

	_, err = Pairing("Pairing: A dry Riesling\n")
	var inc *IncompleteError
	if !errors.As(err, &inc) {
		t.Fatalf("missing reason should be IncompleteError, got %v", err)
	}
}

func TestJSONBlock_Fenced(t *testing.T) {
	raw := "Sure!\n```json\n{\"post\": \"Dinner!\"}\n```\nEnjoy."
	blob, err := JSONBlock(raw)
	if err != nil {
		t.Fatalf("JSONBlock error: %v", err)
	}
	if !strings.Contains(string(blob), `"post"`) {
		t.Fatalf("payload = %s", blob)
	}
}

func TestJSONBlock_TaggedFencePreferred(t *testing.T) {
	// A prose fence before the payload must not shadow the json-tagged one.
	raw := "Here is a summary:\n```text\njust some notes\n```\n" +
		"```json\n{\"post\": \"Dinner!\"}\n```"
	blob, err := JSONBlock(raw)
	if err != nil {
		t.Fatalf("JSONBlock error: %v", err)
	}
	if !strings.Contains(string(blob), `"post"`) {
		t.Fatalf("payload = %s", blob)
	}
}

func TestJSONBlock_UntaggedFence(t *testing.T) {
	blob, err := JSONBlock("```\n{\"a\": 1}\n```")
	if err != nil {
		t.Fatalf("JSONBlock error: %v", err)
	}
	if string(blob) != `{"a": 1}` {
		t.Fatalf("payload = %s", blob)
	}
}

func TestJSONBlock_BareBraces(t *testing.T) {
	blob, err := JSONBlock(`prefix {"a": 1} suffix`)
	if err != nil {
		t.Fatalf("JSONBlock error: %v", err)
	}
	if string(blob) != `{"a": 1}` {
		t.Fatalf("payload = %s", blob)
	}
}

func TestJSONBlock_Errors(t *testing.T) {
	if _, err := JSONBlock("no json here"); !errors.Is(err, ErrNoJSONBlock) {
		t.Fatalf("expected ErrNoJSONBlock, got %v", err)
	}

	_, err := JSONBlock("```json\n{broken\n```")
	var jbe *JSONBlockError
	if !errors.As(err, &jbe) {
		t.Fatalf("expected JSONBlockError, got %v", err)
	}
}

func TestSocialPost_Parse(t *testing.T) {
	raw := "```json\n{\"post\": \"Garlic pasta tonight!\", \"hashtags\": [\"#pasta\"], \"image_prompt\": \"steaming bowl\"}\n```"
	post, err := SocialPost(raw)
	if err != nil {
		t.Fatalf("SocialPost error: %v", err)
	}
	if post.Post != "Garlic pasta tonight!" || len(post.Hashtags) != 1 || post.ImagePrompt != "steaming bowl" {
		t.Fatalf("post = %+v", post)
	}

	_, err = SocialPost("```json\n{\"hashtags\": []}\n```")
	var inc *IncompleteError
	if !errors.As(err, &inc) {
		t.Fatalf("blank post should be IncompleteError, got %v", err)
	}
}

// Guard the reserved name against extractor acceptance: a reply whose name is
// the reserved marker still extracts, but the domain constant matches exactly
// so the save path can reject it.
func TestReservedNameConstant(t *testing.T) {
	if domain.ReservedRecipeName != "Invalid Recipe" {
		t.Fatalf("reserved name constant changed: %q", domain.ReservedRecipeName)
	}
}
