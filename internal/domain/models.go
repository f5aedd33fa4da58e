// Package domain defines the core entities handled by the recipe assistant:
// recipes, pairings, chat messages, generated images, and social posts.
// All of them are serialized to JSON and persisted as session-scoped values
// in the key-value store; only SessionEntry is mapped with GORM and forms
// the single table of the persistence layer.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Entity kinds used as the middle segment of session-scoped storage keys.
const (
	KindRecipe      = "recipe"
	KindPairing     = "pairing"
	KindImage       = "image"
	KindChatHistory = "chat_history"
	KindSocialPost  = "social_post"
	KindUpload      = "upload"
)

// ReservedRecipeName is rejected on save. The name doubled as an internal
// failure marker in older clients, so accepting it as real data would make a
// failed generation indistinguishable from a stored recipe.
const ReservedRecipeName = "Invalid Recipe"

// Recipe is a fully structured recipe as recovered from provider output.
//
// Name, Ingredients, Directions, and the three time fields are required for a
// recipe to be considered valid; Description and Calories are optional and
// stay zero-valued when the provider did not emit them. Times are integer
// minutes, and 0 is a legitimate value (a no-cook dish), not an absence.
type Recipe struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	PrepMinutes  *int     `json:"prep_minutes"`
	CookMinutes  *int     `json:"cook_minutes"`
	TotalMinutes *int     `json:"total_minutes"`
	Servings     int      `json:"servings,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Directions   []string `json:"directions"`
	Calories     int      `json:"calories,omitempty"`
}

// Valid reports whether the recipe satisfies the acceptance gate used to
// decide between keeping a provider result and trying another model:
// name present, at least one ingredient, at least one direction, and all
// three time fields parsed (zero allowed).
func (r *Recipe) Valid() bool {
	if r == nil {
		return false
	}
	if strings.TrimSpace(r.Name) == "" {
		return false
	}
	if len(r.Ingredients) == 0 || len(r.Directions) == 0 {
		return false
	}
	return r.PrepMinutes != nil && r.CookMinutes != nil && r.TotalMinutes != nil
}

// MissingFields lists the required fields that are absent, in a stable order.
// An empty result means Valid() is true.
func (r *Recipe) MissingFields() []string {
	var missing []string
	if r == nil {
		return []string{"name", "ingredients", "directions", "prep_minutes", "cook_minutes", "total_minutes"}
	}
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if len(r.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if len(r.Directions) == 0 {
		missing = append(missing, "directions")
	}
	if r.PrepMinutes == nil {
		missing = append(missing, "prep_minutes")
	}
	if r.CookMinutes == nil {
		missing = append(missing, "cook_minutes")
	}
	if r.TotalMinutes == nil {
		missing = append(missing, "total_minutes")
	}
	return missing
}

// FullText renders the recipe in the labeled-section layout used for display
// and as chat context. The rendering round-trips through the extractor: the
// recovered name, ingredient count, and step count match the original.
func (r *Recipe) FullText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recipe Name: %s\n", r.Name)
	if strings.TrimSpace(r.Description) != "" {
		fmt.Fprintf(&b, "\nDescription: %s\n", r.Description)
	}
	b.WriteString("\nIngredients:\n")
	for _, ing := range r.Ingredients {
		if strings.HasPrefix(strings.TrimSpace(ing), "-") {
			fmt.Fprintf(&b, "%s\n", ing)
		} else {
			fmt.Fprintf(&b, "- %s\n", ing)
		}
	}
	b.WriteString("\nSteps:\n")
	for i, step := range r.Directions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\n")
	if r.CookMinutes != nil {
		fmt.Fprintf(&b, "Cook time: %d minutes\n", *r.CookMinutes)
	}
	if r.PrepMinutes != nil {
		fmt.Fprintf(&b, "Prep time: %d minutes\n", *r.PrepMinutes)
	}
	if r.TotalMinutes != nil {
		fmt.Fprintf(&b, "Total time: %d minutes\n", *r.TotalMinutes)
	}
	if r.Servings > 0 {
		fmt.Fprintf(&b, "Servings: %d\n", r.Servings)
	}
	if r.Calories > 0 {
		fmt.Fprintf(&b, "Calories: %d\n", r.Calories)
	}
	return b.String()
}

// RoundMinutes rounds n to the nearest multiple of five, matching the
// convention used when presenting times. Negative inputs clamp to zero.
func RoundMinutes(n int) int {
	if n <= 0 {
		return 0
	}
	return ((n + 2) / 5) * 5
}

// PairingType tags the kind of drink pairing requested.
type PairingType string

const (
	PairingWine     PairingType = "wine"
	PairingBeer     PairingType = "beer"
	PairingCocktail PairingType = "cocktail"
)

// KnownPairingType reports whether t is one of the supported pairing tags.
func KnownPairingType(t PairingType) bool {
	switch t {
	case PairingWine, PairingBeer, PairingCocktail:
		return true
	}
	return false
}

// Pairing is a drink suggestion for a recipe. Both the suggestion text and
// the reason are required; a provider answer missing either is rejected.
type Pairing struct {
	RecipeName string      `json:"recipe_name"`
	Type       PairingType `json:"type"`
	Text       string      `json:"text"`
	Reason     string      `json:"reason"`
}

// Valid reports whether both required pairing fields are present.
func (p *Pairing) Valid() bool {
	return p != nil && strings.TrimSpace(p.Text) != "" && strings.TrimSpace(p.Reason) != ""
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a session-scoped conversation. Histories are
// persisted whole as ranged lists under the chat_history kind.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Image is a generated image referenced by URL or carried inline as base64.
// Exactly one of URL and B64 is expected to be set.
type Image struct {
	RecipeName string `json:"recipe_name,omitempty"`
	URL        string `json:"url,omitempty"`
	B64        string `json:"b64,omitempty"`
}

// SocialPost is the structured result of the social-post capability, parsed
// from a fenced JSON block in the provider output.
type SocialPost struct {
	Post        string   `json:"post"`
	Hashtags    []string `json:"hashtags"`
	ImagePrompt string   `json:"image_prompt"`
}

// Valid reports whether the post body was produced.
func (s *SocialPost) Valid() bool {
	return s != nil && strings.TrimSpace(s.Post) != ""
}

// UploadState enumerates the stages of the upload-and-edit flow. Transitions
// are driven only by user actions; there is no timeout between states.
type UploadState string

const (
	UploadAwaiting   UploadState = "awaiting_upload"
	UploadExtracted  UploadState = "extracted"
	UploadUserEdited UploadState = "user_edited"
	UploadAnswered   UploadState = "answered"
)

// Upload tracks one in-flight upload-and-edit session.
type Upload struct {
	State    UploadState `json:"state"`
	RawText  string      `json:"raw_text,omitempty"`
	Question string      `json:"question,omitempty"`
	Answer   string      `json:"answer,omitempty"`
}

// SessionEntry is the single persisted row type: one JSON value addressed by
// {session, kind, name}. Position orders ranged lists (chat histories); it is
// zero for singleton entries.
//
// Concurrent writers to the same key race and last write wins; the store
// offers no cross-key transactions.
type SessionEntry struct {
	ID        uint      `json:"-"          gorm:"primaryKey;autoIncrement"`
	SessionID string    `json:"session_id" gorm:"type:varchar(64);not null;uniqueIndex:ux_session_kind_name,priority:1"`
	Kind      string    `json:"kind"       gorm:"type:varchar(32);not null;uniqueIndex:ux_session_kind_name,priority:2"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null;uniqueIndex:ux_session_kind_name,priority:3"`
	Position  int       `json:"position"   gorm:"not null;default:0"`
	Value     string    `json:"value"      gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for SessionEntry.
func (SessionEntry) TableName() string { return "session_entries" }

// Key renders the normalized storage key for logs and diagnostics.
func (e SessionEntry) Key() string {
	return e.SessionID + ":" + e.Kind + ":" + e.Name
}
