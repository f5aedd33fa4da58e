// Package extract normalizes free-form model output into typed results.
//
// Two modes are supported:
//   - JSON-block extraction: locate a fenced code block tagged as JSON and
//     parse it. Parse failures are surfaced as typed errors, never panics.
//   - Labeled-section extraction: locate sections such as "Recipe Name:",
//     "Ingredients:", "Steps:", and "Cook time: N minutes" with anchored
//     patterns that stop at the next known header. A missing section yields a
//     zero value for that field rather than failing the whole extraction.
//
// Callers use the typed IncompleteError (which carries the partial result and
// the missing field names) to decide whether to retry generation with another
// model list or reject the response outright. There are no sentinel values:
// an unusable extraction is always an explicit error.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/plateful/go-recipe-backend/internal/domain"
)

// IncompleteError reports an extraction that produced some fields but failed
// the validity gate. Partial carries whatever was recovered so callers can
// log or surface it; Missing names the absent required fields.
type IncompleteError struct {
	Missing []string
	Partial *domain.Recipe
}

// Error implements the error interface.
func (e *IncompleteError) Error() string {
	return "extraction incomplete: missing " + strings.Join(e.Missing, ", ")
}

// JSONBlockError reports that a JSON block was found but could not be parsed.
type JSONBlockError struct {
	Err error
}

// Error implements the error interface.
func (e *JSONBlockError) Error() string { return fmt.Sprintf("invalid JSON block: %v", e.Err) }

// Unwrap exposes the underlying parse error for errors.Is/As.
func (e *JSONBlockError) Unwrap() error { return e.Err }

// ErrNoJSONBlock is returned when the raw text contains no JSON payload.
var ErrNoJSONBlock = fmt.Errorf("no JSON block found")

// taggedJSONRE matches a fenced code block explicitly tagged json, capturing
// the payload between the fences. untaggedFenceRE matches any fenced block
// regardless of tag; it is only consulted when no json-tagged fence exists,
// so prose fences before the payload cannot shadow it.
var (
	taggedJSONRE    = regexp.MustCompile("(?si)```json\\s*(.*?)\\s*```")
	untaggedFenceRE = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\\s*(.*?)\\s*```")
)

// JSONBlock locates a JSON payload in raw text: a json-tagged fence first,
// then the first fenced block of any tag, falling back to the outermost brace
// pair when no fence is present. The payload is validated before being
// returned.
func JSONBlock(raw string) (json.RawMessage, error) {
	var payload string
	if m := taggedJSONRE.FindStringSubmatch(raw); m != nil {
		payload = m[1]
	} else if m := untaggedFenceRE.FindStringSubmatch(raw); m != nil {
		payload = m[1]
	} else if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		payload = raw[start : end+1]
	} else {
		return nil, ErrNoJSONBlock
	}

	var probe any
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, &JSONBlockError{Err: err}
	}
	return json.RawMessage(payload), nil
}

// Section headers recognized by the labeled-section extractor. "Directions"
// is accepted as a synonym for "Steps"; both map to Recipe.Directions.
var headerRE = regexp.MustCompile(`(?mi)^[ \t]*(Recipe Name|Description|Ingredients|Steps|Directions|Cook time|Prep time|Total time|Servings|Calories|Pairing|Reason)[ \t]*:[ \t]*`)

// sections splits raw text into a lowercase-header → body map. Each body runs
// from just after its header to the start of the next known header (or the
// end of the text), with surrounding whitespace trimmed. A header appearing
// twice keeps its first occurrence.
func sections(raw string) map[string]string {
	out := make(map[string]string)
	locs := headerRE.FindAllStringSubmatchIndex(raw, -1)
	for i, loc := range locs {
		name := strings.ToLower(raw[loc[2]:loc[3]])
		start := loc[1]
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = strings.TrimSpace(raw[start:end])
	}
	return out
}

// leadingIntRE captures the first integer of a section body, tolerating a
// trailing "minutes"/"mins" unit or any other trailing prose.
var leadingIntRE = regexp.MustCompile(`^[^\d-]*(\d+)`)

// parseMinutes extracts the integer from a time section. The second return
// is false when the section is absent or carries no number.
func parseMinutes(body string, ok bool) (int, bool) {
	if !ok {
		return 0, false
	}
	m := leadingIntRE.FindStringSubmatch(body)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// stepNumberRE strips "1." / "2)" style numbering from step lines.
var stepNumberRE = regexp.MustCompile(`^\d+[.)]\s*`)

// lines splits a section body into trimmed, non-empty lines.
func lines(body string) []string {
	var out []string
	for _, ln := range strings.Split(body, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// firstLine returns the first non-empty line of a section body, so that a
// single-line field does not swallow free text that follows it.
func firstLine(body string) string {
	for _, ln := range strings.Split(body, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			return t
		}
	}
	return ""
}

// Recipe extracts a structured recipe from labeled sections in raw text.
//
// Missing sections leave their fields at zero values; the assembled recipe is
// then checked against the validity gate (name, ingredients, directions, and
// all three times present). An invalid result returns an IncompleteError
// carrying the partial recipe.
func Recipe(raw string) (*domain.Recipe, error) {
	sec := sections(raw)
	r := &domain.Recipe{}

	if body, ok := sec["recipe name"]; ok {
		r.Name = firstLine(body)
	}
	if body, ok := sec["description"]; ok {
		r.Description = strings.TrimSpace(body)
	}
	if body, ok := sec["ingredients"]; ok {
		r.Ingredients = lines(body)
	}
	stepsBody, ok := sec["steps"]
	if !ok {
		stepsBody, ok = sec["directions"]
	}
	if ok {
		for _, ln := range lines(stepsBody) {
			r.Directions = append(r.Directions, stepNumberRE.ReplaceAllString(ln, ""))
		}
	}

	if n, ok := parseMinutes(sec["prep time"], has(sec, "prep time")); ok {
		r.PrepMinutes = &n
	}
	if n, ok := parseMinutes(sec["cook time"], has(sec, "cook time")); ok {
		r.CookMinutes = &n
	}
	if n, ok := parseMinutes(sec["total time"], has(sec, "total time")); ok {
		r.TotalMinutes = &n
	}
	if n, ok := parseMinutes(sec["servings"], has(sec, "servings")); ok {
		r.Servings = n
	}
	if n, ok := parseMinutes(sec["calories"], has(sec, "calories")); ok {
		r.Calories = n
	}

	if !r.Valid() {
		return nil, &IncompleteError{Missing: r.MissingFields(), Partial: r}
	}
	return r, nil
}

func has(sec map[string]string, key string) bool {
	_, ok := sec[key]
	return ok
}

// Pairing extracts the pairing suggestion and its reason from labeled
// sections. Both fields are required.
func Pairing(raw string) (*domain.Pairing, error) {
	sec := sections(raw)
	p := &domain.Pairing{
		Text:   strings.TrimSpace(sec["pairing"]),
		Reason: strings.TrimSpace(sec["reason"]),
	}
	if !p.Valid() {
		var missing []string
		if p.Text == "" {
			missing = append(missing, "pairing")
		}
		if p.Reason == "" {
			missing = append(missing, "reason")
		}
		return nil, &IncompleteError{Missing: missing}
	}
	return p, nil
}

// SocialPost parses the fenced JSON social-post payload with post, hashtags,
// and image_prompt fields.
func SocialPost(raw string) (*domain.SocialPost, error) {
	blob, err := JSONBlock(raw)
	if err != nil {
		return nil, err
	}
	var post domain.SocialPost
	if err := json.Unmarshal(blob, &post); err != nil {
		return nil, &JSONBlockError{Err: err}
	}
	if !post.Valid() {
		return nil, &IncompleteError{Missing: []string{"post"}}
	}
	return &post, nil
}
