package services

import (
	"context"
	"sort"
	"strings"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/provider"
)

// fakeInvoker replays a scripted sequence of replies and errors, recording
// every request it receives.
type fakeInvoker struct {
	replies []string
	errs    []error
	reqs    []provider.Request
	models  [][]string
}

func (f *fakeInvoker) Complete(_ context.Context, models []string, req provider.Request) (string, error) {
	i := len(f.reqs)
	f.reqs = append(f.reqs, req)
	f.models = append(f.models, models)
	var reply string
	var err error
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return reply, err
}

// memStore is an in-memory Store used by service tests. It mirrors the real
// store's ordering and degrade-to-empty semantics.
type memStore struct {
	entries map[string]domain.SessionEntry // key: session|kind|name
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]domain.SessionEntry)}
}

func memKey(session, kind, name string) string { return session + "|" + kind + "|" + name }

func (m *memStore) Put(ctx context.Context, session, kind, name, value string) bool {
	return m.PutAt(ctx, session, kind, name, 0, value)
}

func (m *memStore) PutAt(_ context.Context, session, kind, name string, position int, value string) bool {
	m.entries[memKey(session, kind, name)] = domain.SessionEntry{
		SessionID: session, Kind: kind, Name: name, Position: position, Value: value,
	}
	return true
}

func (m *memStore) Get(_ context.Context, session, kind, name string) (string, bool) {
	e, ok := m.entries[memKey(session, kind, name)]
	if !ok {
		return "", false
	}
	return e.Value, true
}

func (m *memStore) Delete(_ context.Context, session, kind, name string) bool {
	k := memKey(session, kind, name)
	if _, ok := m.entries[k]; !ok {
		return false
	}
	delete(m.entries, k)
	return true
}

func (m *memStore) List(_ context.Context, session, kind string) []domain.SessionEntry {
	var out []domain.SessionEntry
	for _, e := range m.entries {
		if e.SessionID == session && e.Kind == kind {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (m *memStore) ListRange(ctx context.Context, session, kind string, start, end int) []domain.SessionEntry {
	var out []domain.SessionEntry
	for _, e := range m.List(ctx, session, kind) {
		if e.Position < start {
			continue
		}
		if end >= 0 && e.Position > end {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (m *memStore) DeleteAll(_ context.Context, session string) bool {
	for k, e := range m.entries {
		if e.SessionID == session {
			delete(m.entries, k)
		}
	}
	return true
}

func (m *memStore) DeleteKind(_ context.Context, session, kind string) bool {
	for k, e := range m.entries {
		if e.SessionID == session && e.Kind == kind {
			delete(m.entries, k)
		}
	}
	return true
}

// validRecipeReply is a provider reply that passes the validity gate.
const validRecipeReply = `Recipe Name: garlic pasta

Description: A quick weeknight pasta.

Ingredients:
- Pasta
- Garlic

Steps:
1. Boil pasta.
2. Saute garlic.

Cook time: 17 minutes
Prep time: 5 minutes
Total time: 22 minutes
Servings: 2
`

// malformedRecipeReply is missing steps and all time fields.
const malformedRecipeReply = `Recipe Name: garlic pasta

Ingredients:
- Pasta
`

func userContent(req provider.Request) string {
	for _, m := range req.Messages {
		if m.Role == domain.RoleUser {
			return m.Content
		}
	}
	return ""
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
