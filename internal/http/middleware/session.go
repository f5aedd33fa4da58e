// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements session identity. Every piece of state in the system
// is scoped to an opaque session identifier supplied by the client in the
// X-Session-ID header. The middleware validates the header when present,
// generates a fresh UUID when absent, stashes the value in the Gin context,
// and echoes it on the response so clients can adopt a server-generated id.
//
// Design goals:
//   - Keep transport concerns (validation, context stashing) in middleware.
//   - Handlers never read the header directly; they call SessionFrom.
//   - Sessions carry no authentication semantics — they only partition state.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderSessionID is the request/response header carrying the session id.
const HeaderSessionID = "X-Session-ID"

// ctxKeySession is the Gin context key under which the session id is stored.
const ctxKeySession = "session.id"

// SessionOptions configures header validation behavior for Session.
type SessionOptions struct {
	// MaxLen caps the accepted id length. Values <= 0 default to 64.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative token
	// pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// SessionFrom returns the session id stashed by Session(). The second return
// value is false only when the middleware is not installed.
func SessionFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeySession)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// Session validates or generates the session identifier for each request.
//
// Behavior:
//   - If X-Session-ID is present and valid: reuse it.
//   - If present but invalid: respond 400 with a compact error body.
//   - If absent: generate a UUIDv4 (the "no prior state" case — a generated
//     id naturally has nothing attached to it yet).
//   - Always: stash the id in the context and set the response header.
func Session(opts SessionOptions) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 64
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		sid := c.GetHeader(HeaderSessionID)
		if sid != "" && (len(sid) > maxLen || !pat.MatchString(sid)) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_session_id",
				"message": "invalid " + HeaderSessionID,
			})
			return
		}
		if sid == "" {
			sid = uuid.NewString()
		}

		c.Set(ctxKeySession, sid)
		c.Writer.Header().Set(HeaderSessionID, sid)
		c.Next()
	}
}
