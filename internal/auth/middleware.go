package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/config"
)

// Middleware loads the session, resolves the identity and injects it into the
// request context for the storage router and remote client.
type Middleware struct {
	service  *Service
	sessions *SessionManager
	config   config.Auth
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(service *Service, sessions *SessionManager, cfg config.Auth) *Middleware {
	return &Middleware{service: service, sessions: sessions, config: cfg}
}

// SessionLoadSave wraps scs session loading for gin. Must run before any
// session access.
func (m *Middleware) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(m.sessions.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := m.sessions.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// Commit after the handler so Put calls inside it are persisted.
		switch m.sessions.Status(c.Request.Context()) {
		case 1: // modified
			token, expiry, err := m.sessions.Commit(c.Request.Context())
			if err != nil {
				return
			}
			m.sessions.WriteSessionCookie(c.Request.Context(), c.Writer, token, expiry)
		case 2: // destroyed
			m.sessions.WriteSessionCookie(c.Request.Context(), c.Writer, "", time.Time{})
		}
	}
}

// Identity resolves the session into context values. It never rejects: every
// request proceeds, authenticated or not, and the storage router routes
// accordingly.
func (m *Middleware) Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := m.sessions.GetUserID(c.Request)
		if userID != 0 {
			username := m.sessions.GetString(c.Request.Context(), SessionKeyUsername)
			remoteToken := m.sessions.GetRemoteToken(c.Request)
			c.Request = c.Request.WithContext(
				WithIdentity(c.Request.Context(), userID, username, remoteToken))
		}
		c.Next()
	}
}

// RequireAuth rejects unauthenticated requests when local auth is enabled.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.config.Mode != config.AuthModeLocal {
			c.Next()
			return
		}
		if _, ok := UserIDFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}
