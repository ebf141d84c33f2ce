package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

// Handlers exposes the authentication endpoints.
type Handlers struct {
	service  *Service
	sessions *SessionManager
}

// NewHandlers creates the auth endpoint handlers.
func NewHandlers(service *Service, sessions *SessionManager) *Handlers {
	return &Handlers{service: service, sessions: sessions}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// Setup creates the first account. Refused once any user exists.
func (h *Handlers) Setup(c *gin.Context) {
	exists, err := h.service.HasUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "setup already completed"})
		return
	}

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.CreateUser(req.Username, req.Email, req.Password, entities.RoleAdmin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.CreateSession(c.Request, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session creation failed"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login authenticates and starts a session.
func (h *Handlers) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := h.sessions.CreateSession(c.Request, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session creation failed"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout destroys the session; subsequent calls route to the local store.
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.sessions.DestroySession(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the current identity and which backend calls are routed to.
func (h *Handlers) Me(c *gin.Context) {
	userID, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false, "backend": "local"})
		return
	}

	backend := "local"
	if RemoteTokenFromContext(c.Request.Context()) != "" {
		backend = "remote"
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user_id":       userID,
		"username":      UsernameFromContext(c.Request.Context()),
		"backend":       backend,
	})
}

type remoteTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// SetRemoteToken stores the remote record store access token for the current
// user and activates it for this session immediately.
func (h *Handlers) SetRemoteToken(c *gin.Context) {
	userID, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req remoteTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetRemoteToken(userID, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.sessions.Put(c.Request.Context(), SessionKeyRemoteToken, req.Token)
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
