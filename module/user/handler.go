package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"relaychat/logger"
	midsec "relaychat/middleware/security"
	"relaychat/tools/security"
)

// Handler exposes the auth service HTTP surface.
type Handler struct {
	svc     *Service
	store   *Store
	jwtOpts security.Options
}

func NewHandler(svc *Service, store *Store, jwtOpts security.Options) *Handler {
	return &Handler{svc: svc, store: store, jwtOpts: jwtOpts}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	authed := r.Group("/", midsec.Middleware(h.jwtOpts))
	authed.GET("/profile", h.Profile)
	authed.GET("/users/search", h.Search)
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}
	logger.Infof("[auth] register attempt for username: %s", req.Username)

	err := h.svc.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		logger.Infof("[auth] user registered successfully: %s", req.Username)
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully!"})
	case errors.Is(err, ErrUsernameTaken):
		logger.Errorf("[auth] registration failed: username already exists - %s", req.Username)
		c.JSON(http.StatusConflict, gin.H{"message": "Username already exists."})
	case errors.Is(err, ErrBadInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
	default:
		logger.Errorf("[auth] registration error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed."})
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials."})
		return
	}
	logger.Infof("[auth] login attempt for username: %s", req.Username)

	token, _, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		logger.Infof("[auth] user logged in successfully: %s", req.Username)
		c.JSON(http.StatusOK, gin.H{"message": "Login successful!", "token": token})
	case errors.Is(err, ErrInvalidCredentials):
		logger.Warnf("[auth] login failed for user: %s", req.Username)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials."})
	default:
		logger.Errorf("[auth] login error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed."})
	}
}

func (h *Handler) Profile(c *gin.Context) {
	identity, ok := midsec.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required."})
		return
	}
	logger.Infof("[auth] profile requested by user: %s", identity.Username)
	c.JSON(http.StatusOK, gin.H{
		"userId":   identity.ID,
		"username": identity.Username,
		"message":  "Profile data retrieved successfully.",
	})
}

func (h *Handler) Search(c *gin.Context) {
	identity, ok := midsec.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required."})
		return
	}

	term := strings.TrimSpace(c.Query("username"))
	if term == "" {
		logger.Warn("[auth] search username parameter is empty")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username search parameter is required."})
		return
	}

	users, err := h.store.Search(c.Request.Context(), term, identity.ID)
	if err != nil {
		logger.Errorf("[auth] error searching for users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error searching for users."})
		return
	}
	logger.Infof("[auth] found %d users for search term %q by user %s", len(users), term, identity.Username)
	c.JSON(http.StatusOK, users)
}
