package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"anonboard/internal/domain"
	"anonboard/internal/repository"
	"anonboard/internal/service"
	"anonboard/internal/storage"
	"anonboard/internal/token"
)

// maxAvatarSize caps avatar uploads at 2 MiB.
const maxAvatarSize = 2 << 20

var allowedAvatarTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	logger    *logrus.Logger
	users     service.UserService
	content   service.ContentService
	messaging service.MessagingService
	tokens    *token.Codec
	loginTTL  time.Duration
	storage   storage.Service
}

func NewHandler(
	logger *logrus.Logger,
	users service.UserService,
	content service.ContentService,
	messaging service.MessagingService,
	tokens *token.Codec,
	loginTTL time.Duration,
	store storage.Service,
) *Handler {
	return &Handler{
		logger:    logger,
		users:     users,
		content:   content,
		messaging: messaging,
		tokens:    tokens,
		loginTTL:  loginTTL,
		storage:   store,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", h.login)
			authGroup.POST("/register", h.register)
			authGroup.GET("/register/generate-username", h.generateUsername)
			authGroup.GET("/me", h.requireAuth(), h.me)
		}

		usersGroup := api.Group("/users", h.requireAuth())
		{
			usersGroup.GET("/:id", h.getUser)
			usersGroup.PUT("/me", h.updateMe)
			usersGroup.POST("/me/avatar", h.uploadAvatar)
		}

		h.registerContentRoutes(api)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}

// login implements the OAuth2 password flow shape: form-encoded
// credentials in, bearer token out.
func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	plaintext := c.PostForm("password")

	user, err := h.users.Authenticate(c.Request.Context(), username, plaintext)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
			return
		}
		h.serverError(c, "authenticate", err)
		return
	}

	signed, err := h.tokens.Issue(user.Username, h.loginTTL)
	if err != nil {
		h.serverError(c, "issue token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": signed, "token_type": "bearer"})
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Password  string `json:"password" binding:"required,min=8"`
	Bio       string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL string `json:"avatar_url"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password, req.Bio, req.AvatarURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already registered"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.serverError(c, "register user", err)
		}
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) generateUsername(c *gin.Context) {
	username, err := h.users.RandomUsername(c.Request.Context())
	if err != nil {
		h.serverError(c, "generate username", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(CurrentUser(c)))
}

func (h *Handler) getUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.serverError(c, "get user", err)
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}

type updateUserRequest struct {
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url"`
}

// updateMe applies a partial profile update: fields absent from the
// payload stay untouched, present fields overwrite.
func (h *Handler) updateMe(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current := CurrentUser(c)
	user, err := h.users.UpdateProfile(c.Request.Context(), current.ID, domain.UserUpdate{
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			h.serverError(c, "update user", err)
		}
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	if file.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar exceeds 2 MiB"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := allowedAvatarTypes[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar must be jpg, jpeg, png or webp"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.serverError(c, "open avatar upload", err)
		return
	}
	defer src.Close()

	key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), ext)
	url, err := h.storage.Put(c.Request.Context(), key, src, contentType)
	if err != nil {
		h.serverError(c, "store avatar", err)
		return
	}

	current := CurrentUser(c)
	user, err := h.users.UpdateProfile(c.Request.Context(), current.ID, domain.UserUpdate{AvatarURL: &url})
	if err != nil {
		h.serverError(c, "update avatar url", err)
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) serverError(c *gin.Context, op string, err error) {
	if h.logger != nil {
		h.logger.WithError(err).Errorf("%s failed", op)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

type UserResponse struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Bio           string `json:"bio,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpvoteCount   int64  `json:"upvote_count"`
	DownvoteCount int64  `json:"downvote_count"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Bio:           user.Bio,
		AvatarURL:     user.AvatarURL,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		UpvoteCount:   user.UpvoteCount,
		DownvoteCount: user.DownvoteCount,
	}
}
