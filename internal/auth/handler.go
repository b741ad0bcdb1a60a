package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/config"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
	"github.com/marcotuliovd/betimfc-v0/internal/mail"
	"github.com/marcotuliovd/betimfc-v0/internal/util"
)

// Users is the slice of UserRepo the handlers need.
type Users interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	ByEmail(ctx context.Context, email string) (user.User, error)
	ActiveMembership(ctx context.Context, userID string) (*membership.Membership, error)
}

type Dependencies struct {
	Cfg    config.Config
	Users  Users
	Mailer mail.Mailer
	Log    *zap.Logger
}

type Handler struct {
	deps Dependencies
}

func NewHandler(d Dependencies) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Handler{deps: d}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotReq struct {
	Email string `json:"email" binding:"required"`
}

// Login looks the profile up by email. The password is only checked when
// VerifyPasswords is on.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Email = util.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ctx := c.Request.Context()
	u, err := h.deps.Users.ByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		h.deps.Log.Error("login lookup", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if h.deps.Cfg.VerifyPasswords && !CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	active, err := h.deps.Users.ActiveMembership(ctx, u.ID)
	if err != nil {
		// Still let the user in, as a non-member.
		h.deps.Log.Warn("membership lookup", zap.String("user_id", u.ID), zap.Error(err))
		active = nil
	}

	c.JSON(http.StatusOK, gin.H{"user": u.Identity(active)})
}

func (h *Handler) Register(c *gin.Context) {
	var req user.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Email = util.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	switch {
	case req.Name == "" || req.Email == "" || req.Password == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	case strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.CPF) == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone and cpf are required"})
		return
	case !req.AcceptTerms:
		c.JSON(http.StatusBadRequest, gin.H{"error": "terms of use must be accepted"})
		return
	}

	u := user.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		Name:           req.Name,
		Phone:          strings.TrimSpace(req.Phone),
		CPF:            strings.TrimSpace(req.CPF),
		MembershipType: membership.None,
		ReceiveNews:    req.ReceiveNews,
	}
	if req.BirthDate != "" {
		bd, err := time.Parse(time.DateOnly, req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "birthDate must be YYYY-MM-DD"})
			return
		}
		u.BirthDate = &bd
	}
	if h.deps.Cfg.VerifyPasswords {
		hash, err := HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}
		u.PasswordHash = hash
	}

	created, err := h.deps.Users.Create(c.Request.Context(), u)
	if errors.Is(err, ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	if err != nil {
		h.deps.Log.Error("register", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	h.deps.Log.Info("user registered", zap.String("user_id", created.ID))
	c.JSON(http.StatusCreated, gin.H{"user": created.Identity(nil)})
}

// ForgotPassword always answers ok so it cannot be used to probe emails.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := util.NormalizeEmail(req.Email)

	u, err := h.deps.Users.ByEmail(c.Request.Context(), email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			h.deps.Log.Error("forgot password lookup", zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	msg := mail.PasswordRecovery(u.Name, h.deps.Cfg.RecoveryURL())
	if err := mail.SendMessage(h.deps.Mailer, u.Email, msg); err != nil {
		h.deps.Log.Warn("recovery mail not sent", zap.String("user_id", u.ID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
