package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cresenventures/storefront/internal/config"
	"github.com/cresenventures/storefront/internal/domain/cart"
	"github.com/cresenventures/storefront/internal/domain/user"
)

// UserStore is the slice of the user repository the sign-in flow needs.
type UserStore interface {
	FetchOrCreate(ctx context.Context, email, name, role string) (user.User, error)
	ByID(ctx context.Context, id int64) (user.User, error)
}

// SessionStore tracks refresh-token hashes for rotation and revocation.
type SessionStore interface {
	Store(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	IsValid(ctx context.Context, userID int64, tokenHash string) (bool, error)
	Revoke(ctx context.Context, userID int64, tokenHash string) error
}

// CartStore fetches the remote cart mirror returned with the sign-in.
type CartStore interface {
	Get(ctx context.Context, email string) (cart.Cart, error)
}

type Dependencies struct {
	Cfg      config.Config
	JWT      *JWTManager
	Users    UserStore
	Sessions SessionStore
	Carts    CartStore
	Log      *zap.Logger
}

type Handler struct {
	deps Dependencies
}

func NewHandler(d Dependencies) *Handler {
	return &Handler{deps: d}
}

type googleLoginReq struct {
	Email      string `json:"email" binding:"omitempty,email"`
	Name       string `json:"name"`
	Credential string `json:"credential"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// GoogleLogin exchanges a Google sign-in for the application user record.
// The credential, when present, is decoded locally only to prefill
// email/name; the role always comes from this backend (admin allow-list),
// never from the token.
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req googleLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if req.Credential != "" {
		dc, err := ParseDisplayClaims(req.Credential)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid credential"})
			return
		}
		if req.Email == "" {
			req.Email = dc.Email
		}
		if req.Name == "" {
			req.Name = dc.Name
		}
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email is required"})
		return
	}

	role := user.RoleCustomer
	if h.deps.Cfg.IsAdminEmail(req.Email) {
		role = user.RoleAdmin
	}

	u, err := h.deps.Users.FetchOrCreate(c.Request.Context(), req.Email, strings.TrimSpace(req.Name), role)
	if err != nil {
		h.deps.Log.Error("google login: user upsert failed", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create user"})
		return
	}

	// The remote cart rides along so the client can reconcile: a non-empty
	// server cart replaces the local one, otherwise the local cart stands.
	remoteCart, err := h.deps.Carts.Get(c.Request.Context(), u.Email)
	if err != nil {
		h.deps.Log.Warn("google login: cart fetch failed", zap.String("email", u.Email), zap.Error(err))
		remoteCart = cart.Cart{}
	}

	access, accessExp, err := h.deps.JWT.SignAccess(u.ID, u.Email, u.Role)
	if err != nil {
		h.deps.Log.Error("google login: access token sign failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to issue tokens"})
		return
	}
	refresh, refreshExp, err := h.deps.JWT.SignRefresh(u.ID, u.Email, u.Role)
	if err != nil {
		h.deps.Log.Error("google login: refresh token sign failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to issue tokens"})
		return
	}
	// a refresh token that was never stored can never pass rotation, so a
	// failed store fails the sign-in instead of handing out a dead token
	if err := h.deps.Sessions.Store(c.Request.Context(), u.ID, HashToken(refresh), refreshExp); err != nil {
		h.deps.Log.Error("google login: session store failed", zap.String("email", u.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"user":          sanitizeUser(u),
		"cart":          remoteCart,
		"access_token":  access,
		"access_exp":    accessExp,
		"refresh_token": refresh,
		"refresh_exp":   refreshExp,
	})
}

// Refresh rotates the refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	claims, err := h.deps.JWT.ParseRefresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid refresh token"})
		return
	}

	ok, err := h.deps.Sessions.IsValid(c.Request.Context(), claims.UserID, HashToken(req.RefreshToken))
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "refresh token expired or revoked"})
		return
	}

	_ = h.deps.Sessions.Revoke(c.Request.Context(), claims.UserID, HashToken(req.RefreshToken))

	access, accessExp, err := h.deps.JWT.SignAccess(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		h.deps.Log.Error("refresh: access token sign failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to issue tokens"})
		return
	}
	newRefresh, refreshExp, err := h.deps.JWT.SignRefresh(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		h.deps.Log.Error("refresh: refresh token sign failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to issue tokens"})
		return
	}
	if err := h.deps.Sessions.Store(c.Request.Context(), claims.UserID, HashToken(newRefresh), refreshExp); err != nil {
		h.deps.Log.Error("refresh: session store failed", zap.Int64("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to rotate session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"access_token":  access,
		"access_exp":    accessExp,
		"refresh_token": newRefresh,
		"refresh_exp":   refreshExp,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	claims, err := h.deps.JWT.ParseRefresh(req.RefreshToken)
	if err == nil {
		_ = h.deps.Sessions.Revoke(c.Request.Context(), claims.UserID, HashToken(req.RefreshToken))
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Me(c *gin.Context) {
	uidAny, _ := c.Get(CtxUserIDKey)
	uid, _ := uidAny.(int64)

	u, err := h.deps.Users.ByID(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": sanitizeUser(u)})
}

func sanitizeUser(u user.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}
