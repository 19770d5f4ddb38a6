package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gribova.dev/Foodgram/configs"
	"gribova.dev/Foodgram/pkg/model"
	"gribova.dev/Foodgram/pkg/repository"
)

const userKey = "currentUser"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrBadCredentials  = errors.New("unable to log in with provided credentials")
)

type Manager struct {
	conf   *configs.Config
	repo   *repository.Repository
	logger *zap.Logger
}

func NewAuthManager(conf *configs.Config, repo *repository.Repository, logger *zap.Logger) *Manager {
	return &Manager{conf: conf, repo: repo, logger: logger}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func CheckPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login verifies the credentials and issues an HMAC bearer token
// carrying the user's email.
func (a *Manager) Login(ctx *gin.Context, email string, password string) (string, error) {
	user, err := a.repo.GetUserByEmail(ctx.Request.Context(), email)
	if err != nil {
		return "", ErrBadCredentials
	}

	if !CheckPassword(user.PasswordHash, password) {
		return "", ErrBadCredentials
	}

	lifetime := time.Duration(a.conf.Auth.TokenLifetime) * time.Hour
	claims := jwt.MapClaims{
		"email": user.Email,
		"exp":   time.Now().Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(a.conf.Auth.SecretKey))
	if err != nil {
		a.logger.Error("error signing token", zap.Error(err))

		return "", err
	}

	return signed, nil
}

// RequireAuth rejects requests without a valid bearer token.
func (a *Manager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.resolveUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})

			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the current user when a token is present and
// leaves the request anonymous otherwise.
func (a *Manager) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(c.GetHeader("Authorization")) == 0 {
			c.Next()

			return
		}

		user, err := a.resolveUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})

			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by the middleware, or
// nil for an anonymous request.
func CurrentUser(c *gin.Context) *model.User {
	value, ok := c.Get(userKey)
	if !ok {
		return nil
	}

	user, ok := value.(*model.User)
	if !ok {
		return nil
	}

	return user
}

func (a *Manager) resolveUser(c *gin.Context) (*model.User, error) {
	accessToken, err := a.extractTokenFromHeader(c.Request.Header)
	if err != nil {
		return nil, err
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected signing method: %v", ErrUnauthenticated, token.Header["alg"])
		}

		return []byte(a.conf.Auth.SecretKey), nil
	}

	token, err := jwt.ParseWithClaims(*accessToken, jwt.MapClaims{}, keyFunc)
	if err != nil {
		a.logger.Error("error parsing token", zap.Error(err))

		return nil, ErrUnauthenticated
	}

	claims, found := token.Claims.(jwt.MapClaims)
	if !found || !token.Valid {
		a.logger.Error("invalid token", zap.Any("claims", claims))

		return nil, ErrUnauthenticated
	}

	email, found := claims["email"].(string)
	if !found {
		a.logger.Error("unable to get user email from token", zap.Any("claims", claims))

		return nil, ErrUnauthenticated
	}

	user, err := a.repo.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		a.logger.Error("error authenticating user", zap.Error(err))

		return nil, ErrUnauthenticated
	}

	return user, nil
}

func (a *Manager) extractTokenFromHeader(header http.Header) (*string, error) {
	authorization := header.Get("Authorization")
	if len(authorization) == 0 {
		return nil, fmt.Errorf("%w: authorization header not found", ErrUnauthenticated)
	}

	prefix := "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		prefix = "bearer "
	}

	token, found := strings.CutPrefix(authorization, prefix)
	if !found {
		return nil, fmt.Errorf("%w: authorization format must be Bearer {token}", ErrUnauthenticated)
	}

	return &token, nil
}
