package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// HeaderUserID / HeaderUserEmail 由中间件根据 token 写入，客户端传入的值会被清除
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"

	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"

	authPathPrefix = "/api/auth/"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims JWT 声明
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager 签发与校验 HS256 token
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken 签发携带用户 ID 和邮箱的 token
func (m *JWTManager) IssueToken(userID uint, email string) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken 校验 token，返回用户 ID 和邮箱
func (m *JWTManager) ValidateToken(tokenString string) (uint, string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, "", err
	}
	if !token.Valid || claims.UserID == 0 || claims.Email == "" {
		return 0, "", ErrInvalidToken
	}
	return claims.UserID, claims.Email, nil
}

// IdentityMiddleware 解析 Bearer token 并注入调用者身份
// /api/auth/ 下的接口跳过；token 缺失或无效时不注入身份，交给具体接口拒绝
func IdentityMiddleware(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 身份只能来自 token
		c.Request.Header.Del(HeaderUserID)
		c.Request.Header.Del(HeaderUserEmail)

		if strings.HasPrefix(c.Request.URL.Path, authPathPrefix) {
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if ok {
			if userID, email, err := jwtManager.ValidateToken(tokenString); err == nil {
				setIdentity(c, userID, email)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, userID uint, email string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxUserEmail, email)
	c.Request.Header.Set(HeaderUserID, strconv.FormatUint(uint64(userID), 10))
	c.Request.Header.Set(HeaderUserEmail, email)
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok && id != 0
}

// GetUserEmail 从上下文获取用户邮箱
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(ctxUserEmail)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}
