package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository"
	"github.com/ChansereyGit/chat-rocket/utils"
)

// 登录失败统一提示，不区分邮箱不存在还是密码错误
const msgInvalidCredentials = "invalid email or password"

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	now    func() time.Time
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		now:    time.Now,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册新用户并签发 token
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.InternalError("failed to check email", err)
	}
	if exists {
		return nil, utils.ConflictError("email already exists")
	}

	exists, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, utils.InternalError("failed to check username", err)
	}
	if exists {
		return nil, utils.ConflictError("username already exists")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.InternalError("failed to hash password", err)
	}

	now := s.now()
	avatar := "https://ui-avatars.com/api/?name=" + url.QueryEscape(req.FullName) + "&background=random"
	user := &model.User{
		Email:     req.Email,
		Username:  req.Username,
		FullName:  req.FullName,
		Password:  hash,
		AvatarURL: &avatar,
		Status:    model.UserStatusOnline,
		IsOnline:  true,
		LastSeen:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ConflictError("email or username already exists")
		}
		return nil, utils.InternalError("failed to create user", err)
	}

	return s.authResponse(user)
}

// Login 校验密码，标记在线并签发 token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.AuthError(msgInvalidCredentials)
	}
	if err != nil {
		return nil, utils.InternalError("failed to query user", err)
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		return nil, utils.AuthError(msgInvalidCredentials)
	}

	now := s.now()
	user.IsOnline = true
	user.Status = model.UserStatusOnline
	user.LastSeen = now
	user.UpdatedAt = now
	if err := s.users.Save(ctx, user); err != nil {
		return nil, utils.InternalError("failed to update user", err)
	}

	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, utils.InternalError("failed to issue token", err)
	}

	dto := user.ToDTO()
	dto.IsAuthenticated = true
	return &model.AuthResponse{Token: token, User: dto}, nil
}

func validateRegister(req RegisterRequest) error {
	switch {
	case req.Email == "" || req.Username == "" || req.FullName == "" || req.Password == "":
		return utils.ValidationError("email, username, fullName and password are required")
	case !strings.Contains(req.Email, "@") || len(req.Email) > 255:
		return utils.ValidationError("invalid email")
	case len(req.Username) > 50:
		return utils.ValidationError("username must be at most 50 characters")
	case len(req.FullName) > 100:
		return utils.ValidationError("fullName must be at most 100 characters")
	case len(req.Password) < 6:
		return utils.ValidationError("password must be at least 6 characters")
	case len(req.Password) > 72:
		// bcrypt 只接受 72 字节以内
		return utils.ValidationError("password must be at most 72 bytes")
	}
	return nil
}
