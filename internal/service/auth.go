package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/recipe-graph/internal/identity"
	"github.com/d60-Lab/recipe-graph/internal/model"
	"github.com/d60-Lab/recipe-graph/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username taken")
)

// AuthService 注册/登录。新用户 id 统一发 @小写 形态，历史 id 的格式漂移只在读侧兼容。
type AuthService struct {
	users  repository.UserRepository
	secret string
	expire time.Duration
}

func NewAuthService(users repository.UserRepository, secret string, expire time.Duration) *AuthService {
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	return &AuthService{users: users, secret: secret, expire: expire}
}

type RegisterInput struct {
	Username    string `json:"username" binding:"required,min=3,max=32"`
	Password    string `json:"password" binding:"required,min=6"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	displayName := in.DisplayName
	if displayName == "" {
		displayName = in.Username
	}
	u := &model.User{
		ID:          identity.Sigil + strings.ToLower(in.Username),
		Username:    in.Username,
		DisplayName: displayName,
		Email:       in.Email,
		Password:    string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, storeErr("register", u.ID, err)
	}
	return u, nil
}

// Login 校验密码并签发 JWT
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// ParseToken 解出 token 里的用户 id
func (s *AuthService) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}
