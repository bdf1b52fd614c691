package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/requestdata"
	"github.com/sitewatch/safety-backend/internal/types"
)

const minPasswordLength = 6

// JWTClaims is the access token payload.
type JWTClaims struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// LoginResult carries the signed token plus the profile fields the
// client renders after login.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	VerifyToken(ctx context.Context, tokenString string) (*requestdata.RequestData, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	Profile(ctx context.Context) (*types.User, error)
	ListUsers(ctx context.Context, page filters.Page) ([]*repos.UserRecord, int64, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
	}
}

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, fmt.Errorf("load user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	// One active token per user; a new login invalidates the old one.
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return as.userTokenRepo.Replace(ctx, tx, user.ID, token)
	}); err != nil {
		return nil, fmt.Errorf("store user token: %w", err)
	}

	return &LoginResult{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("%w: no request data in context", ErrUnauthorized)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := as.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID); err != nil {
		return fmt.Errorf("delete user token: %w", err)
	}
	return nil
}

// VerifyToken validates the signature and expiry, then requires the
// token to still be the stored one so logout and re-login revoke it.
func (as *authService) VerifyToken(ctx context.Context, tokenString string) (*requestdata.RequestData, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	exists, err := as.userTokenRepo.Exists(ctx, nil, tokenString)
	if err != nil {
		return nil, fmt.Errorf("check stored token: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}

	return &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      claims.UserID,
		Username:    claims.Username,
		Email:       claims.Email,
		Role:        claims.Role,
	}, nil
}

func (as *authService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("%w: no request data in context", ErrUnauthorized)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := as.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(currentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := as.userRepo.UpdatePassword(ctx, nil, user.ID, string(hashed)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (as *authService) Profile(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("%w: no request data in context", ErrUnauthorized)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := as.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, rd.UserID)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (as *authService) ListUsers(ctx context.Context, page filters.Page) ([]*repos.UserRecord, int64, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, fmt.Errorf("%w: no request data in context", ErrUnauthorized)
	}
	if rd.Role != types.RoleAdmin && rd.Role != types.RoleSuperAdmin {
		return nil, 0, fmt.Errorf("%w: admin role required", ErrForbidden)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	records, total, err := as.userRepo.List(ctx, nil, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return records, total, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
