package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"github.com/tcnr01/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrWeakPassword        = util.ErrPasswordTooShort
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInactiveUser        = errors.New("account is inactive")
	ErrUserNotFound        = errors.New("user not found or inactive")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrIncorrectPassword   = errors.New("current password is incorrect")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrInvalidProfile      = errors.New("invalid profile")
)

// TokenBlacklist records revoked token ids until they would have expired.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateProfileInput holds optional fields; nil leaves a field unchanged.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	Country      *string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput, sessionID string) (*util.TokenPair, error)
	Login(ctx context.Context, email, password, sessionID string) (*util.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, access *util.Claims, refreshToken string) error
	AuthenticateAccessToken(ctx context.Context, token string) (*util.Claims, *model.User, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
}

type authService struct {
	userRepo      repository.UserRepository
	carts         CartService
	blacklist     TokenBlacklist
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService wires token issuance. blacklist may be nil, in which case
// logout does not revoke anything.
func NewAuthService(
	userRepo repository.UserRepository,
	carts CartService,
	blacklist TokenBlacklist,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		carts:         carts,
		blacklist:     blacklist,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(user.ID, user.Email, s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

// mergeCart folds the caller's anonymous cart into the user's. A failed
// merge leaves both carts as they were and does not fail the login.
func (s *authService) mergeCart(sessionID string, userID uint) {
	if sessionID == "" || s.carts == nil {
		return
	}
	if err := s.carts.MergeAnonymousCart(sessionID, userID); err != nil {
		logger.Error("Cart merge failed after authentication", err, map[string]interface{}{
			"user_id":    userID,
			"session_id": sessionID,
		})
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput, sessionID string) (*util.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
	})

	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, ErrWeakPassword
	}
	if email == "" || strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, ErrInvalidProfile
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Country:      model.DefaultCountry,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.mergeCart(sessionID, user.ID)

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

func (s *authService) Login(ctx context.Context, email, password, sessionID string) (*util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Warn("Login failed: account inactive", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInactiveUser
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.mergeCart(sessionID, user.ID)

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

func (s *authService) checkRevoked(ctx context.Context, claims *util.Claims) error {
	if s.blacklist == nil || claims.TokenID() == "" {
		return nil
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func (s *authService) activeUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Refresh exchanges a valid refresh token for a new pair. The presented
// refresh token is revoked when a blacklist is configured.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateTokenOfType(refreshToken, s.jwtSecret, util.TokenTypeRefresh)
	if err != nil {
		logger.Warn("Refresh token rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, ErrInvalidRefreshToken
	}

	if err := s.checkRevoked(ctx, claims); err != nil {
		if errors.Is(err, ErrTokenRevoked) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	user, err := s.activeUser(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		if err := s.blacklist.Revoke(ctx, claims.TokenID(), claims.Remaining()); err != nil {
			logger.Warn("Failed to revoke used refresh token", map[string]interface{}{
				"user_id": user.ID,
				"error":   err.Error(),
			})
		}
	}

	logger.Info("Tokens refreshed", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

// Logout revokes the access token and, when given, the refresh token.
func (s *authService) Logout(ctx context.Context, access *util.Claims, refreshToken string) error {
	if s.blacklist == nil {
		logger.Debug("Logout without token blacklist, nothing revoked", nil)
		return nil
	}

	if access != nil {
		if err := s.blacklist.Revoke(ctx, access.TokenID(), access.Remaining()); err != nil {
			logger.Error("Failed to revoke access token", err, map[string]interface{}{
				"user_id": access.UserID,
			})
			return err
		}
	}

	if refreshToken != "" {
		claims, err := util.ValidateTokenOfType(refreshToken, s.jwtSecret, util.TokenTypeRefresh)
		if err != nil {
			return ErrInvalidRefreshToken
		}
		if access != nil && claims.UserID != access.UserID {
			return ErrInvalidRefreshToken
		}
		if err := s.blacklist.Revoke(ctx, claims.TokenID(), claims.Remaining()); err != nil {
			logger.Error("Failed to revoke refresh token", err, map[string]interface{}{
				"user_id": claims.UserID,
			})
			return err
		}
	}

	fields := map[string]interface{}{}
	if access != nil {
		fields["user_id"] = access.UserID
	}
	logger.Info("User logged out", fields)
	return nil
}

// AuthenticateAccessToken resolves a bearer token to an active user. It
// returns util.ErrExpiredToken, util.ErrInvalidToken, util.ErrWrongTokenType,
// ErrTokenRevoked or ErrUserNotFound.
func (s *authService) AuthenticateAccessToken(ctx context.Context, token string) (*util.Claims, *model.User, error) {
	claims, err := util.ValidateTokenOfType(token, s.jwtSecret, util.TokenTypeAccess)
	if err != nil {
		return nil, nil, err
	}

	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, nil, err
	}

	user, err := s.activeUser(claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return claims, user, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func applyOptional(dst **string, src *string) bool {
	if src == nil {
		return false
	}
	value := strings.TrimSpace(*src)
	if value == "" {
		*dst = nil
	} else {
		*dst = &value
	}
	return true
}

func (s *authService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, ErrInvalidProfile
		}
		user.FirstName = name
		updated = true
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if name == "" {
			return nil, ErrInvalidProfile
		}
		user.LastName = name
		updated = true
	}
	if input.Country != nil {
		country := strings.ToUpper(strings.TrimSpace(*input.Country))
		if country == "" {
			country = model.DefaultCountry
		}
		if len(country) != 2 {
			return nil, ErrInvalidProfile
		}
		user.Country = country
		updated = true
	}

	for _, field := range []struct {
		dst **string
		src *string
	}{
		{&user.Phone, input.Phone},
		{&user.AddressLine1, input.AddressLine1},
		{&user.AddressLine2, input.AddressLine2},
		{&user.City, input.City},
		{&user.State, input.State},
		{&user.PostalCode, input.PostalCode},
	} {
		if applyOptional(field.dst, field.src) {
			updated = true
		}
	}

	if !updated {
		logger.Debug("No changes detected for user profile", map[string]interface{}{
			"user_id": userID,
		})
		return user, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *authService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change rejected: wrong current password", map[string]interface{}{
			"user_id": userID,
		})
		return ErrIncorrectPassword
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return ErrWeakPassword
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePasswordHash(userID, hashedPassword); err != nil {
		logger.Error("Failed to update password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
