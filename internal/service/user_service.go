package service

import (
	"backend/internal/mailer"
	"backend/internal/model"
	"backend/internal/repository"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	StoreID  string `json:"store_id" binding:"required"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   int    `json:"otp" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         int    `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning User without exposing sensitive data (password, OTPs)
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	StoreID    uuid.UUID `json:"store_id"`
	StoreName  string    `json:"store_name,omitempty"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo      repository.UserRepository
	storeRepo repository.StoreRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	mailer    mailer.Mailer
	logger    *zap.Logger
}

// NewUserService returns a new instance of UserService
func NewUserService(
	repo repository.UserRepository,
	storeRepo repository.StoreRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	m mailer.Mailer,
	logger *zap.Logger,
) UserService {
	return &userService{
		repo:      repo,
		storeRepo: storeRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		mailer:    m,
		logger:    logger,
	}
}

// Helper: check if role is a known role
func validateRole(role string) bool {
	for _, known := range model.KnownRoles() {
		if role == known {
			return true
		}
	}
	return false
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	res := &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		StoreID:    user.StoreID,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  user.UpdatedAt.Format(time.RFC3339),
	}
	if user.Store != nil {
		res.StoreName = user.Store.Name
	}
	return res
}

func (s *userService) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	if !validateRole(req.Role) {
		return nil, errors.New("invalid role")
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, errors.New("invalid store_id")
	}
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, errors.New("store not found")
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("user already registered with this email")
	}
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username already exists")
	}

	// Each store carries a single CE at the top of its approval chain.
	if req.Role == model.RoleCE {
		if _, err := s.repo.GetByRoleAndStore(ctx, model.RoleCE, storeID); err == nil {
			return nil, errors.New("CE already registered for this store")
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      req.Role,
		StoreID:   storeID,
		IsActive:  true,
		VerifyOTP: &otp,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, user); createErr != nil {
			return createErr
		}
		audit := &model.AuditLog{
			UserID:     &user.ID,
			Action:     model.ActionRegisterUser,
			EntityID:   user.ID.String(),
			EntityName: user.Username,
			Details:    fmt.Sprintf(`{"role": %q, "store_id": %q}`, user.Role, user.StoreID),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	// Delivery failures must not fail registration; the OTP can be re-sent.
	if s.mailer != nil {
		if sendErr := s.mailer.SendOTP(ctx, user.Email, otp); sendErr != nil {
			s.logger.Warn("failed to send verification otp",
				zap.String("email", user.Email), zap.Error(sendErr))
		}
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role))

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, req.RefreshToken)
		return nil, errors.New("refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return nil, errors.New("user not found")
	}

	// Rotate: invalidate the used token before issuing a new pair.
	if err := s.repo.DeleteRefreshToken(ctx, req.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *userService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) error {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return errors.New("user not found")
	}

	if user.VerifyOTP == nil || *user.VerifyOTP != req.OTP {
		return errors.New("invalid otp")
	}

	user.IsVerified = true
	user.VerifyOTP = nil
	return s.repo.Update(ctx, user)
}

func (s *userService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email is registered.
		return nil
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	user.ForgotOTP = &otp
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	if s.mailer != nil {
		if sendErr := s.mailer.SendOTP(ctx, user.Email, otp); sendErr != nil {
			s.logger.Warn("failed to send reset otp",
				zap.String("email", user.Email), zap.Error(sendErr))
		}
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return errors.New("user not found")
	}

	if user.ForgotOTP == nil || *user.ForgotOTP != req.OTP {
		return errors.New("invalid otp")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashedPassword)
	user.ForgotOTP = nil
	return s.repo.Update(ctx, user)
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var responses []UserResponse
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.Role != "" {
		if !validateRole(req.Role) {
			return nil, errors.New("invalid role")
		}
		user.Role = req.Role
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
			return nil, errors.New("username already exists")
		}
		user.Username = req.Username
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, errors.New("email already exists")
		}
		user.Email = req.Email
	}

	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.repo.Update(txCtx, user); updateErr != nil {
			return updateErr
		}
		audit := &model.AuditLog{
			UserID:     &user.ID,
			Action:     model.ActionUpdateUser,
			EntityID:   user.ID.String(),
			EntityName: user.Username,
			Details:    fmt.Sprintf(`{"role": %q}`, user.Role),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("user not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.repo.Delete(txCtx, id); deleteErr != nil {
			return deleteErr
		}
		audit := &model.AuditLog{
			Action:     model.ActionDeleteUser,
			EntityID:   user.ID.String(),
			EntityName: user.Username,
			Details:    `{"deleted": true}`,
		}
		return s.auditRepo.Log(txCtx, audit)
	})
}

// --- token helpers ---

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	// 12h access token carrying id, role and store for downstream authorization
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"role":     user.Role,
		"store_id": user.StoreID.String(),
		"exp":      time.Now().Add(12 * time.Hour).Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	refreshValue, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{Token: tokenString, RefreshToken: refreshValue}, nil
}

// generateOTP returns a 6-digit one-time password
func generateOTP() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 100000, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
