package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradejournal/internal/auth"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserSuspended      = errors.New("account suspended")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type UserService struct {
	Repo     repository.Repository
	JWT      auth.JWT
	Sessions auth.Sessions
	Hasher   auth.PasswordHasher
	Logger   *zap.Logger
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthResult struct {
	User  *models.User
	Token string
}

// Register creates the user together with their starter account in one
// transaction. New users get a 10000.00 USD forex account so the
// dashboard has a balance to move from day one.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if existing, err := s.Repo.GetUserByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.Repo.GetUserByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
		Plan:     models.PlanFree,
	}
	initial := decimal.RequireFromString("10000.00")
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.InsertUserTx(ctx, tx, user); err != nil {
			return err
		}
		account := &models.TradingAccount{
			UserID:         user.ID,
			Name:           "Cuenta Principal",
			AccountType:    "forex",
			InitialCapital: initial,
			CurrentCapital: initial,
			Currency:       "USD",
			IsActive:       true,
		}
		return s.Repo.InsertAccountTx(ctx, tx, account)
	})
	if err != nil {
		return nil, err
	}

	token, _, err := s.JWT.Sign(auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login accepts either a username or an email as identifier.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	user, err := s.lookupByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !s.Hasher.Compare(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if user.IsSuspended {
		return nil, ErrUserSuspended
	}

	token, _, err := s.JWT.Sign(auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) Logout(ctx context.Context, claims auth.Claims) error {
	if s == nil {
		return nil
	}
	return s.Sessions.Revoke(ctx, claims)
}

func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user == nil, nil
}

func (s *UserService) CheckEmail(ctx context.Context, email string) (bool, error) {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user == nil, nil
}

func (s *UserService) CheckIdentifier(ctx context.Context, identifier string) (bool, error) {
	user, err := s.lookupByIdentifier(ctx, identifier)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

type ProfileUpdate struct {
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	IsPublicProfile *bool
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*models.User, error) {
	updates := map[string]any{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.ProfileImageURL != nil {
		updates["profile_image_url"] = *in.ProfileImageURL
	}
	if in.IsPublicProfile != nil {
		updates["is_public_profile"] = *in.IsPublicProfile
	}
	if err := s.Repo.UpdateUser(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

type PreferencesUpdate struct {
	PreferredTradeInput    *string
	DefaultTradeVisibility *string
	PreferredTheme         *string
	HasCompletedOnboarding *bool
}

func (s *UserService) UpdatePreferences(ctx context.Context, id string, in PreferencesUpdate) (*models.User, error) {
	updates := map[string]any{}
	if in.PreferredTradeInput != nil {
		updates["preferred_trade_input"] = *in.PreferredTradeInput
	}
	if in.DefaultTradeVisibility != nil {
		updates["default_trade_visibility"] = *in.DefaultTradeVisibility
	}
	if in.PreferredTheme != nil {
		updates["preferred_theme"] = *in.PreferredTheme
	}
	if in.HasCompletedOnboarding != nil {
		updates["has_completed_onboarding"] = *in.HasCompletedOnboarding
	}
	if err := s.Repo.UpdateUser(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *UserService) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.Hasher.Compare(user.Password, current) {
		return ErrWrongPassword
	}
	hashed, err := s.Hasher.Hash(next)
	if err != nil {
		return err
	}
	return s.Repo.UpdateUser(ctx, id, map[string]any{"password": hashed})
}

// DeleteAccount removes the user and all dependent rows after
// re-checking their password, then revokes the active session.
func (s *UserService) DeleteAccount(ctx context.Context, claims auth.Claims, password string) error {
	user, err := s.Get(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if !s.Hasher.Compare(user.Password, password) {
		return ErrWrongPassword
	}
	if err := s.Repo.DeleteUserCascade(ctx, claims.UserID); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("user account deleted", zap.String("user_id", claims.UserID))
	}
	return s.Sessions.Revoke(ctx, claims)
}

func (s *UserService) lookupByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}
	if strings.Contains(identifier, "@") {
		return s.Repo.GetUserByEmail(ctx, identifier)
	}
	return s.Repo.GetUserByUsername(ctx, identifier)
}
