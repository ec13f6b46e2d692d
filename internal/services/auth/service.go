package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/logger"
	"fidelite/internal/models"
	"fidelite/internal/repositories"
	"fidelite/internal/utils"
	"fidelite/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = domainErrors.Unauthorized("INVALID_CREDENTIALS", "invalid credentials")
	ErrTokenRevoked       = domainErrors.Unauthorized("TOKEN_REVOKED", "token has been revoked")
)

// lookupCodeAttempts bounds retries when a generated code collides.
const lookupCodeAttempts = 5

type RegisterRequest struct {
	Email    string
	Password string
	Role     string
	Name     string

	// Merchant storefront fields, ignored for customers.
	Address  string
	City     string
	Category string
}

type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *models.Account `json:"account"`
	ProfileID uint            `json:"profile_id"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, accountID uint) error
	// ValidateTokenVersion rejects claims issued before the last logout.
	ValidateTokenVersion(ctx context.Context, claims *models.UserClaims) error
}

type Config struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
	// NewLookupCode defaults to utils.GenerateLookupCode.
	NewLookupCode func() (string, error)
}

type service struct {
	accounts repositories.AccountRepository
	config   Config
}

func NewService(accounts repositories.AccountRepository, config Config) Service {
	if accounts == nil {
		panic("account repository is required")
	}
	if config.Secret == "" {
		panic("jwt secret is required")
	}
	if config.TokenTTL == 0 {
		config.TokenTTL = 24 * time.Hour
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.NewLookupCode == nil {
		config.NewLookupCode = utils.GenerateLookupCode
	}
	return &service{accounts: accounts, config: config}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	v := validation.New()
	v.Registration(req.Email, req.Password, req.Role, req.Name)
	if err := v.Err(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	var profileID uint
	var account *models.Account
	for attempt := 0; attempt < lookupCodeAttempts; attempt++ {
		account = &models.Account{
			Email:        req.Email,
			Password:     string(hashed),
			Role:         req.Role,
			TokenVersion: 1,
		}

		var customer *models.Customer
		var merchant *models.Merchant
		if req.Role == models.RoleCustomer {
			code, err := s.config.NewLookupCode()
			if err != nil {
				return nil, err
			}
			customer = &models.Customer{Name: req.Name, Email: req.Email, LookupCode: code}
		} else {
			merchant = &models.Merchant{
				Name:     req.Name,
				Address:  strings.TrimSpace(req.Address),
				City:     strings.TrimSpace(req.City),
				Category: strings.TrimSpace(req.Category),
			}
		}

		err = s.accounts.CreateWithProfile(ctx, account, customer, merchant)
		if errors.Is(err, repositories.ErrLookupCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if customer != nil {
			profileID = customer.ID
		} else {
			profileID = merchant.ID
		}
		break
	}
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("account registered",
		zap.Uint("account_id", account.ID),
		zap.String("role", account.Role),
	)
	return s.issue(account, profileID)
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			// Burn comparable time so unknown emails are not distinguishable.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z4TgCFq3ZhlJlMsPp3vAjYx."), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		logger.FromContext(ctx).Info("login failed", zap.Uint("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	profileID, err := s.accounts.ProfileID(ctx, account)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.TouchLastLogin(ctx, account.ID); err != nil {
		logger.FromContext(ctx).Warn("failed to record last login", zap.Error(err))
	}

	return s.issue(account, profileID)
}

func (s *service) Logout(ctx context.Context, accountID uint) error {
	return s.accounts.IncrementTokenVersion(ctx, accountID)
}

func (s *service) ValidateTokenVersion(ctx context.Context, claims *models.UserClaims) error {
	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return ErrTokenRevoked
		}
		return err
	}
	if account.TokenVersion != claims.TokenVersion {
		return ErrTokenRevoked
	}
	return nil
}

func (s *service) issue(account *models.Account, profileID uint) (*Session, error) {
	token, err := utils.GenerateToken(&models.UserClaims{
		AccountID:    account.ID,
		ProfileID:    profileID,
		Email:        account.Email,
		Role:         account.Role,
		Permissions:  models.GetDefaultPermissions(account.Role),
		TokenVersion: account.TokenVersion,
	}, s.config.Secret, s.config.TokenTTL)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(s.config.TokenTTL),
		Account:   account,
		ProfileID: profileID,
	}, nil
}
