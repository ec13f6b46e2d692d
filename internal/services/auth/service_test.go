package auth

import (
	"context"
	"testing"
	"time"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/models"
	"fidelite/internal/repositories"
	"fidelite/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *MockAccountRepo) CreateWithProfile(ctx context.Context, account *models.Account, customer *models.Customer, merchant *models.Merchant) error {
	args := m.Called(ctx, account, customer, merchant)
	if err := args.Error(0); err != nil {
		return err
	}
	account.ID = 1
	if customer != nil {
		customer.ID = 11
	}
	if merchant != nil {
		merchant.ID = 21
	}
	return nil
}

func (m *MockAccountRepo) ProfileID(ctx context.Context, account *models.Account) (uint, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockAccountRepo) IncrementTokenVersion(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAccountRepo) TouchLastLogin(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

const secret = "test-secret"

func newTestService(repo *MockAccountRepo, codes ...string) Service {
	i := 0
	return NewService(repo, Config{
		Secret:     secret,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
		NewLookupCode: func() (string, error) {
			code := codes[i%len(codes)]
			i++
			return code, nil
		},
	})
}

func TestRegister_Customer(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepo)
	svc := newTestService(repo, "AAAA2222")

	repo.On("CreateWithProfile", ctx,
		mock.MatchedBy(func(a *models.Account) bool {
			return a.Email == "ana@example.com" && a.Role == models.RoleCustomer && a.Password != "secret123"
		}),
		mock.MatchedBy(func(c *models.Customer) bool { return c != nil && c.LookupCode == "AAAA2222" }),
		(*models.Merchant)(nil),
	).Return(nil)

	session, err := svc.Register(ctx, RegisterRequest{
		Email: " Ana@Example.com ", Password: "secret123", Role: models.RoleCustomer, Name: "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(11), session.ProfileID)
	claims, err := utils.ParseToken(session.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.AccountID)
	assert.Equal(t, uint(11), claims.ProfileID)
	assert.True(t, claims.HasPermission(models.PermissionProfileWrite))
	assert.False(t, claims.HasPermission(models.PermissionLedgerWrite))
}

func TestRegister_RetriesLookupCodeCollision(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepo)
	svc := newTestService(repo, "TAKEN222", "FREE3333")

	repo.On("CreateWithProfile", ctx, mock.Anything,
		mock.MatchedBy(func(c *models.Customer) bool { return c.LookupCode == "TAKEN222" }),
		(*models.Merchant)(nil),
	).Return(repositories.ErrLookupCodeTaken).Once()
	repo.On("CreateWithProfile", ctx, mock.Anything,
		mock.MatchedBy(func(c *models.Customer) bool { return c.LookupCode == "FREE3333" }),
		(*models.Merchant)(nil),
	).Return(nil).Once()

	_, err := svc.Register(ctx, RegisterRequest{
		Email: "ana@example.com", Password: "secret123", Role: models.RoleCustomer, Name: "Ana",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRegister_Merchant(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepo)
	svc := newTestService(repo, "UNUSED22")

	repo.On("CreateWithProfile", ctx, mock.Anything, (*models.Customer)(nil),
		mock.MatchedBy(func(m *models.Merchant) bool { return m.Name == "Chez Paul" && m.City == "Lyon" }),
	).Return(nil)

	session, err := svc.Register(ctx, RegisterRequest{
		Email: "paul@example.com", Password: "secret123", Role: models.RoleMerchant, Name: "Chez Paul", City: " Lyon",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(21), session.ProfileID)
}

func TestRegister_Validation(t *testing.T) {
	repo := new(MockAccountRepo)
	svc := newTestService(repo, "X")

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "bad", Password: "x", Role: "admin"})

	assert.Equal(t, domainErrors.KindValidation, domainErrors.KindOf(err))
	repo.AssertNotCalled(t, "CreateWithProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.Account{ID: 3, Email: "paul@example.com", Password: string(hash), Role: models.RoleMerchant, TokenVersion: 4}

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockAccountRepo)
		svc := newTestService(repo, "X")
		repo.On("GetByEmail", ctx, "paul@example.com").Return(account, nil)
		repo.On("ProfileID", ctx, account).Return(uint(21), nil)
		repo.On("TouchLastLogin", ctx, uint(3)).Return(nil)

		session, err := svc.Authenticate(ctx, "paul@example.com", "secret123")
		require.NoError(t, err)

		claims, err := utils.ParseToken(session.Token, secret)
		require.NoError(t, err)
		assert.Equal(t, 4, claims.TokenVersion)
		assert.Equal(t, uint(21), claims.ProfileID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockAccountRepo)
		svc := newTestService(repo, "X")
		repo.On("GetByEmail", ctx, "paul@example.com").Return(account, nil)

		_, err := svc.Authenticate(ctx, "paul@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockAccountRepo)
		svc := newTestService(repo, "X")
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repositories.ErrAccountNotFound)

		_, err := svc.Authenticate(ctx, "ghost@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateTokenVersion(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepo)
	svc := newTestService(repo, "X")
	repo.On("GetByID", ctx, uint(3)).Return(&models.Account{ID: 3, TokenVersion: 2}, nil)

	assert.NoError(t, svc.ValidateTokenVersion(ctx, &models.UserClaims{AccountID: 3, TokenVersion: 2}))
	assert.ErrorIs(t, svc.ValidateTokenVersion(ctx, &models.UserClaims{AccountID: 3, TokenVersion: 1}), ErrTokenRevoked)
}
