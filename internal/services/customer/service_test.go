package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/models"
	"fidelite/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerRepo) FindByLookupCode(ctx context.Context, code string) (*models.Customer, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*models.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerRepo) UpdateProfile(ctx context.Context, id uint, name string, age *int, city string) error {
	return m.Called(ctx, id, name, age, city).Error(0)
}

func (m *MockCustomerRepo) UpdateLookupCode(ctx context.Context, id uint, code string) error {
	return m.Called(ctx, id, code).Error(0)
}

func (m *MockCustomerRepo) ListByMerchant(ctx context.Context, merchantID uint) ([]models.Customer, error) {
	args := m.Called(ctx, merchantID)
	list, _ := args.Get(0).([]models.Customer)
	return list, args.Error(1)
}

func (m *MockCustomerRepo) ActiveOffers(ctx context.Context, customerID uint) ([]models.Offer, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]models.Offer)
	return list, args.Error(1)
}

func (m *MockCustomerRepo) AddActiveOffer(ctx context.Context, customerID, offerID uint) error {
	return m.Called(ctx, customerID, offerID).Error(0)
}

func (m *MockCustomerRepo) RemoveActiveOffer(ctx context.Context, customerID, offerID uint) error {
	return m.Called(ctx, customerID, offerID).Error(0)
}

func (m *MockCustomerRepo) DeleteCascade(ctx context.Context, customerID uint) error {
	return m.Called(ctx, customerID).Error(0)
}

type MockMerchantRepo struct {
	mock.Mock
}

func (m *MockMerchantRepo) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	args := m.Called(ctx, id)
	mr, _ := args.Get(0).(*models.Merchant)
	return mr, args.Error(1)
}

func (m *MockMerchantRepo) Update(ctx context.Context, merchant *models.Merchant) error {
	return m.Called(ctx, merchant).Error(0)
}

func (m *MockMerchantRepo) List(ctx context.Context, filter repositories.MerchantFilter, limit, offset int) ([]models.Merchant, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	list, _ := args.Get(0).([]models.Merchant)
	return list, args.Get(1).(int64), args.Error(2)
}

type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) Create(ctx context.Context, offer *models.Offer) error {
	return m.Called(ctx, offer).Error(0)
}

func (m *MockOfferRepo) GetByID(ctx context.Context, id uint) (*models.Offer, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*models.Offer)
	return o, args.Error(1)
}

func (m *MockOfferRepo) Update(ctx context.Context, offer *models.Offer) error {
	return m.Called(ctx, offer).Error(0)
}

func (m *MockOfferRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOfferRepo) ListActive(ctx context.Context, now time.Time, limit, offset int) ([]models.Offer, int64, error) {
	args := m.Called(ctx, now, limit, offset)
	list, _ := args.Get(0).([]models.Offer)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *MockOfferRepo) ListByMerchant(ctx context.Context, merchantID uint, activeAt *time.Time) ([]models.Offer, error) {
	args := m.Called(ctx, merchantID, activeAt)
	list, _ := args.Get(0).([]models.Offer)
	return list, args.Error(1)
}

type MockRatingRepo struct {
	mock.Mock
}

func (m *MockRatingRepo) Upsert(ctx context.Context, rating *models.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *MockRatingRepo) Average(ctx context.Context, merchantID uint) (repositories.RatingStats, error) {
	args := m.Called(ctx, merchantID)
	return args.Get(0).(repositories.RatingStats), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

var now = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

type fixture struct {
	customers *MockCustomerRepo
	merchants *MockMerchantRepo
	offers    *MockOfferRepo
	ratings   *MockRatingRepo
	cache     *MockCache
	codes     []string
	svc       Service
}

func newFixture(codes ...string) *fixture {
	f := &fixture{
		customers: new(MockCustomerRepo),
		merchants: new(MockMerchantRepo),
		offers:    new(MockOfferRepo),
		ratings:   new(MockRatingRepo),
		cache:     new(MockCache),
		codes:     codes,
	}
	f.svc = NewService(f.customers, f.merchants, f.offers, f.ratings, f.cache, Config{
		Now: func() time.Time { return now },
		NewLookupCode: func() (string, error) {
			code := f.codes[0]
			f.codes = f.codes[1:]
			return code, nil
		},
	})
	return f
}

func TestService_GetProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.cache.On("Get", ctx, "customer:id:5", mock.Anything).Return(false, nil)
	f.customers.On("GetByID", ctx, uint(5)).Return(&models.Customer{ID: 5, Points: 250, LookupCode: "ABCD2345"}, nil)
	f.customers.On("ActiveOffers", ctx, uint(5)).Return([]models.Offer{{ID: 1}}, nil)
	f.cache.On("Set", ctx, "customer:id:5", mock.Anything).Return(nil)

	profile, err := f.svc.GetProfile(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, 2, profile.MaxCoupons)
	assert.Equal(t, "ABCD2345", profile.Customer.LookupCode)
	assert.Len(t, profile.ActiveOffers, 1)
	f.cache.AssertExpectations(t)
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an impossible age", func(t *testing.T) {
		f := newFixture()
		age := 200

		_, err := f.svc.UpdateProfile(ctx, 5, UpdateProfileRequest{Name: "Léa", Age: &age})

		assert.Equal(t, domainErrors.KindValidation, domainErrors.KindOf(err))
		f.customers.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("trims and invalidates", func(t *testing.T) {
		f := newFixture()
		age := 31
		f.customers.On("UpdateProfile", ctx, uint(5), "Léa", &age, "Nantes").Return(nil)
		f.cache.On("Delete", ctx, []string{"customer:id:5"}).Return(nil)
		f.cache.On("Get", ctx, "customer:id:5", mock.Anything).Return(false, nil)
		f.customers.On("GetByID", ctx, uint(5)).Return(&models.Customer{ID: 5, Name: "Léa", Age: &age, City: "Nantes"}, nil)
		f.customers.On("ActiveOffers", ctx, uint(5)).Return(nil, nil)
		f.cache.On("Set", ctx, "customer:id:5", mock.Anything).Return(nil)

		profile, err := f.svc.UpdateProfile(ctx, 5, UpdateProfileRequest{Name: " Léa ", Age: &age, City: " Nantes"})

		require.NoError(t, err)
		assert.Equal(t, "Nantes", profile.Customer.City)
		f.customers.AssertExpectations(t)
	})
}

func TestService_RotateLookupCode(t *testing.T) {
	ctx := context.Background()

	t.Run("retries on collision", func(t *testing.T) {
		f := newFixture("TAKEN222", "FRESH333")
		f.customers.On("UpdateLookupCode", ctx, uint(5), "TAKEN222").Return(repositories.ErrLookupCodeTaken)
		f.customers.On("UpdateLookupCode", ctx, uint(5), "FRESH333").Return(nil)
		f.cache.On("Delete", ctx, []string{"customer:id:5"}).Return(nil)

		code, err := f.svc.RotateLookupCode(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, "FRESH333", code)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		f := newFixture("A", "A", "A", "A", "A")
		f.customers.On("UpdateLookupCode", ctx, uint(5), "A").Return(repositories.ErrLookupCodeTaken)

		_, err := f.svc.RotateLookupCode(ctx, 5)

		assert.ErrorIs(t, err, ErrLookupCodeFailed)
		f.customers.AssertNumberOfCalls(t, "UpdateLookupCode", lookupCodeAttempts)
	})
}

func TestService_AddOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("expired offer is refused", func(t *testing.T) {
		f := newFixture()
		f.offers.On("GetByID", ctx, uint(3)).Return(&models.Offer{ID: 3, ExpiresAt: now.Add(-time.Hour)}, nil)

		err := f.svc.AddOffer(ctx, 5, 3)

		assert.ErrorIs(t, err, ErrOfferExpired)
		f.customers.AssertNotCalled(t, "AddActiveOffer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("active offer is linked", func(t *testing.T) {
		f := newFixture()
		f.offers.On("GetByID", ctx, uint(3)).Return(&models.Offer{ID: 3, ExpiresAt: now.AddDate(0, 1, 0)}, nil)
		f.customers.On("AddActiveOffer", ctx, uint(5), uint(3)).Return(nil)
		f.cache.On("Delete", ctx, []string{"customer:id:5"}).Return(nil)

		require.NoError(t, f.svc.AddOffer(ctx, 5, 3))
		f.customers.AssertExpectations(t)
	})
}

func TestService_Rate(t *testing.T) {
	ctx := context.Background()

	t.Run("out of range", func(t *testing.T) {
		f := newFixture()
		err := f.svc.Rate(ctx, 5, 2, 0)
		assert.Equal(t, domainErrors.KindValidation, domainErrors.KindOf(err))
	})

	t.Run("unknown merchant", func(t *testing.T) {
		f := newFixture()
		f.merchants.On("GetByID", ctx, uint(2)).Return(nil, repositories.ErrMerchantNotFound)

		err := f.svc.Rate(ctx, 5, 2, 4)

		assert.ErrorIs(t, err, repositories.ErrMerchantNotFound)
		f.ratings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("upserts and drops the storefront", func(t *testing.T) {
		f := newFixture()
		f.merchants.On("GetByID", ctx, uint(2)).Return(&models.Merchant{ID: 2}, nil)
		f.ratings.On("Upsert", ctx, &models.Rating{CustomerID: 5, MerchantID: 2, Rating: 4}).Return(nil)
		f.cache.On("Delete", ctx, []string{"storefront:id:2"}).Return(nil)

		require.NoError(t, f.svc.Rate(ctx, 5, 2, 4))
		f.ratings.AssertExpectations(t)
		f.cache.AssertExpectations(t)
	})
}

func TestService_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("cascade then invalidate", func(t *testing.T) {
		f := newFixture()
		f.customers.On("DeleteCascade", ctx, uint(5)).Return(nil)
		f.cache.On("Delete", ctx, []string{"customer:id:5"}).Return(nil)

		require.NoError(t, f.svc.DeleteAccount(ctx, 5))
		f.cache.AssertExpectations(t)
	})

	t.Run("store failure leaves the cache alone", func(t *testing.T) {
		f := newFixture()
		f.customers.On("DeleteCascade", ctx, uint(5)).Return(errors.New("connection reset"))

		assert.Error(t, f.svc.DeleteAccount(ctx, 5))
		f.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
