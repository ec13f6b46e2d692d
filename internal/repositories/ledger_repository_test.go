package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	lockCustomerSQL = regexp.QuoteMeta(`SELECT * FROM "customers" WHERE "customers"."id" = $1 ORDER BY "customers"."id" LIMIT $2 FOR UPDATE`)
	insertTxnSQL    = regexp.QuoteMeta(`INSERT INTO "transactions"`)
	incrementSQL    = regexp.QuoteMeta(`UPDATE "customers" SET "points"=points + $1 WHERE id = $2`)
)

// newMockDB opens gorm over sqlmock with the same error translation as InitDB.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func customerRow(id uint, points int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "account_id", "name", "points", "lookup_code"}).
		AddRow(id, 100+id, "Léa", points, "ABCD2345")
}

func purchase(customerID uint, added, deducted int64) *models.Transaction {
	return &models.Transaction{
		Kind:           models.TransactionKindPurchase,
		MerchantID:     3,
		CustomerID:     customerID,
		PointsAdded:    added,
		PointsDeducted: deducted,
		NetPoints:      added - deducted,
		PurchaseAmount: decimal.NewFromInt(100),
		TotalRevenue:   decimal.NewFromInt(90),
		DiscountPct:    decimal.NewFromInt(10),
		UsedBons:       1,
	}
}

// award performs the same repository calls as the ledger service.
func award(ctx context.Context, repo LedgerRepository, customerID uint, txn *models.Transaction) error {
	return repo.ExecuteInTransaction(ctx, func(tx LedgerRepository) error {
		locked, err := tx.LockCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if err := tx.AppendTransaction(ctx, txn); err != nil {
			return err
		}
		return tx.IncrementPoints(ctx, locked.ID, txn.NetPoints)
	})
}

func TestLedgerRepository_AwardCommitsBothWrites(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(lockCustomerSQL).WithArgs(10, 1).WillReturnRows(customerRow(10, 250))
	mock.ExpectQuery(insertTxnSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(incrementSQL).WithArgs(int64(-10), 10).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn := purchase(10, 90, 100)
	require.NoError(t, award(ctx, repo, 10, txn))

	assert.Equal(t, uint(42), txn.ID)
	assert.NotEmpty(t, txn.Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_AwardRollsBackWhenIncrementFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(lockCustomerSQL).WillReturnRows(customerRow(10, 250))
	mock.ExpectQuery(insertTxnSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(incrementSQL).WillReturnError(errors.New("check constraint chk_customers_points"))
	mock.ExpectRollback()

	err := award(ctx, repo, 10, purchase(10, 90, 100))

	require.Error(t, err)
	assert.Equal(t, domainErrors.KindProvider, domainErrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_AwardDuplicateKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(lockCustomerSQL).WillReturnRows(customerRow(10, 250))
	mock.ExpectQuery(insertTxnSQL).WillReturnError(&pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_transactions_idempotency",
	})
	mock.ExpectRollback()

	key := "retry-1"
	txn := purchase(10, 90, 100)
	txn.IdempotencyKey = &key
	err := award(ctx, repo, 10, txn)

	assert.ErrorIs(t, err, ErrDuplicateIdempotent)
	assert.Equal(t, domainErrors.KindConflict, domainErrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_IncrementMissingCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(incrementSQL).WithArgs(int64(5), 99).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.IncrementPoints(context.Background(), 99, 5)

	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_LockMissingCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)

	mock.ExpectQuery(lockCustomerSQL).WithArgs(99, 1).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.LockCustomer(context.Background(), 99)

	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_FindByIdempotencyKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)
	query := regexp.QuoteMeta(`SELECT * FROM "transactions" WHERE merchant_id = $1 AND idempotency_key = $2`)

	mock.ExpectQuery(query).WithArgs(3, "k-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "merchant_id", "customer_id", "net_points"}).AddRow(7, 3, 10, 55))
	mock.ExpectQuery(query).WithArgs(3, "k-2").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	txn, err := repo.FindByIdempotencyKey(context.Background(), 3, "k-1")
	require.NoError(t, err)
	assert.Equal(t, uint(10), txn.CustomerID)
	assert.Equal(t, int64(55), txn.NetPoints)

	_, err = repo.FindByIdempotencyKey(context.Background(), 3, "k-2")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
