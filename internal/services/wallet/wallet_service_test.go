package wallet

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

func newWallet(t *testing.T) (*WalletService, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewWalletService(gdb), mock
}

func TestCreditRefund_RejectsNonPositive(t *testing.T) {
	w, mock := newWallet(t)
	for _, amount := range []float64{0, -5} {
		err := w.CreditRefund(w.DB, uuid.New(), amount, uuid.New(), "x")
		assert.ErrorIs(t, err, models.ErrValidation)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRefund_UnknownUser(t *testing.T) {
	w, mock := newWallet(t)
	mock.ExpectExec(`UPDATE "users" SET "balance"=balance \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := w.CreditRefund(w.DB, uuid.New(), 10, uuid.New(), "Refund")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRefund_WritesBalanceAndLedger(t *testing.T) {
	w, mock := newWallet(t)
	user, dispute := uuid.New(), uuid.New()
	mock.ExpectExec(`UPDATE "users" SET "balance"=balance \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "wallet_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	require.NoError(t, w.CreditRefund(w.DB, user, 25.5, dispute, "Refund for dispute"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditRefund_DeletedReporterStillCredited(t *testing.T) {
	w, mock := newWallet(t)
	user := uuid.New()
	mock.ExpectExec(`^UPDATE "users" SET "balance"=balance \+ \$1,"updated_at"=\$2 WHERE id = \$3$`).
		WithArgs(10.0, sqlmock.AnyArg(), user).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "wallet_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	require.NoError(t, w.CreditRefund(w.DB, user, 10, uuid.New(), "Refund"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummary(t *testing.T) {
	w, mock := newWallet(t)
	p := models.Principal{ID: uuid.New(), Role: models.RoleCustomer}
	mock.ExpectQuery(`SELECT "id","balance" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance"}).AddRow(p.ID, 75.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "wallet_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "wallet_transactions" WHERE user_id = \$1 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "type"}).
			AddRow(uuid.New(), p.ID, 75.0, "refund"))

	s, err := w.Summary(context.Background(), p, 1, 10)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, s.Balance, 0.001)
	assert.Equal(t, int64(1), s.Transactions.Meta.TotalItems)
	require.Len(t, s.Transactions.Items, 1)
	assert.Equal(t, models.WalletTrxRefund, s.Transactions.Items[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummary_UserMissing(t *testing.T) {
	w, mock := newWallet(t)
	mock.ExpectQuery(`SELECT "id","balance" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance"}))

	_, err := w.Summary(context.Background(), models.Principal{ID: uuid.New()}, 1, 10)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
