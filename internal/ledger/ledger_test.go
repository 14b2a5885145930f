package ledger

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genetix/internal/testutil"
)

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	db, err := testutil.SetupTestDB("../../.env.test", "../../migrations")
	if err != nil {
		log.Printf("[TestMain ledger] test database unavailable: %v", err)
		testDB = nil
	} else {
		testDB = db
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func TestAccountID_Deterministic(t *testing.T) {
	owner := uuid.New()
	assert.Equal(t, AccountID(TokenMON, owner), AccountID(TokenMON, owner))
	assert.NotEqual(t, AccountID(TokenMON, owner), AccountID(TokenSoulStone, owner))
	assert.NotEqual(t, AccountID(TokenMON, owner), AccountID(TokenMON, uuid.New()))
	assert.NotEqual(t, VaultID(TokenMON, "a"), VaultID(TokenMON, "b"))
}

func TestLedger_MintAndTransfer(t *testing.T) {
	testutil.RequireDB(t, testDB)
	lgr := New(testDB)

	alice, err := lgr.EnsureAccount(TokenMON, uuid.New())
	require.NoError(t, err)
	bob, err := lgr.EnsureAccount(TokenMON, uuid.New())
	require.NoError(t, err)

	require.NoError(t, lgr.MintTo(alice, 1000))

	balance, err := lgr.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), balance)

	require.NoError(t, lgr.Transfer(alice, bob, 400))

	balance, err = lgr.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), balance)

	balance, err = lgr.Balance(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), balance)
}

func TestLedger_TransferShortBalance(t *testing.T) {
	testutil.RequireDB(t, testDB)
	lgr := New(testDB)

	alice, err := lgr.EnsureAccount(TokenMON, uuid.New())
	require.NoError(t, err)
	bob, err := lgr.EnsureAccount(TokenMON, uuid.New())
	require.NoError(t, err)
	require.NoError(t, lgr.MintTo(alice, 100))

	err = lgr.Transfer(alice, bob, 101)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// The guarded debit never fired, so neither row moved.
	balance, err := lgr.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance)

	balance, err = lgr.Balance(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)
}

func TestLedger_TransferUnknownAccount(t *testing.T) {
	testutil.RequireDB(t, testDB)
	lgr := New(testDB)

	bob, err := lgr.EnsureAccount(TokenMON, uuid.New())
	require.NoError(t, err)

	err = lgr.Transfer(uuid.New(), bob, 1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLedger_BurnFrom(t *testing.T) {
	testutil.RequireDB(t, testDB)
	lgr := New(testDB)

	account, err := lgr.EnsureAccount(TokenSoulStone, uuid.New())
	require.NoError(t, err)
	require.NoError(t, lgr.MintTo(account, 2))

	require.NoError(t, lgr.BurnFrom(account, 1))

	balance, err := lgr.Balance(account)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), balance)

	require.NoError(t, lgr.BurnFrom(account, 1))
	err = lgr.BurnFrom(account, 1)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestLedger_CustodyLifecycle(t *testing.T) {
	testutil.RequireDB(t, testDB)
	lgr := New(testDB)

	custody := CustodyForBattle(uint64(time.Now().UnixNano()))
	require.NoError(t, lgr.OpenCustody(custody, TokenMON))

	payer, err := lgr.EnsureAccount(TokenMON, uuid.New())
	require.NoError(t, err)
	require.NoError(t, lgr.MintTo(payer, 500))
	require.NoError(t, lgr.DepositCustody(payer, custody, 500))

	pot, err := lgr.CustodyBalanceForUpdate(custody)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), pot)

	payee, err := lgr.EnsureAccount(TokenMON, uuid.New())
	require.NoError(t, err)
	require.NoError(t, lgr.PayFromCustody(custody, payee, 450))

	refund, err := lgr.EnsureAccount(TokenMON, uuid.New())
	require.NoError(t, err)
	require.NoError(t, lgr.CloseCustody(custody, refund))

	// Residual swept to the refund account before the row closed.
	balance, err := lgr.Balance(refund)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), balance)

	_, err = lgr.CustodyBalanceForUpdate(custody)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	// Closed custody takes no further movement.
	err = lgr.PayFromCustody(custody, payee, 1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
