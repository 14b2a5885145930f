// Package ledger is the fungible-token collaborator: it moves MON and Soul
// Stone balances between accounts inside whatever transaction handle the
// caller supplies, so a multi-party settlement either lands completely or
// not at all.
package ledger

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"genetix/internal/repository"
)

type Token string

const (
	TokenMON       Token = "MON"
	TokenSoulStone Token = "SOUL_STONE"
)

var (
	ErrAccountNotFound     = errors.New("token account not found")
	ErrAccountClosed       = errors.New("token account closed")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrAccountNotEmpty     = errors.New("token account not empty")
)

// Account addressing is deterministic: every account id derives from the
// logical key it serves, so any component can locate a record without a
// separate index.
var namespace = uuid.MustParse("8f0b2c6e-31c4-4a6d-9a75-2e7d9f54c0aa")

// AccountID returns the account for a trainer's holdings of one token.
func AccountID(token Token, owner uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(string(token)+":"+owner.String()))
}

// VaultID returns the account for a named system vault (fee collection,
// mint receipts). Vaults carry no owner; only services hold their names.
func VaultID(token Token, name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("vault:"+name+":"+string(token)))
}

// Custody is the handle for a battle's escrow account. Only the escrow
// service constructs these; handlers never see one, which keeps the
// outgoing-transfer capability inside that component.
type Custody struct {
	id uuid.UUID
}

func CustodyForBattle(battleID uint64) Custody {
	return Custody{id: uuid.NewSHA1(namespace, []byte("custody:"+strconv.FormatUint(battleID, 10)))}
}

type Ledger struct {
	db repository.ExtHandle
}

func New(db repository.ExtHandle) *Ledger {
	return &Ledger{db: db}
}

// EnsureAccount opens the trainer's account for the token if it does not
// exist yet and returns its id.
func (l *Ledger) EnsureAccount(token Token, owner uuid.UUID) (uuid.UUID, error) {
	id := AccountID(token, owner)
	query := `
		INSERT INTO token_accounts (id, owner, token, balance, closed)
		VALUES ($1, $2, $3, 0, false)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := l.db.Exec(query, id, owner, token); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// EnsureVault opens a named system vault if it does not exist yet.
func (l *Ledger) EnsureVault(token Token, name string) (uuid.UUID, error) {
	id := VaultID(token, name)
	query := `
		INSERT INTO token_accounts (id, owner, token, balance, closed)
		VALUES ($1, NULL, $2, 0, false)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := l.db.Exec(query, id, token); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// OpenCustody creates the system-owned escrow account for a battle. The row
// carries no owner; nothing outside this package can authorize a debit on it.
func (l *Ledger) OpenCustody(c Custody, token Token) error {
	query := `
		INSERT INTO token_accounts (id, owner, token, balance, closed)
		VALUES ($1, NULL, $2, 0, false)
	`
	_, err := l.db.Exec(query, c.id, token)
	return err
}

func (l *Ledger) Balance(id uuid.UUID) (uint64, error) {
	return l.balance(`SELECT balance FROM token_accounts WHERE id = $1 AND closed = false`, id)
}

// BalanceForUpdate locks the account row; used when the read feeds into a
// settlement inside the same transaction.
func (l *Ledger) BalanceForUpdate(id uuid.UUID) (uint64, error) {
	return l.balance(`SELECT balance FROM token_accounts WHERE id = $1 AND closed = false FOR UPDATE`, id)
}

func (l *Ledger) balance(query string, id uuid.UUID) (uint64, error) {
	var balance uint64
	err := l.db.Get(&balance, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (l *Ledger) CustodyBalanceForUpdate(c Custody) (uint64, error) {
	return l.BalanceForUpdate(c.id)
}

// Transfer moves amount between two open accounts. The debit is a guarded
// decrement, so a short balance fails the whole call without touching
// either row.
func (l *Ledger) Transfer(from, to uuid.UUID, amount uint64) error {
	return l.move(from, to, amount)
}

// DepositCustody moves a stake from a trainer account into escrow.
func (l *Ledger) DepositCustody(from uuid.UUID, c Custody, amount uint64) error {
	return l.move(from, c.id, amount)
}

// PayFromCustody releases escrowed funds. Only reachable through a Custody
// handle.
func (l *Ledger) PayFromCustody(c Custody, to uuid.UUID, amount uint64) error {
	return l.move(c.id, to, amount)
}

func (l *Ledger) move(from, to uuid.UUID, amount uint64) error {
	if err := l.debit(from, amount); err != nil {
		return err
	}
	return l.credit(to, amount)
}

func (l *Ledger) debit(id uuid.UUID, amount uint64) error {
	query := `
		UPDATE token_accounts
		SET balance = balance - $1
		WHERE id = $2 AND closed = false AND balance >= $1
	`
	res, err := l.db.Exec(query, amount, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := l.Balance(id); errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return ErrInsufficientBalance
	}
	return nil
}

func (l *Ledger) credit(id uuid.UUID, amount uint64) error {
	query := `
		UPDATE token_accounts
		SET balance = balance + $1
		WHERE id = $2 AND closed = false
	`
	res, err := l.db.Exec(query, amount, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (l *Ledger) MintTo(id uuid.UUID, amount uint64) error {
	return l.credit(id, amount)
}

func (l *Ledger) BurnFrom(id uuid.UUID, amount uint64) error {
	return l.debit(id, amount)
}

// CloseCustody retires an escrow account after settlement. Any residual is
// swept to refundTo first, so no value can be stranded on the closed row.
func (l *Ledger) CloseCustody(c Custody, refundTo uuid.UUID) error {
	residual, err := l.BalanceForUpdate(c.id)
	if err != nil {
		return err
	}
	if residual > 0 {
		if err := l.move(c.id, refundTo, residual); err != nil {
			return err
		}
	}

	query := `UPDATE token_accounts SET closed = true WHERE id = $1 AND closed = false`
	res, err := l.db.Exec(query, c.id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAccountNotFound
	}
	return nil
}
