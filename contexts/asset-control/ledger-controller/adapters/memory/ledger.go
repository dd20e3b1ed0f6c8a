package memory

import (
	"context"
	"errors"
	"math"
	"sync"

	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"
)

// Ledger errors. They are returned to callers unmodified by the controller.
var (
	ErrMintExists          = errors.New("ledger: mint already exists")
	ErrMintNotFound        = errors.New("ledger: mint not found")
	ErrAccountExists       = errors.New("ledger: token account already exists")
	ErrAccountNotFound     = errors.New("ledger: token account not found")
	ErrMintMismatch        = errors.New("ledger: account does not belong to mint")
	ErrOwnerMismatch       = errors.New("ledger: authority does not own account")
	ErrAuthorityMismatch   = errors.New("ledger: authority mismatch")
	ErrNoFreezeAuthority   = errors.New("ledger: mint has no freeze authority")
	ErrAccountFrozen       = errors.New("ledger: account is frozen")
	ErrInvalidAccountState = errors.New("ledger: invalid account state")
	ErrInsufficientFunds   = errors.New("ledger: insufficient funds")
	ErrOverflow            = errors.New("ledger: operation overflowed")
)

// MintAccount is the ledger's view of one asset.
type MintAccount struct {
	Address         valueobjects.Identity
	Decimals        uint8
	Supply          uint64
	MintAuthority   valueobjects.Identity
	FreezeAuthority valueobjects.Identity
}

// TokenAccount is one balance-holding account.
type TokenAccount struct {
	Address valueobjects.Identity
	Mint    valueobjects.Identity
	Owner   valueobjects.Identity
	Amount  uint64
	Frozen  bool
}

// LedgerCall records one request that reached the ledger.
type LedgerCall struct {
	Operation   string
	Mint        valueobjects.Identity
	Source      valueobjects.Identity
	Destination valueobjects.Identity
	Account     valueobjects.Identity
	Authority   valueobjects.Identity
	Amount      uint64
}

// LedgerSnapshot is a deep copy of ledger balances and flags.
type LedgerSnapshot struct {
	Mints    map[valueobjects.Identity]MintAccount
	Accounts map[valueobjects.Identity]TokenAccount
}

// Ledger is an in-memory stand-in for the external asset-management service.
// It enforces the authority, freeze and balance rules the controller assumes
// the real service enforces.
type Ledger struct {
	mu sync.Mutex

	mints    map[valueobjects.Identity]MintAccount
	accounts map[valueobjects.Identity]TokenAccount
	calls    []LedgerCall
	failures map[string]error
	autoOpen bool
}

type LedgerOption func(*Ledger)

// WithAutoOpenAccounts makes a credit to an unknown address open it first,
// owned by the address itself. Used when the process has no account setup
// step of its own.
func WithAutoOpenAccounts() LedgerOption {
	return func(l *Ledger) { l.autoOpen = true }
}

func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		mints:    make(map[valueobjects.Identity]MintAccount),
		accounts: make(map[valueobjects.Identity]TokenAccount),
		failures: make(map[string]error),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OpenAccount creates an empty token account. Account creation belongs to the
// ledger, not the controller.
func (l *Ledger) OpenAccount(address valueobjects.Identity, mint valueobjects.Identity, owner valueobjects.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.accounts[address]; ok {
		return ErrAccountExists
	}
	l.accounts[address] = TokenAccount{Address: address, Mint: mint, Owner: owner}
	return nil
}

// FailNext makes the next call of operation return err without effect.
func (l *Ledger) FailNext(operation string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[operation] = err
}

func (l *Ledger) Account(address valueobjects.Identity) (TokenAccount, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[address]
	return account, ok
}

func (l *Ledger) Mint(address valueobjects.Identity) (MintAccount, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	mint, ok := l.mints[address]
	return mint, ok
}

func (l *Ledger) Calls() []LedgerCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LedgerCall(nil), l.calls...)
}

func (l *Ledger) Snapshot() LedgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := LedgerSnapshot{
		Mints:    make(map[valueobjects.Identity]MintAccount, len(l.mints)),
		Accounts: make(map[valueobjects.Identity]TokenAccount, len(l.accounts)),
	}
	for k, v := range l.mints {
		snapshot.Mints[k] = v
	}
	for k, v := range l.accounts {
		snapshot.Accounts[k] = v
	}
	return snapshot
}

// Savepoint captures balances, mints and flags. Recorded calls are kept.
func (l *Ledger) Savepoint() func() {
	snapshot := l.Snapshot()
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.mints = snapshot.Mints
		l.accounts = snapshot.Accounts
	}
}

// AccountMint is a read and is not recorded in Calls.
func (l *Ledger) AccountMint(_ context.Context, account valueobjects.Identity) (ports.MintHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.accounts[account]
	if !ok {
		return valueobjects.Identity{}, ErrAccountNotFound
	}
	return existing.Mint, nil
}

func (l *Ledger) CreateAsset(_ context.Context, input ports.CreateAssetInput) (ports.MintHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, LedgerCall{Operation: "create_asset", Mint: input.Mint, Authority: input.MintAuthority})
	if err := l.takeFailure("create_asset"); err != nil {
		return ports.MintHandle{}, err
	}
	if input.Mint.IsZero() || input.MintAuthority.IsZero() {
		return ports.MintHandle{}, ErrAuthorityMismatch
	}
	if _, ok := l.mints[input.Mint]; ok {
		return ports.MintHandle{}, ErrMintExists
	}
	l.mints[input.Mint] = MintAccount{
		Address:         input.Mint,
		Decimals:        input.Decimals,
		MintAuthority:   input.MintAuthority,
		FreezeAuthority: input.FreezeAuthority,
	}
	return input.Mint, nil
}

func (l *Ledger) Issue(
	_ context.Context,
	mint ports.MintHandle,
	destination valueobjects.Identity,
	authority valueobjects.Identity,
	amount uint64,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, LedgerCall{Operation: "issue", Mint: mint, Destination: destination, Authority: authority, Amount: amount})
	if err := l.takeFailure("issue"); err != nil {
		return err
	}
	mintAccount, ok := l.mints[mint]
	if !ok {
		return ErrMintNotFound
	}
	if authority != mintAccount.MintAuthority {
		return ErrAuthorityMismatch
	}
	account, err := l.creditableAccount(destination, mint)
	if err != nil {
		return err
	}
	if amount > math.MaxUint64-mintAccount.Supply || amount > math.MaxUint64-account.Amount {
		return ErrOverflow
	}
	mintAccount.Supply += amount
	account.Amount += amount
	l.mints[mint] = mintAccount
	l.accounts[destination] = account
	return nil
}

func (l *Ledger) Destroy(
	_ context.Context,
	mint ports.MintHandle,
	source valueobjects.Identity,
	authority valueobjects.Identity,
	amount uint64,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, LedgerCall{Operation: "destroy", Mint: mint, Source: source, Authority: authority, Amount: amount})
	if err := l.takeFailure("destroy"); err != nil {
		return err
	}
	mintAccount, ok := l.mints[mint]
	if !ok {
		return ErrMintNotFound
	}
	account, err := l.usableAccount(source, mint)
	if err != nil {
		return err
	}
	if account.Owner != authority {
		return ErrOwnerMismatch
	}
	if account.Amount < amount {
		return ErrInsufficientFunds
	}
	account.Amount -= amount
	mintAccount.Supply -= amount
	l.accounts[source] = account
	l.mints[mint] = mintAccount
	return nil
}

func (l *Ledger) Move(
	_ context.Context,
	source valueobjects.Identity,
	destination valueobjects.Identity,
	authority valueobjects.Identity,
	amount uint64,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, LedgerCall{Operation: "move", Source: source, Destination: destination, Authority: authority, Amount: amount})
	if err := l.takeFailure("move"); err != nil {
		return err
	}
	from, ok := l.accounts[source]
	if !ok {
		return ErrAccountNotFound
	}
	to, err := l.creditableAccount(destination, from.Mint)
	if err != nil {
		return err
	}
	if from.Frozen {
		return ErrAccountFrozen
	}
	if from.Owner != authority {
		return ErrOwnerMismatch
	}
	if from.Amount < amount {
		return ErrInsufficientFunds
	}
	if source == destination {
		return nil
	}
	if amount > math.MaxUint64-to.Amount {
		return ErrOverflow
	}
	from.Amount -= amount
	to.Amount += amount
	l.accounts[source] = from
	l.accounts[destination] = to
	return nil
}

func (l *Ledger) Freeze(_ context.Context, account valueobjects.Identity, mint ports.MintHandle, authority valueobjects.Identity) error {
	return l.setFrozen("freeze", account, mint, authority, true)
}

func (l *Ledger) Unfreeze(_ context.Context, account valueobjects.Identity, mint ports.MintHandle, authority valueobjects.Identity) error {
	return l.setFrozen("unfreeze", account, mint, authority, false)
}

func (l *Ledger) setFrozen(
	operation string,
	address valueobjects.Identity,
	mint ports.MintHandle,
	authority valueobjects.Identity,
	frozen bool,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, LedgerCall{Operation: operation, Mint: mint, Account: address, Authority: authority})
	if err := l.takeFailure(operation); err != nil {
		return err
	}
	mintAccount, ok := l.mints[mint]
	if !ok {
		return ErrMintNotFound
	}
	if mintAccount.FreezeAuthority.IsZero() {
		return ErrNoFreezeAuthority
	}
	if authority != mintAccount.FreezeAuthority {
		return ErrAuthorityMismatch
	}
	account, ok := l.accounts[address]
	if !ok {
		return ErrAccountNotFound
	}
	if account.Mint != mint {
		return ErrMintMismatch
	}
	if account.Frozen == frozen {
		return ErrInvalidAccountState
	}
	account.Frozen = frozen
	l.accounts[address] = account
	return nil
}

// usableAccount must be called with l.mu held.
func (l *Ledger) usableAccount(address valueobjects.Identity, mint valueobjects.Identity) (TokenAccount, error) {
	account, ok := l.accounts[address]
	if !ok {
		return TokenAccount{}, ErrAccountNotFound
	}
	if account.Mint != mint {
		return TokenAccount{}, ErrMintMismatch
	}
	if account.Frozen {
		return TokenAccount{}, ErrAccountFrozen
	}
	return account, nil
}

// creditableAccount is usableAccount plus auto-open. The new account is only
// stored by the caller's write, so a failed credit leaves nothing behind.
func (l *Ledger) creditableAccount(address valueobjects.Identity, mint valueobjects.Identity) (TokenAccount, error) {
	if _, ok := l.accounts[address]; !ok && l.autoOpen && !address.IsZero() {
		return TokenAccount{Address: address, Mint: mint, Owner: address}, nil
	}
	return l.usableAccount(address, mint)
}

// takeFailure must be called with l.mu held.
func (l *Ledger) takeFailure(operation string) error {
	err, ok := l.failures[operation]
	if !ok {
		return nil
	}
	delete(l.failures, operation)
	return err
}

var _ ports.Ledger = (*Ledger)(nil)
var _ ports.LedgerSavepointer = (*Ledger)(nil)
