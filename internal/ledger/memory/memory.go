// Package memory provides the in-memory Ledger implementation. Balances are
// maintained on every write: income adds, expense subtracts, updates and
// deletes revert before reapplying.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"finsight/internal/categories"
	"finsight/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	accounts []ledger.Account
	txs      []ledger.Transaction
}

// Snapshot is the JSON shape accepted by FromSnapshotFile. Account balances
// in a snapshot are taken as already consistent with its transactions.
type Snapshot struct {
	Accounts     []ledger.Account     `json:"accounts"`
	Transactions []ledger.Transaction `json:"transactions"`
}

func New() *Store {
	return &Store{}
}

// FromSnapshotFile loads a JSON snapshot into a fresh store.
func FromSnapshotFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var snap Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	s := New()
	s.accounts = append(s.accounts, snap.Accounts...)
	s.txs = append(s.txs, snap.Transactions...)
	return s, nil
}

// CreateAccount registers an account and returns it with a generated id.
func (s *Store) CreateAccount(_ context.Context, name, accType, currency string, opening float64) (ledger.Account, error) {
	acc := ledger.Account{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     accType,
		Currency: currency,
		Balance:  opening,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, acc)
	return acc, nil
}

// RecordTransaction appends a ledger entry and moves the account balance.
func (s *Store) RecordTransaction(_ context.Context, in ledger.TransactionInput) (ledger.Transaction, error) {
	if in.Amount <= 0 {
		return ledger.Transaction{}, ledger.ErrNonPositiveAmount
	}
	if in.Type != ledger.TypeIncome && in.Type != ledger.TypeExpense {
		return ledger.Transaction{}, ledger.ErrUnknownType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.findAccount(in.AccountID)
	if acc == nil {
		return ledger.Transaction{}, ledger.ErrAccountNotFound
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	tx := ledger.Transaction{
		ID:          uuid.NewString(),
		AccountID:   in.AccountID,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    in.Category,
		Description: in.Description,
		Date:        date,
	}
	s.txs = append(s.txs, tx)
	applyBalance(acc, in.Amount, in.Type)
	return tx, nil
}

// UpdateTransaction rewrites an entry's fields, reverting its old balance
// effect and applying the new one. The entry stays on its account.
func (s *Store) UpdateTransaction(_ context.Context, id string, in ledger.TransactionInput) (ledger.Transaction, error) {
	if in.Amount <= 0 {
		return ledger.Transaction{}, ledger.ErrNonPositiveAmount
	}
	if in.Type != ledger.TypeIncome && in.Type != ledger.TypeExpense {
		return ledger.Transaction{}, ledger.ErrUnknownType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.txs {
		if s.txs[i].ID != id {
			continue
		}
		old := s.txs[i]
		acc := s.findAccount(old.AccountID)
		if acc == nil {
			return ledger.Transaction{}, ledger.ErrAccountNotFound
		}
		revertBalance(acc, old.Amount, old.Type)

		s.txs[i].Amount = in.Amount
		s.txs[i].Type = in.Type
		if in.Category != "" {
			s.txs[i].Category = in.Category
		}
		if in.Description != "" {
			s.txs[i].Description = in.Description
		}
		if !in.Date.IsZero() {
			s.txs[i].Date = in.Date
		}
		applyBalance(acc, in.Amount, in.Type)
		return s.txs[i], nil
	}
	return ledger.Transaction{}, ledger.ErrTransactionNotFound
}

// DeleteTransaction removes an entry and reverts its balance effect.
func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.txs {
		if s.txs[i].ID != id {
			continue
		}
		if acc := s.findAccount(s.txs[i].AccountID); acc != nil {
			revertBalance(acc, s.txs[i].Amount, s.txs[i].Type)
		}
		s.txs = append(s.txs[:i], s.txs[i+1:]...)
		return nil
	}
	return ledger.ErrTransactionNotFound
}

// Transfer moves money between two accounts as a paired expense/income with
// the reserved transfer category.
func (s *Store) Transfer(ctx context.Context, fromID, toID string, amount float64, date time.Time, description string) (ledger.Transaction, ledger.Transaction, error) {
	if fromID == toID {
		return ledger.Transaction{}, ledger.Transaction{}, ledger.ErrSameAccount
	}
	if amount <= 0 {
		return ledger.Transaction{}, ledger.Transaction{}, ledger.ErrNonPositiveAmount
	}

	outDesc := description
	if outDesc == "" {
		outDesc = "Transfer to account " + toID
	}
	inDesc := description
	if inDesc == "" {
		inDesc = "Transfer from account " + fromID
	}

	txOut, err := s.RecordTransaction(ctx, ledger.TransactionInput{
		AccountID:   fromID,
		Amount:      amount,
		Type:        ledger.TypeExpense,
		Category:    categories.Transfer,
		Description: outDesc,
		Date:        date,
	})
	if err != nil {
		return ledger.Transaction{}, ledger.Transaction{}, err
	}
	txIn, err := s.RecordTransaction(ctx, ledger.TransactionInput{
		AccountID:   toID,
		Amount:      amount,
		Type:        ledger.TypeIncome,
		Category:    categories.Transfer,
		Description: inDesc,
		Date:        date,
	})
	if err != nil {
		// Roll the outgoing half back so the pair stays all-or-nothing.
		_ = s.DeleteTransaction(ctx, txOut.ID)
		return ledger.Transaction{}, ledger.Transaction{}, err
	}
	return txOut, txIn, nil
}

// Accounts returns a copy of the current account snapshots.
func (s *Store) Accounts(_ context.Context) ([]ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Account(nil), s.accounts...), nil
}

// Transactions returns a copy of the entries matching the filter, in
// insertion order.
func (s *Store) Transactions(_ context.Context, f ledger.Filter) ([]ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) findAccount(id string) *ledger.Account {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return &s.accounts[i]
		}
	}
	return nil
}

func applyBalance(acc *ledger.Account, amount float64, txType string) {
	if txType == ledger.TypeIncome {
		acc.Balance += amount
	} else {
		acc.Balance -= amount
	}
}

func revertBalance(acc *ledger.Account, amount float64, txType string) {
	if txType == ledger.TypeIncome {
		acc.Balance -= amount
	} else {
		acc.Balance += amount
	}
}
