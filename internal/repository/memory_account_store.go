package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/example/taskflow/internal/models"
)

// MemoryAccountStore keeps accounts in process memory. It backs local runs
// with DATABASE_URL=memory:// and the service tests.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	nextID   uint
	accounts map[uint]models.Account
	now      func() time.Time
}

// NewMemoryAccountStore returns an empty store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: make(map[uint]models.Account),
		now:      time.Now,
	}
}

// Create reports a duplicate email with the same SQLSTATE 23505 error
// postgres raises for the unique index.
func (s *MemoryAccountStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return fmt.Errorf("create account: %w", &pgconn.PgError{
				Severity:       "ERROR",
				Code:           "23505",
				Message:        `duplicate key value violates unique constraint "idx_accounts_email"`,
				Detail:         fmt.Sprintf("Key (email)=(%s) already exists.", account.Email),
				TableName:      "accounts",
				ConstraintName: "idx_accounts_email",
			})
		}
	}

	s.nextID++
	now := s.now()
	account.ID = s.nextID
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = clone(*account)
	return nil
}

func (s *MemoryAccountStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if account.Email == email {
			found := clone(account)
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryAccountStore) FindByID(_ context.Context, id uint) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := clone(account)
	return &found, nil
}

func (s *MemoryAccountStore) Save(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; !ok {
		return fmt.Errorf("save account %d: %w", account.ID, ErrNotFound)
	}
	account.UpdatedAt = s.now()
	s.accounts[account.ID] = clone(*account)
	return nil
}

func (s *MemoryAccountStore) List(_ context.Context, filter AccountFilter) ([]models.Account, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		if filter.Active != nil && account.IsActive != *filter.Active {
			continue
		}
		if filter.Verified != nil && account.IsVerified != *filter.Verified {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(account.Name), search) &&
			!strings.Contains(strings.ToLower(account.Email), search) {
			continue
		}
		matched = append(matched, clone(account))
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			if filter.SortDesc {
				return matched[i].ID > matched[j].ID
			}
			return matched[i].ID < matched[j].ID
		}
		if filter.SortDesc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := min(max(filter.Offset, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = start + min(filter.Limit, len(matched)-start)
	}

	return matched[start:end], total, nil
}

// clone detaches the OTP pointers so callers cannot mutate stored state.
func clone(a models.Account) models.Account {
	if a.OTP != nil {
		code := *a.OTP
		a.OTP = &code
	}
	if a.OTPExpiry != nil {
		expiry := *a.OTPExpiry
		a.OTPExpiry = &expiry
	}
	return a
}
