package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/example/taskflow/internal/models"
)

// GormAccountStore is the postgres-backed AccountStore.
type GormAccountStore struct {
	db *gorm.DB
}

// NewGormAccountStore constructs a GormAccountStore.
func NewGormAccountStore(db *gorm.DB) *GormAccountStore {
	return &GormAccountStore{db: db}
}

func (s *GormAccountStore) Create(ctx context.Context, account *models.Account) error {
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *GormAccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormAccountStore) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormAccountStore) first(ctx context.Context, query string, arg any) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where(query, arg).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

// Save writes every column, including nil OTP fields.
func (s *GormAccountStore) Save(ctx context.Context, account *models.Account) error {
	if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (s *GormAccountStore) List(ctx context.Context, filter AccountFilter) ([]models.Account, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Account{})

	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if filter.Verified != nil {
		query = query.Where("is_verified = ?", *filter.Verified)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	order := "created_at asc"
	if filter.SortDesc {
		order = "created_at desc"
	}

	page := query.Order(order).Offset(filter.Offset)
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit)
	}

	var accounts []models.Account
	if err := page.Find(&accounts).Error; err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, total, nil
}
