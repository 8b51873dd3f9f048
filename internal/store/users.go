package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateEmail
	}
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, notFound(err, models.ErrUserNotFound)
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, models.ErrUserNotFound)
	}
	return &u, nil
}

func (s *UserStore) Save(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *UserStore) BumpTokenVersion(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
}

func (s *UserStore) ListPendingProviders(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_verified = ?", models.RoleProvider, false).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (s *UserStore) List(ctx context.Context, includeDeleted bool) ([]models.User, error) {
	q := s.db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var out []models.User
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

// Delete soft-deletes the user and, in the same transaction, every listing
// they own so nothing of theirs stays searchable or bookable.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrUserNotFound
		}
		return tx.Where("provider_id = ?", id).Delete(&models.Service{}).Error
	})
}
