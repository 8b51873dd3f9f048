package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

// ServiceStore persists catalog listings.
type ServiceStore struct {
	db *gorm.DB
}

func NewServiceStore(db *gorm.DB) *ServiceStore { return &ServiceStore{db: db} }

func (s *ServiceStore) Search(ctx context.Context, f models.ServiceFilter) ([]models.Service, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Service{}).Where("is_active = ?", true)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Subcategory != "" {
		q = q.Where("subcategory = ?", f.Subcategory)
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", "%"+escapeLike(f.Location)+"%")
	}
	if f.Keyword != "" {
		kw := "%" + escapeLike(f.Keyword) + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ? OR category ILIKE ? OR subcategory ILIKE ?", kw, kw, kw, kw)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.SortBy
	if order == "" {
		order = "created_at"
	}
	if f.SortDesc {
		order += " DESC"
	} else {
		order += " ASC"
	}
	var out []models.Service
	err := q.Preload("Provider").Order(order).Scopes(paginate(f.Page)).Find(&out).Error
	return out, total, err
}

func (s *ServiceStore) GetActive(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	err := s.db.WithContext(ctx).Preload("Provider").
		Where("id = ? AND is_active = ?", id, true).
		First(&svc).Error
	if err != nil {
		return nil, notFound(err, models.ErrServiceNotFound)
	}
	return &svc, nil
}

func (s *ServiceStore) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := s.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, notFound(err, models.ErrServiceNotFound)
	}
	return &svc, nil
}

func (s *ServiceStore) Create(ctx context.Context, svc *models.Service) error {
	return s.db.WithContext(ctx).Create(svc).Error
}

func (s *ServiceStore) Save(ctx context.Context, svc *models.Service) error {
	return s.db.WithContext(ctx).Omit("Provider").Save(svc).Error
}

func (s *ServiceStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrServiceNotFound
	}
	return nil
}

func (s *ServiceStore) ListByProvider(ctx context.Context, providerID uuid.UUID, p models.Page) ([]models.Service, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Service{}).Where("provider_id = ?", providerID).Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Service
	err := q.Order("created_at DESC").Scopes(paginate(p)).Find(&out).Error
	return out, total, err
}

func (s *ServiceStore) ListAll(ctx context.Context, includeDeleted bool) ([]models.Service, error) {
	q := s.db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var out []models.Service
	err := q.Preload("Provider", unscoped).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *ServiceStore) CountActiveByProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Service{}).
		Where("provider_id = ? AND is_active = ?", providerID, true).
		Count(&n).Error
	return n, err
}

func (s *ServiceStore) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&models.Service{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &out).Error
	return out, err
}

func (s *ServiceStore) Subcategories(ctx context.Context, category string) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&models.Service{}).
		Where("is_active = ? AND category = ? AND subcategory <> ''", true, category).
		Distinct("subcategory").
		Order("subcategory").
		Pluck("subcategory", &out).Error
	return out, err
}

func (s *ServiceStore) InBox(ctx context.Context, box models.GeoBox) ([]models.Service, error) {
	var out []models.Service
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", true).
		Where("latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?", box.MinLat, box.MaxLat, box.MinLng, box.MaxLng).
		Find(&out).Error
	return out, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
