// Package catalog manages provider service listings and their discovery.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/utils"
)

const DefaultRadiusKm = 10.0

type Store interface {
	Search(ctx context.Context, f models.ServiceFilter) ([]models.Service, int64, error)
	// GetActive ignores inactive and deleted listings.
	GetActive(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Create(ctx context.Context, s *models.Service) error
	Save(ctx context.Context, s *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProvider(ctx context.Context, providerID uuid.UUID, p models.Page) ([]models.Service, int64, error)
	ListAll(ctx context.Context, includeDeleted bool) ([]models.Service, error)
	Categories(ctx context.Context) ([]string, error)
	Subcategories(ctx context.Context, category string) ([]string, error)
	// InBox returns active listings with coordinates inside the box.
	InBox(ctx context.Context, box models.GeoBox) ([]models.Service, error)
}

type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log.With().Str("component", "catalog").Logger()}
}

var sortable = map[string]string{
	"createdat":  "created_at",
	"created_at": "created_at",
	"price":      "price",
	"title":      "title",
}

type SearchInput struct {
	Category    string
	Subcategory string
	Location    string
	Keyword     string
	SortBy      string
	SortDir     string
	Page        int
	Size        int
}

func (s *Service) Search(ctx context.Context, in SearchInput) (models.PageResult[models.Service], error) {
	col, ok := sortable[strings.ToLower(strings.TrimSpace(in.SortBy))]
	if in.SortBy == "" {
		col, ok = "created_at", true
	}
	if !ok {
		return models.PageResult[models.Service]{}, models.Invalid("sortBy", "must be one of createdAt, price, title")
	}
	desc := true
	switch strings.ToLower(strings.TrimSpace(in.SortDir)) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return models.PageResult[models.Service]{}, models.Invalid("sortDir", "must be asc or desc")
	}

	page := models.NewPage(in.Page, in.Size)
	items, total, err := s.store.Search(ctx, models.ServiceFilter{
		Category:    strings.TrimSpace(in.Category),
		Subcategory: strings.TrimSpace(in.Subcategory),
		Location:    strings.TrimSpace(in.Location),
		Keyword:     strings.TrimSpace(in.Keyword),
		SortBy:      col,
		SortDesc:    desc,
		Page:        page,
	})
	if err != nil {
		return models.PageResult[models.Service]{}, err
	}
	return models.NewPageResult(items, page, total), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.store.GetActive(ctx, id)
}

type ServiceInput struct {
	Title        string          `json:"title" validate:"required,min=5,max=100"`
	Description  string          `json:"description" validate:"required,min=10,max=1000"`
	Category     string          `json:"category" validate:"required,max=100"`
	Subcategory  string          `json:"subcategory" validate:"required,max=100"`
	Price        float64         `json:"price" validate:"gte=0.01"`
	Location     string          `json:"location" validate:"required,max=255"`
	Latitude     *float64        `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64        `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Availability json.RawMessage `json:"availability"`
	Images       []string        `json:"images"`
	IsActive     *bool           `json:"is_active"`
}

func (in *ServiceInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Subcategory = strings.TrimSpace(in.Subcategory)
	in.Location = strings.TrimSpace(in.Location)
	// kolom price decimal(10,2): bulatkan dulu supaya yang divalidasi sama dengan yang disimpan
	in.Price = math.Round(in.Price*100) / 100
	if err := utils.ValidateStruct(in); err != nil {
		return err
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return models.Invalid("latitude", "latitude and longitude must be set together")
	}
	if len(in.Availability) > 0 && !json.Valid(in.Availability) {
		return models.Invalid("availability", "must be valid JSON")
	}
	return nil
}

func (in *ServiceInput) apply(svc *models.Service) error {
	svc.Title = in.Title
	svc.Description = in.Description
	svc.Category = in.Category
	svc.Subcategory = in.Subcategory
	svc.Price = in.Price
	svc.Location = in.Location
	svc.Latitude = in.Latitude
	svc.Longitude = in.Longitude
	if len(in.Availability) > 0 {
		svc.Availability = datatypes.JSON(in.Availability)
	}
	if in.Images != nil {
		b, err := json.Marshal(in.Images)
		if err != nil {
			return err
		}
		svc.Images = datatypes.JSON(b)
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p models.Principal, in ServiceInput) (*models.Service, error) {
	if err := models.RequireRole(p, models.RoleProvider, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	svc := &models.Service{ProviderID: p.ID, IsActive: true, Images: datatypes.JSON("[]")}
	if err := in.apply(svc); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.log.Info().Str("service_id", svc.ID.String()).Str("provider_id", p.ID.String()).Msg("service created")
	return svc, nil
}

// owned loads a non-deleted listing the principal may mutate.
func (s *Service) owned(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Service, error) {
	if err := models.RequireRole(p, models.RoleProvider, models.RoleAdmin); err != nil {
		return nil, err
	}
	svc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Owns(svc.ProviderID) {
		return nil, fmt.Errorf("%w: not the owner of this service", models.ErrForbidden)
	}
	return svc, nil
}

func (s *Service) Update(ctx context.Context, p models.Principal, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	svc, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := in.apply(svc); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) SetActive(ctx context.Context, p models.Principal, id uuid.UUID, active bool) (*models.Service, error) {
	svc, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	svc.IsActive = active
	if err := s.store.Save(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) UpdateLocation(ctx context.Context, p models.Principal, id uuid.UUID, lat, lng float64, location string) (*models.Service, error) {
	if lat < -90 || lat > 90 {
		return nil, models.Invalid("latitude", "must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return nil, models.Invalid("longitude", "must be between -180 and 180")
	}
	svc, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	svc.Latitude, svc.Longitude = &lat, &lng
	if loc := strings.TrimSpace(location); loc != "" {
		svc.Location = loc
	}
	if err := s.store.Save(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Delete soft-deletes the listing; bookings keep pointing at it.
func (s *Service) Delete(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("service_id", id.String()).Str("by", p.ID.String()).Msg("service deleted")
	return nil
}

func (s *Service) MyServices(ctx context.Context, p models.Principal, page, size int) (models.PageResult[models.Service], error) {
	if err := models.RequireRole(p, models.RoleProvider, models.RoleAdmin); err != nil {
		return models.PageResult[models.Service]{}, err
	}
	pg := models.NewPage(page, size)
	items, total, err := s.store.ListByProvider(ctx, p.ID, pg)
	if err != nil {
		return models.PageResult[models.Service]{}, err
	}
	return models.NewPageResult(items, pg, total), nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

func (s *Service) Subcategories(ctx context.Context, category string) ([]string, error) {
	return s.store.Subcategories(ctx, strings.TrimSpace(category))
}

func (s *Service) AdminList(ctx context.Context, p models.Principal, includeDeleted bool) ([]models.Service, error) {
	if err := models.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.ListAll(ctx, includeDeleted)
}

func (s *Service) AdminDelete(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if err := models.RequireRole(p, models.RoleAdmin); err != nil {
		return err
	}
	return s.Delete(ctx, p, id)
}
