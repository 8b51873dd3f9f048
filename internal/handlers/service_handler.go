package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/catalog"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/storage"
)

type CatalogService interface {
	Search(ctx context.Context, in catalog.SearchInput) (models.PageResult[models.Service], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Create(ctx context.Context, p models.Principal, in catalog.ServiceInput) (*models.Service, error)
	Update(ctx context.Context, p models.Principal, id uuid.UUID, in catalog.ServiceInput) (*models.Service, error)
	SetActive(ctx context.Context, p models.Principal, id uuid.UUID, active bool) (*models.Service, error)
	UpdateLocation(ctx context.Context, p models.Principal, id uuid.UUID, lat, lng float64, location string) (*models.Service, error)
	Delete(ctx context.Context, p models.Principal, id uuid.UUID) error
	MyServices(ctx context.Context, p models.Principal, page, size int) (models.PageResult[models.Service], error)
	WithCoordinates(ctx context.Context) ([]models.Service, error)
	BoundingBox(ctx context.Context, box models.GeoBox) ([]models.Service, error)
	WithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]catalog.Nearby, error)
}

type ServiceHandler struct {
	Catalog  CatalogService
	Uploader storage.Uploader
}

func NewServiceHandler(cat CatalogService, uploader storage.Uploader) *ServiceHandler {
	return &ServiceHandler{Catalog: cat, Uploader: uploader}
}

// List is the public search. keyword is also accepted as "search".
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	page, size := pageQuery(c)
	res, err := h.Catalog.Search(c.UserContext(), catalog.SearchInput{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Location:    c.Query("location"),
		Keyword:     c.Query("keyword", c.Query("search")),
		SortBy:      c.Query("sortBy", c.Query("sort_by")),
		SortDir:     c.Query("sortDir", c.Query("sort_dir")),
		Page:        page,
		Size:        size,
	})
	if err != nil {
		return err
	}
	return ok(c, "", res)
}

func (h *ServiceHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	svc, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "", svc)
}

func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req catalog.ServiceInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	svc, err := h.Catalog.Create(c.UserContext(), p, req)
	if err != nil {
		return err
	}
	return created(c, "Service created", svc)
}

func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req catalog.ServiceInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	svc, err := h.Catalog.Update(c.UserContext(), p, id, req)
	if err != nil {
		return err
	}
	return ok(c, "Service updated", svc)
}

type statusReq struct {
	IsActive *bool `json:"is_active"`
}

func (h *ServiceHandler) SetStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req statusReq
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return models.Invalid("is_active", "is required")
	}
	svc, err := h.Catalog.SetActive(c.UserContext(), p, id, *req.IsActive)
	if err != nil {
		return err
	}
	return ok(c, "Service status updated", svc)
}

type locationReq struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Location  string   `json:"location"`
}

func (h *ServiceHandler) UpdateLocation(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req locationReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	if req.Latitude == nil || req.Longitude == nil {
		return models.Invalid("latitude", "latitude and longitude are required")
	}
	svc, err := h.Catalog.UpdateLocation(c.UserContext(), p, id, *req.Latitude, *req.Longitude, req.Location)
	if err != nil {
		return err
	}
	return ok(c, "Service location updated", svc)
}

func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.Delete(c.UserContext(), p, id); err != nil {
		return err
	}
	return ok(c, "Service deleted", nil)
}

func (h *ServiceHandler) MyServices(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, size := pageQuery(c)
	res, err := h.Catalog.MyServices(c.UserContext(), p, page, size)
	if err != nil {
		return err
	}
	return ok(c, "", res)
}

// UploadImage stores one listing image (multipart field "image") and returns its URL.
func (h *ServiceHandler) UploadImage(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	file, _ := c.FormFile("image")
	if err := storage.CheckFile(file, "image", storage.ImageExts); err != nil {
		return err
	}
	url, err := h.Uploader.Upload(c.UserContext(), file, "services/"+p.ID.String())
	if err != nil {
		return err
	}
	return created(c, "Image uploaded", fiber.Map{"url": url})
}

func (h *ServiceHandler) Map(c *fiber.Ctx) error {
	out, err := h.Catalog.WithCoordinates(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "", out)
}

func (h *ServiceHandler) MapBounds(c *fiber.Ctx) error {
	var box models.GeoBox
	var err error
	for key, dst := range map[string]*float64{
		"minLat": &box.MinLat, "maxLat": &box.MaxLat,
		"minLng": &box.MinLng, "maxLng": &box.MaxLng,
	} {
		if *dst, err = queryFloat(c, key); err != nil {
			return err
		}
	}
	out, err := h.Catalog.BoundingBox(c.UserContext(), box)
	if err != nil {
		return err
	}
	return ok(c, "", out)
}

func (h *ServiceHandler) Nearby(c *fiber.Ctx) error {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		return err
	}
	lng, err := queryFloat(c, "lng")
	if err != nil {
		return err
	}
	radius := catalog.DefaultRadiusKm
	if c.Query("radius") != "" {
		if radius, err = queryFloat(c, "radius"); err != nil {
			return err
		}
	}
	out, err := h.Catalog.WithinRadius(c.UserContext(), lat, lng, radius)
	if err != nil {
		return err
	}
	return ok(c, "", out)
}
