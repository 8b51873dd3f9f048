package handlers

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CategoryService interface {
	Categories(ctx context.Context) ([]string, error)
	Subcategories(ctx context.Context, category string) ([]string, error)
}

type CategoryHandler struct {
	Catalog CategoryService
}

func NewCategoryHandler(catalog CategoryService) *CategoryHandler {
	return &CategoryHandler{Catalog: catalog}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.Catalog.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "", categories)
}

func (h *CategoryHandler) GetSubcategories(c *fiber.Ctx) error {
	category, err := url.PathUnescape(c.Params("category"))
	if err != nil {
		return fiber.ErrBadRequest
	}
	category = strings.TrimSpace(category)
	subs, err := h.Catalog.Subcategories(c.UserContext(), category)
	if err != nil {
		return err
	}
	return ok(c, "", subs)
}
