package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/identity"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/storage"
)

type ProviderProfileService interface {
	Me(ctx context.Context, p models.Principal) (*models.User, error)
	UpdateProfile(ctx context.Context, p models.Principal, in identity.ProfileInput) (*models.User, error)
	AttachVerificationDocument(ctx context.Context, p models.Principal, docType, ref string) (*models.User, error)
	PublicProvider(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProviderOnboardingHandler walks a provider from signup to admin review:
// photo, about, verification document.
type ProviderOnboardingHandler struct {
	Profiles ProviderProfileService
	Uploader storage.Uploader
}

func NewProviderOnboardingHandler(profiles ProviderProfileService, uploader storage.Uploader) *ProviderOnboardingHandler {
	return &ProviderOnboardingHandler{Profiles: profiles, Uploader: uploader}
}

func (h *ProviderOnboardingHandler) Routes(r fiber.Router, auth, providerOnly fiber.Handler) {
	g := r.Group("/provider/onboarding", auth, providerOnly)
	g.Get("/", h.Get)
	g.Post("/photo", h.UploadPhoto)
	g.Patch("/about", h.UpdateAbout)
	g.Post("/document", h.UploadDocument)

	r.Get("/providers/:id", h.GetPublicProfile)
}

// onboardingStatus: "verified", "rejected" or "pending".
func onboardingStatus(u *models.User) string {
	switch {
	case u.IsVerified:
		return "verified"
	case u.VerificationRejectionReason != "":
		return "rejected"
	}
	return "pending"
}

func (h *ProviderOnboardingHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	u, err := h.Profiles.Me(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, "", fiber.Map{
		"status":           onboardingStatus(u),
		"rejection_reason": u.VerificationRejectionReason,
		"has_document":     u.VerificationDocument != "",
		"user":             u,
	})
}

func (h *ProviderOnboardingHandler) UploadPhoto(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	file, _ := c.FormFile("photo")
	if err := storage.CheckFile(file, "photo", storage.ImageExts); err != nil {
		return err
	}
	url, err := h.Uploader.Upload(c.UserContext(), file, "providers/"+p.ID.String())
	if err != nil {
		return err
	}
	u, err := h.Profiles.UpdateProfile(c.UserContext(), p, identity.ProfileInput{ProfileImage: &url})
	if err != nil {
		return err
	}
	return ok(c, "Photo uploaded", u)
}

type updateAboutReq struct {
	Bio         *string `json:"bio"`
	Experience  *string `json:"experience"`
	ServiceArea *string `json:"service_area"`
}

func (h *ProviderOnboardingHandler) UpdateAbout(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateAboutReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	u, err := h.Profiles.UpdateProfile(c.UserContext(), p, identity.ProfileInput{
		Bio:         req.Bio,
		Experience:  req.Experience,
		ServiceArea: req.ServiceArea,
	})
	if err != nil {
		return err
	}
	return ok(c, "Profile updated", u)
}

// UploadDocument accepts multipart field "document" plus optional "document_type".
func (h *ProviderOnboardingHandler) UploadDocument(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	file, _ := c.FormFile("document")
	if err := storage.CheckFile(file, "document", storage.DocumentExts); err != nil {
		return err
	}
	url, err := h.Uploader.Upload(c.UserContext(), file, "verification/"+p.ID.String())
	if err != nil {
		return err
	}
	u, err := h.Profiles.AttachVerificationDocument(c.UserContext(), p, c.FormValue("document_type"), url)
	if err != nil {
		return err
	}
	return ok(c, "Document uploaded, waiting for admin review", u)
}

func (h *ProviderOnboardingHandler) GetPublicProfile(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.Profiles.PublicProvider(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "", fiber.Map{
		"id":            u.ID,
		"name":          u.Name,
		"profile_image": u.ProfileImage,
		"bio":           u.Bio,
		"experience":    u.Experience,
		"service_area":  u.ServiceArea,
		"location":      u.Location,
	})
}
