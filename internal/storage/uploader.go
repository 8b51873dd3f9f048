// Package storage stores uploaded images and documents.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

var (
	ImageExts    = []string{".jpg", ".jpeg", ".png", ".webp"}
	DocumentExts = []string{".jpg", ".jpeg", ".png", ".pdf"}
)

const MaxUploadBytes = 5 << 20

// Uploader stores a file under folder and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error)
}

// CheckFile validates size and extension. field names the form field in errors.
func CheckFile(fh *multipart.FileHeader, field string, allowed []string) error {
	if fh == nil {
		return models.Invalid(field, "file is required")
	}
	if fh.Size > MaxUploadBytes {
		return models.Invalid(field, "file is larger than 5MB")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return models.Invalid(field, "file type must be one of "+strings.Join(allowed, ", "))
}

// LocalUploader writes into Dir, served by the app under /uploads.
type LocalUploader struct {
	Dir     string
	BaseURL string
}

func (u *LocalUploader) Upload(_ context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	dir := filepath.Join(u.Dir, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	publicPath := "/uploads/" + strings.Trim(folder, "/") + "/" + name
	return strings.TrimRight(u.BaseURL, "/") + publicPath, nil
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
	preset string
}

func NewCloudinaryUploader(cloud, key, secret, folder, preset string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloud, key, secret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, folder: folder, preset: preset}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	params := uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       strings.Trim(u.folder+"/"+folder, "/"),
		UploadPreset: u.preset,
	}
	resp, err := u.cld.Upload.Upload(ctx, src, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp == nil || resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: empty url")
	}
	return resp.SecureURL, nil
}
