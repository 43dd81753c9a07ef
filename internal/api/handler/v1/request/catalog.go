package request

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mecalink/admin-gateway/internal/domain"
)

type PageRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (req *PageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Page, validation.Min(0)),
		validation.Field(&req.Limit, validation.Min(0), validation.Max(100)),
	)
}

// AdvertisementRequest is bound from a multipart form, or from JSON when an
// advertisement is updated without a new image.
type AdvertisementRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Link        string `form:"link" json:"link"`
	IsActive    bool   `form:"isActive" json:"isActive"`
}

func (req *AdvertisementRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 1000)),
		validation.Field(&req.Link, is.URL),
	)
}

func (req *AdvertisementRequest) Input(image *domain.Upload) domain.AdvertisementInput {
	return domain.AdvertisementInput{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		IsActive:    req.IsActive,
		Image:       image,
	}
}

const MaxImageSize = 5 << 20

var (
	errImageTooLarge = errors.New("l'image ne doit pas dépasser 5 Mo")
	errNotAnImage    = errors.New("le fichier doit être une image")
)

// Image reads the optional "image" part of an advertisement form. A missing
// part is not an error.
func Image(fh *multipart.FileHeader) (*domain.Upload, error) {
	if fh == nil {
		return nil, nil
	}
	if fh.Size > MaxImageSize {
		return nil, errImageTooLarge
	}

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errNotAnImage
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("fh.Open -> %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll -> %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, errImageTooLarge
	}

	return &domain.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
