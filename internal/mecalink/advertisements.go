package mecalink

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mecalink/admin-gateway/internal/domain"
)

func (c *Client) ListAdvertisements(ctx context.Context) ([]domain.Advertisement, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/advertisements",
		protected: true,
	})
	if err != nil {
		return nil, err
	}

	var ads []domain.Advertisement
	if err = unwrapLoose(raw, &ads); err != nil {
		return nil, err
	}
	if err = validateAll(ads, validateAdvertisement); err != nil {
		return nil, err
	}

	return ads, nil
}

func (c *Client) GetAdvertisement(ctx context.Context, id string) (domain.Advertisement, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/advertisements/" + url.PathEscape(id),
		protected: true,
	})
	if err != nil {
		return domain.Advertisement{}, err
	}

	return decodeAdvertisement(raw)
}

// CreateAdvertisement always submits a multipart form; the image part is
// only present when in.Image is set.
func (c *Client) CreateAdvertisement(ctx context.Context, in domain.AdvertisementInput) (domain.Advertisement, error) {
	raw, err := c.do(ctx, advertisementForm(http.MethodPost, "/advertisements", in))
	if err != nil {
		return domain.Advertisement{}, err
	}

	return decodeAdvertisement(raw)
}

// UpdateAdvertisement sends JSON, or a multipart form when a new image is given.
func (c *Client) UpdateAdvertisement(ctx context.Context, id string, in domain.AdvertisementInput) (domain.Advertisement, error) {
	path := "/advertisements/" + url.PathEscape(id)

	cl := call{
		method: http.MethodPut,
		path:   path,
		body: struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Link        string `json:"link,omitempty"`
			IsActive    bool   `json:"isActive"`
		}{in.Title, in.Description, in.Link, in.IsActive},
		protected: true,
	}
	if in.Image != nil {
		cl = advertisementForm(http.MethodPut, path, in)
	}

	raw, err := c.do(ctx, cl)
	if err != nil {
		return domain.Advertisement{}, err
	}

	return decodeAdvertisement(raw)
}

func (c *Client) DeleteAdvertisement(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		method:    http.MethodDelete,
		path:      "/advertisements/" + url.PathEscape(id),
		protected: true,
	})

	return err
}

func advertisementForm(method, path string, in domain.AdvertisementInput) call {
	form := map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"isActive":    strconv.FormatBool(in.IsActive),
	}
	if in.Link != "" {
		form["link"] = in.Link
	}

	cl := call{
		method:    method,
		path:      path,
		form:      form,
		multipart: true,
		protected: true,
	}
	if in.Image != nil {
		cl.files = append(cl.files, formFile{
			field:       "image",
			filename:    in.Image.Filename,
			contentType: in.Image.ContentType,
			data:        in.Image.Data,
		})
	}

	return cl
}

func decodeAdvertisement(raw []byte) (domain.Advertisement, error) {
	var ad domain.Advertisement
	if err := unwrapLoose(raw, &ad); err != nil {
		return domain.Advertisement{}, err
	}
	if err := validateOne(ad, validateAdvertisement); err != nil {
		return domain.Advertisement{}, err
	}

	return ad, nil
}
