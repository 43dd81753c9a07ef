package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/mecalink/admin-gateway/internal/api/handler/v1/request"
	"github.com/mecalink/admin-gateway/internal/api/handler/v1/response"
	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/resource"
	"github.com/mecalink/admin-gateway/internal/service"
)

type CatalogService interface {
	Clients(ctx context.Context, caller service.Caller, q service.PageQuery) (resource.State[domain.User], error)
	Client(ctx context.Context, caller service.Caller, id string) (domain.User, error)
	DeleteClient(ctx context.Context, caller service.Caller, id string) error

	Garages(ctx context.Context, caller service.Caller, q service.PageQuery) (resource.State[domain.Garage], error)
	Garage(ctx context.Context, caller service.Caller, id string) (domain.Garage, error)
	DeleteGarage(ctx context.Context, caller service.Caller, id string) error

	Checklists(ctx context.Context, caller service.Caller, q service.PageQuery) (resource.State[domain.Checklist], error)
	Checklist(ctx context.Context, caller service.Caller, id string) (domain.ChecklistView, error)

	ServiceRequests(ctx context.Context, caller service.Caller, q service.PageQuery) (resource.State[domain.ServiceRequest], error)
	ServiceRequest(ctx context.Context, caller service.Caller, id string) (domain.ServiceRequest, error)

	Advertisements(ctx context.Context, caller service.Caller, q service.PageQuery) (resource.State[domain.Advertisement], error)
	Advertisement(ctx context.Context, caller service.Caller, id string) (domain.Advertisement, error)
	CreateAdvertisement(ctx context.Context, caller service.Caller, in domain.AdvertisementInput) (domain.Advertisement, error)
	UpdateAdvertisement(ctx context.Context, caller service.Caller, id string, in domain.AdvertisementInput) (domain.Advertisement, error)
	DeleteAdvertisement(ctx context.Context, caller service.Caller, id string) error
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{
		svc: svc,
	}
}

func renderList[T resource.Entity](ctx *gin.Context, op string, open func(context.Context, service.Caller, service.PageQuery) (resource.State[T], error)) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	var req request.PageRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	state, err := open(ctx.Request.Context(), caller, service.PageQuery{Page: req.Page, Limit: req.Limit})
	if err != nil {
		renderServiceErr(ctx, op, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

func renderOne[T any](ctx *gin.Context, op string, get func(ctx context.Context, caller service.Caller, id string) (T, error)) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	v, err := get(ctx.Request.Context(), caller, ctx.Param("id"))
	if err != nil {
		renderServiceErr(ctx, op, err)
		return
	}

	ctx.JSON(http.StatusOK, v)
}

func renderDelete(ctx *gin.Context, op string, del func(ctx context.Context, caller service.Caller, id string) error) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	if err := del(ctx.Request.Context(), caller, ctx.Param("id")); err != nil {
		renderServiceErr(ctx, op, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListClients godoc
// @Summary      List clients
// @Description  Without page the clients screen is opened again on page 1. page and limit then page the open list.
// @Tags         clients
// @Produce      json
// @Param        page   query  int  false  "page, from 1"
// @Param        limit  query  int  false  "page size, up to 100"
// @Success      200      {object}   resource.State[domain.User]
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /clients [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleListClients(ctx *gin.Context) {
	renderList(ctx, "v1.HandleListClients -> h.svc.Clients", h.svc.Clients)
}

// HandleGetClient godoc
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "client id"
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /clients/{id} [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleGetClient(ctx *gin.Context) {
	renderOne(ctx, "v1.HandleGetClient -> h.svc.Client", h.svc.Client)
}

// HandleDeleteClient godoc
// @Summary      Delete a client
// @Tags         clients
// @Param        id   path      string  true  "client id"
// @Success      204
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /clients/{id} [delete]
// @Security     BearerAuth
func (h *CatalogHandler) HandleDeleteClient(ctx *gin.Context) {
	renderDelete(ctx, "v1.HandleDeleteClient -> h.svc.DeleteClient", h.svc.DeleteClient)
}

// HandleListGarages godoc
// @Summary      List garages
// @Tags         garages
// @Produce      json
// @Param        page   query  int  false  "page, from 1"
// @Param        limit  query  int  false  "page size, up to 100"
// @Success      200      {object}   resource.State[domain.Garage]
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /garages [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleListGarages(ctx *gin.Context) {
	renderList(ctx, "v1.HandleListGarages -> h.svc.Garages", h.svc.Garages)
}

// HandleGetGarage godoc
// @Summary      Get a garage
// @Tags         garages
// @Produce      json
// @Param        id   path      string  true  "garage id"
// @Success      200      {object}   domain.Garage
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /garages/{id} [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleGetGarage(ctx *gin.Context) {
	renderOne(ctx, "v1.HandleGetGarage -> h.svc.Garage", h.svc.Garage)
}

// HandleDeleteGarage godoc
// @Summary      Delete a garage
// @Tags         garages
// @Param        id   path      string  true  "garage id"
// @Success      204
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /garages/{id} [delete]
// @Security     BearerAuth
func (h *CatalogHandler) HandleDeleteGarage(ctx *gin.Context) {
	renderDelete(ctx, "v1.HandleDeleteGarage -> h.svc.DeleteGarage", h.svc.DeleteGarage)
}

// HandleListChecklists godoc
// @Summary      List checklists
// @Description  Paged by MecaLink.
// @Tags         checklists
// @Produce      json
// @Param        page   query  int  false  "page, from 1"
// @Param        limit  query  int  false  "page size, up to 100"
// @Success      200      {object}   resource.State[domain.Checklist]
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /checklists [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleListChecklists(ctx *gin.Context) {
	renderList(ctx, "v1.HandleListChecklists -> h.svc.Checklists", h.svc.Checklists)
}

// HandleGetChecklist godoc
// @Summary      Get a checklist
// @Description  Check names and values are translated for display.
// @Tags         checklists
// @Produce      json
// @Param        id   path      string  true  "checklist id"
// @Success      200      {object}   domain.ChecklistView
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /checklists/{id} [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleGetChecklist(ctx *gin.Context) {
	renderOne(ctx, "v1.HandleGetChecklist -> h.svc.Checklist", h.svc.Checklist)
}

// HandleListServiceRequests godoc
// @Summary      List service requests
// @Tags         service-requests
// @Produce      json
// @Param        page   query  int  false  "page, from 1"
// @Param        limit  query  int  false  "page size, up to 100"
// @Success      200      {object}   resource.State[domain.ServiceRequest]
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /service-requests [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleListServiceRequests(ctx *gin.Context) {
	renderList(ctx, "v1.HandleListServiceRequests -> h.svc.ServiceRequests", h.svc.ServiceRequests)
}

// HandleGetServiceRequest godoc
// @Summary      Get a service request
// @Tags         service-requests
// @Produce      json
// @Param        id   path      string  true  "service request id"
// @Success      200      {object}   domain.ServiceRequest
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /service-requests/{id} [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleGetServiceRequest(ctx *gin.Context) {
	renderOne(ctx, "v1.HandleGetServiceRequest -> h.svc.ServiceRequest", h.svc.ServiceRequest)
}

// HandleListAdvertisements godoc
// @Summary      List advertisements
// @Tags         advertisements
// @Produce      json
// @Param        page   query  int  false  "page, from 1"
// @Param        limit  query  int  false  "page size, up to 100"
// @Success      200      {object}   resource.State[domain.Advertisement]
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /advertisements [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleListAdvertisements(ctx *gin.Context) {
	renderList(ctx, "v1.HandleListAdvertisements -> h.svc.Advertisements", h.svc.Advertisements)
}

// HandleGetAdvertisement godoc
// @Summary      Get an advertisement
// @Tags         advertisements
// @Produce      json
// @Param        id   path      string  true  "advertisement id"
// @Success      200      {object}   domain.Advertisement
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /advertisements/{id} [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleGetAdvertisement(ctx *gin.Context) {
	renderOne(ctx, "v1.HandleGetAdvertisement -> h.svc.Advertisement", h.svc.Advertisement)
}

// HandleCreateAdvertisement godoc
// @Summary      Create an advertisement
// @Tags         advertisements
// @Accept       multipart/form-data
// @Produce      json
// @Param        title        formData  string  true   "title"
// @Param        description  formData  string  true   "description"
// @Param        link         formData  string  false  "link"
// @Param        isActive     formData  bool    false  "active"
// @Param        image        formData  file    false  "image, up to 5 MB"
// @Success      201      {object}   domain.Advertisement
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /advertisements [post]
// @Security     BearerAuth
func (h *CatalogHandler) HandleCreateAdvertisement(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	in, ok := bindAdvertisement(ctx)
	if !ok {
		return
	}

	ad, err := h.svc.CreateAdvertisement(ctx.Request.Context(), caller, in)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateAdvertisement -> h.svc.CreateAdvertisement", err)
		return
	}

	ctx.JSON(http.StatusCreated, ad)
}

// HandleUpdateAdvertisement godoc
// @Summary      Update an advertisement
// @Description  Accepts JSON, or a multipart form to replace the image.
// @Tags         advertisements
// @Accept       json,multipart/form-data
// @Produce      json
// @Param        id       path      string                        true  "advertisement id"
// @Param        request  body      request.AdvertisementRequest  true  "request body"
// @Success      200      {object}   domain.Advertisement
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /advertisements/{id} [put]
// @Security     BearerAuth
func (h *CatalogHandler) HandleUpdateAdvertisement(ctx *gin.Context) {
	caller, ok := callerOf(ctx)
	if !ok {
		return
	}

	in, ok := bindAdvertisement(ctx)
	if !ok {
		return
	}

	ad, err := h.svc.UpdateAdvertisement(ctx.Request.Context(), caller, ctx.Param("id"), in)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateAdvertisement -> h.svc.UpdateAdvertisement", err)
		return
	}

	ctx.JSON(http.StatusOK, ad)
}

// HandleDeleteAdvertisement godoc
// @Summary      Delete an advertisement
// @Tags         advertisements
// @Param        id   path      string  true  "advertisement id"
// @Success      204
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      502      {object}   response.Err
// @Router       /advertisements/{id} [delete]
// @Security     BearerAuth
func (h *CatalogHandler) HandleDeleteAdvertisement(ctx *gin.Context) {
	renderDelete(ctx, "v1.HandleDeleteAdvertisement -> h.svc.DeleteAdvertisement", h.svc.DeleteAdvertisement)
}

func bindAdvertisement(ctx *gin.Context) (domain.AdvertisementInput, bool) {
	var req request.AdvertisementRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.AdvertisementInput{}, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.AdvertisementInput{}, false
	}

	var image *domain.Upload
	if ctx.ContentType() == binding.MIMEMultipartPOSTForm {
		fh, err := ctx.FormFile("image")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return domain.AdvertisementInput{}, false
		}

		if image, err = request.Image(fh); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return domain.AdvertisementInput{}, false
		}
	}

	return req.Input(image), true
}
