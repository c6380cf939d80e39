package handlers

import (
	"github.com/gin-gonic/gin"

	"productdesk/internal/core/apperror"
	"productdesk/internal/domain/catalogs/product"
	"productdesk/internal/infrastructure/http/v1/dto"
)

// ProductHandler exposes product.Service over HTTP.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// List handles GET /products?search=term.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromProducts(products),
		TotalCount: len(products),
	})
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromProduct(p))
}

// Replace handles PUT /products/:id. Both fields are required.
func (h *ProductHandler) Replace(c *gin.Context) {
	var req dto.UpdateProductRequest
	id, ok := h.ParseID(c)
	if !ok || !h.BindJSON(c, &req) {
		return
	}

	if req.Name == nil || req.Price == nil {
		h.Error(c, apperror.NewValidation("name and price are required; use PATCH for partial updates"))
		return
	}

	h.update(c, id, req)
}

// Patch handles PATCH /products/:id.
func (h *ProductHandler) Patch(c *gin.Context) {
	var req dto.UpdateProductRequest
	id, ok := h.ParseID(c)
	if !ok || !h.BindJSON(c, &req) {
		return
	}

	h.update(c, id, req)
}

func (h *ProductHandler) update(c *gin.Context, id int64, req dto.UpdateProductRequest) {
	p, err := h.service.Update(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// History handles GET /products/:id/history?limit=n.
func (h *ProductHandler) History(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	limit, ok := h.ParsePositiveIntQuery(c, "limit", product.DefaultHistoryLimit)
	if !ok {
		return
	}

	entries, err := h.service.History(c.Request.Context(), id, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromAuditEntries(entries),
		TotalCount: len(entries),
	})
}
