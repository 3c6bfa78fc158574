package handler

import (
	"net/http"
	"strconv"

	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.StockService }

func NewProductsHandler(svc service.StockService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receive credits stock into a product (goods receipt).
func (h *ProductsHandler) Receive(c *gin.Context) {
	var req dto.StockChangeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Credit(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Issue debits stock from a product (manual issue, spoilage, etc.).
func (h *ProductsHandler) Issue(c *gin.Context) {
	var req dto.StockChangeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Debit(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductsHandler) Movements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	resp, err := h.svc.Movements(c.Request.Context(), c.Param("code"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
