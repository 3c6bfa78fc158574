package handler

import (
	"net/http"

	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductionHandler struct{ svc service.ProductionService }

func NewProductionHandler(svc service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// Check answers whether the requested quantity could be produced right now.
// Read-only: never mutates stock.
func (h *ProductionHandler) Check(c *gin.Context) {
	var req dto.ProductionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CheckFeasibility(c.Request.Context(), req.ProductCode, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Execute runs an ad-hoc production: debits every component and credits
// the finished product in one transaction.
func (h *ProductionHandler) Execute(c *gin.Context) {
	var req dto.ProductionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Execute(c.Request.Context(), req.ProductCode, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
