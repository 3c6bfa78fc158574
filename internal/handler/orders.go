package handler

import (
	"errors"
	"net/http"

	"github.com/pedroaraujox/Viza-Stock/internal/apierror"
	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/infra"
	"github.com/pedroaraujox/Viza-Stock/internal/model"
	"github.com/pedroaraujox/Viza-Stock/internal/repository"
	"github.com/pedroaraujox/Viza-Stock/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrdersHandler struct {
	svc     service.OrderService
	orders  repository.OrderRepository
	recipes repository.RecipeRepository
	pdfPath string
}

func NewOrdersHandler(
	svc service.OrderService,
	orders repository.OrderRepository,
	recipes repository.RecipeRepository,
	pdfPath string,
) *OrdersHandler {
	return &OrdersHandler{svc: svc, orders: orders, recipes: recipes, pdfPath: pdfPath}
}

func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
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

func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus drives the order through its state machine. Moving an
// approved order to EXECUTED triggers the production run.
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Document renders a printable PDF production sheet for the order.
func (h *OrdersHandler) Document(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}
	order, err := h.orders.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("order not found"))
		return
	}

	var recipe *model.Recipe
	r, err := h.recipes.FindByProductID(c.Request.Context(), order.ProductID)
	switch {
	case err == nil:
		recipe = r
	case errors.Is(err, gorm.ErrRecordNotFound):
		// sheet renders without a material table
	default:
		respondError(c, err)
		return
	}

	path, err := infra.GenerateOrderPDF(order, recipe, h.pdfPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "order_"+order.ID.String()+".pdf")
}
