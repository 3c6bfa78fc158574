package service

import (
	"context"
	"time"

	"github.com/pedroaraujox/Viza-Stock/internal/domain"
	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/model"
	"github.com/pedroaraujox/Viza-Stock/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// orderTransitions is the closed transition table for production orders.
// Anything not listed here is rejected; the terminal states allow nothing.
var orderTransitions = map[string][]string{
	model.OrderPending:   {model.OrderApproved, model.OrderRejected, model.OrderCancelled},
	model.OrderApproved:  {model.OrderExecuted, model.OrderRejected, model.OrderCancelled},
	model.OrderExecuted:  {},
	model.OrderRejected:  {},
	model.OrderCancelled: {},
}

func knownStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

func transitionAllowed(from, to string) bool {
	for _, t := range orderTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// OrderService is the bookkeeping layer around production runs. The order
// record holds no inventory logic itself — the transition into EXECUTED
// invokes the production service, and a failed execution leaves the order
// (and all stock) untouched.
type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target string) (*dto.OrderResponse, error)
}

type orderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	recipes    repository.RecipeRepository
	production ProductionService
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	recipes repository.RecipeRepository,
	production ProductionService,
) OrderService {
	return &orderService{
		orders:     orders,
		products:   products,
		recipes:    recipes,
		production: production,
	}
}

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if req.Quantity.Sign() <= 0 {
		return nil, domain.Invalidf("order quantity must be positive, got %s", req.Quantity)
	}
	code, err := canonicalCode(req.ProductCode)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, code)
	if err != nil {
		return nil, notFoundOr(err, "product %q", code)
	}
	if !product.IsFinishedGood() {
		return nil, domain.Invalidf("product %q is not a finished good", code)
	}

	order := &model.ProductionOrder{
		ID:        uuid.New(),
		ProductID: product.ID,
		Quantity:  req.Quantity,
		Status:    model.OrderPending,
		Product:   product,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order %s", id)
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// UpdateStatus drives the one-way status machine. The transition is claimed
// with a conditional update before anything else runs, so two racing calls
// resolve to one winner and one Conflict. Claiming EXECUTED then runs the
// production executor; if the run fails (insufficient stock, missing recipe)
// the claim is released, the order keeps its status, and the error surfaces.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, target string) (*dto.OrderResponse, error) {
	if !knownStatus(target) {
		return nil, domain.Invalidf("unknown order status %q", target)
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order %s", id)
	}
	if !transitionAllowed(order.Status, target) {
		return nil, domain.Conflictf("order %s cannot transition from %s to %s", id, order.Status, target)
	}

	var executedAt *time.Time
	if target == model.OrderExecuted {
		now := time.Now().UTC()
		executedAt = &now
	}

	claimed, err := s.orders.UpdateStatusFrom(ctx, id, order.Status, target, executedAt)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, domain.Conflictf("order %s left status %s concurrently", id, order.Status)
	}

	if target == model.OrderExecuted {
		if _, err := s.production.ExecuteOrder(ctx, order.ID, order.ProductID, order.Quantity); err != nil {
			if _, revertErr := s.orders.UpdateStatusFrom(ctx, id, target, order.Status, nil); revertErr != nil {
				log.Error().Err(revertErr).Str("order_id", id.String()).
					Msg("order: failed to release execution claim")
			}
			return nil, err
		}
	}

	order.Status = target
	order.ExecutedAt = executedAt
	return orderToResponse(order), nil
}

func orderToResponse(o *model.ProductionOrder) *dto.OrderResponse {
	name := ""
	if o.Product != nil {
		name = o.Product.Name
	}
	var executedAt *string
	if o.ExecutedAt != nil {
		s := o.ExecutedAt.UTC().Format(time.RFC3339)
		executedAt = &s
	}
	return &dto.OrderResponse{
		ID:          o.ID.String(),
		ProductCode: o.ProductID,
		ProductName: name,
		Quantity:    o.Quantity,
		Status:      o.Status,
		ExecutedAt:  executedAt,
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
