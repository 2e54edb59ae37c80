package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bistro/internal/auth"
	apperrors "bistro/internal/errors"
	"bistro/internal/mail"
	"bistro/internal/model"
	"bistro/internal/repository"
)

// OrderService handles order placement and status updates. Identity flows in
// as an explicit argument and the access policy is consulted before acting;
// the status-change email is an explicit synchronous call at the transition
// point, not a save hook.
type OrderService interface {
	Create(ctx context.Context, actor *model.User, itemIDs []uint, requestedCustomerID *uint) (*model.Order, error)
	List(ctx context.Context, actor *model.User) ([]model.Order, error)
	Get(ctx context.Context, actor *model.User, id uint) (*model.Order, error)
	UpdateStatus(ctx context.Context, actor *model.User, id uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
	foods  repository.FoodRepository
	mailer mail.Mailer
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, foods repository.FoodRepository, mailer mail.Mailer) OrderService {
	return &orderService{orders: orders, foods: foods, mailer: mailer}
}

// Create places an order for the caller. The customer field is always the
// caller's own id; the item set must be non-empty and every referenced item
// must exist. Duplicate ids collapse to one reference.
func (s *orderService) Create(ctx context.Context, actor *model.User, itemIDs []uint, requestedCustomerID *uint) (*model.Order, error) {
	if err := auth.Authorize(actor, auth.OpOrderCreate); err != nil {
		return nil, err
	}
	if err := auth.CheckOrderOwnership(actor, requestedCustomerID); err != nil {
		return nil, err
	}

	ids := dedupe(itemIDs)
	if len(ids) == 0 {
		return nil, apperrors.Validation("items", "order must contain at least one item")
	}

	items, err := s.foods.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load food items: %w", err)
	}
	if len(items) != len(ids) {
		return nil, apperrors.Validation("items", missingItemsMessage(ids, items))
	}

	order := &model.Order{
		CustomerID: actor.ID,
		Items:      items,
		Status:     model.OrderStatusPending,
	}
	order.RecomputeTotal()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// List returns the orders visible to the caller: all of them for admins,
// only the caller's own otherwise.
func (s *orderService) List(ctx context.Context, actor *model.User) ([]model.Order, error) {
	if err := auth.Authorize(actor, auth.OpOrderList); err != nil {
		return nil, err
	}

	scope := auth.ScopeOrders(actor)
	if scope.AllOrders {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByCustomer(ctx, scope.CustomerID)
}

// Get retrieves one order. Orders outside the caller's scope read as absent,
// not forbidden: their existence is not disclosed.
func (s *orderService) Get(ctx context.Context, actor *model.User, id uint) (*model.Order, error) {
	if err := auth.Authorize(actor, auth.OpOrderRead); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	scope := auth.ScopeOrders(actor)
	if !scope.AllOrders && order.CustomerID != scope.CustomerID {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus changes an order's status. Admin only; status is the only
// mutable field. The derived total is recomputed on every save regardless of
// what changed, so it always reflects current item prices. On the transition
// into "completed" the customer is mailed exactly once, synchronously; a
// failed send fails the request.
func (s *orderService) UpdateStatus(ctx context.Context, actor *model.User, id uint, status model.OrderStatus) (*model.Order, error) {
	if err := auth.Authorize(actor, auth.OpOrderUpdate); err != nil {
		return nil, err
	}
	if !model.ValidOrderStatus(status) {
		return nil, apperrors.Validation("status", fmt.Sprintf("%q is not a valid status", status))
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	previous := order.Status
	order.Status = status
	order.RecomputeTotal()

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	if previous != model.OrderStatusCompleted && status == model.OrderStatusCompleted {
		if err := s.sendCompletionEmail(ctx, order); err != nil {
			return nil, fmt.Errorf("send completion notification: %w", err)
		}
	}
	return order, nil
}

func (s *orderService) sendCompletionEmail(ctx context.Context, order *model.Order) error {
	subject := "Your Order is Completed!"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour order #%d has been marked as completed. Thank you for ordering with us!\n\nBest regards,\nThe Bistro Team",
		order.Customer.Username, order.ID,
	)
	return s.mailer.Send(ctx, order.Customer.Email, subject, body)
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingItemsMessage(requested []uint, found []model.FoodItem) string {
	exists := make(map[uint]struct{}, len(found))
	for _, item := range found {
		exists[item.ID] = struct{}{}
	}
	var missing []uint
	for _, id := range requested {
		if _, ok := exists[id]; !ok {
			missing = append(missing, id)
		}
	}
	return fmt.Sprintf("unknown food item id(s): %v", missing)
}
