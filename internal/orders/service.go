package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/dropshoplabs/dropshop-backend/pkg/db"
	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	"github.com/dropshoplabs/dropshop-backend/pkg/enums"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
	"github.com/dropshoplabs/dropshop-backend/pkg/metrics"
	"github.com/dropshoplabs/dropshop-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order lifecycle operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	Track(ctx context.Context, orderNumber string) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// nextStatusInCycle drives the one-click status button in the admin order
// table. Processing is a valid state but sits outside the cycle; an order
// moved there manually rejoins at shipped.
var nextStatusInCycle = map[enums.OrderStatus]enums.OrderStatus{
	enums.OrderStatusPending:    enums.OrderStatusShipped,
	enums.OrderStatusProcessing: enums.OrderStatusShipped,
	enums.OrderStatusShipped:    enums.OrderStatusDelivered,
	enums.OrderStatusDelivered:  enums.OrderStatusCancelled,
	enums.OrderStatusCancelled:  enums.OrderStatusPending,
}

// allowedTransitions is the full transition table. Reopening a cancelled
// order (back to pending) is deliberate: it restores the order's total to
// derived revenue without any compensating arithmetic.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusProcessing, enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusDelivered:  {enums.OrderStatusCancelled},
	enums.OrderStatusCancelled:  {enums.OrderStatusPending},
}

type service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	metrics *metrics.OrderMetrics
}

// NewService builds the order lifecycle service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		logg:    logg,
		metrics: orderMetrics,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	if !input.ShippingMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	items := make([]models.OrderItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		productID := line.ProductID
		items = append(items, models.OrderItem{
			ProductID: &productID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			ImageURL:  line.ImageURL,
		})
	}

	var created *models.Order
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		orderNumber, err := newOrderNumber()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}

		order := &models.Order{
			UserID:          input.UserID,
			UserEmail:       input.UserEmail,
			OrderNumber:     orderNumber,
			Status:          enums.OrderStatusPending,
			ShippingAddress: input.ShippingAddress,
			ShippingMethod:  input.ShippingMethod,
			PaymentMethod:   input.PaymentMethod,
			Subtotal:        input.Subtotal,
			Shipping:        input.Shipping,
			Tax:             input.Tax,
			Total:           input.Total,
			Items:           items,
		}

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			_, err := s.repo.WithTx(tx).Create(ctx, order)
			return err
		})
		if err == nil {
			created = order
			break
		}
		if db.IsUniqueViolation(err) {
			s.logg.Warn(s.logg.WithField(ctx, "order_number", orderNumber), "order number collision, regenerating")
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	if created == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique order number")
	}

	s.metrics.IncCreated()
	s.logg.Info(s.logg.WithOrderID(ctx, created.ID.String()), "order created")
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		// Hide the order's existence from other shoppers.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// Track looks an order up by its public number for the storefront's
// track-order page. No identity is required; the random number is the
// lookup capability.
func (s *service) Track(ctx context.Context, orderNumber string) (*models.Order, error) {
	number := strings.ToUpper(strings.TrimSpace(orderNumber))
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	order, err := s.repo.FindByOrderNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Status == status {
			updated = order
			return nil
		}
		if !canTransition(order.Status, status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
		}

		if err := repo.UpdateStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		if status == enums.OrderStatusCancelled {
			s.metrics.ObserveCancellation(order.Total)
		}

		order.Status = status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishRevenue(ctx)
	s.logg.Info(s.logg.WithOrderID(ctx, updated.ID.String()), "order status updated")
	return updated, nil
}

// AdvanceStatus moves the order to the next status in the admin cycle.
func (s *service) AdvanceStatus(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := nextStatusInCycle[order.Status]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status has no successor")
	}
	return s.SetStatus(ctx, id, next)
}

func (s *service) Revenue(ctx context.Context) (decimal.Decimal, error) {
	revenue, err := s.repo.Revenue(ctx)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute revenue")
	}
	return revenue, nil
}

// DashboardStats gathers the admin dashboard aggregates. The reads are
// independent so they run concurrently.
func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.repo.Count(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
		}
		stats.TotalOrders = count
		return nil
	})
	g.Go(func() error {
		revenue, err := s.repo.Revenue(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute revenue")
		}
		stats.Revenue = revenue
		return nil
	})
	g.Go(func() error {
		loss, err := s.repo.CancellationLoss(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute cancellation loss")
		}
		stats.CancellationLoss = loss
		return nil
	})
	g.Go(func() error {
		counts, err := s.repo.CountByStatus(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
		}
		stats.StatusCounts = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.metrics.SetRevenue(stats.Revenue)
	return stats, nil
}

func (s *service) publishRevenue(ctx context.Context) {
	revenue, err := s.repo.Revenue(ctx)
	if err != nil {
		s.logg.Warn(ctx, "refreshing revenue gauge failed")
		return
	}
	s.metrics.SetRevenue(revenue)
}

func canTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
