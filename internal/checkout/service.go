package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"dishpatch-be/internal/cart"
	"dishpatch-be/internal/event"
	"dishpatch-be/internal/logger"
	"dishpatch-be/internal/metrics"
	"dishpatch-be/internal/money"
	"dishpatch-be/internal/order"
	"dishpatch-be/internal/payment"
	"dishpatch-be/internal/resilience"
	"dishpatch-be/internal/restaurant"

	"go.uber.org/zap"
)

// PlaceOrderInput is one checkout attempt over an immutable cart
// snapshot. Attempt distinguishes deliberate re-charges from retries of
// the same attempt, which share an idempotency key.
type PlaceOrderInput struct {
	CustomerID      string
	Cart            cart.Snapshot
	PaymentMethodID string
	Tip             money.Cents
	PromoDiscount   money.Cents
	Attempt         int
}

type Service interface {
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID, reason string) error
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	// ListOrders scans by status; the zero value scans the in-flight
	// statuses.
	ListOrders(ctx context.Context, status order.Status) ([]*order.Order, error)
	AdvanceStatus(ctx context.Context, orderID string, next order.Status) error
}

type service struct {
	orders      order.Repository
	payments    payment.Repository
	gateway     payment.Gateway
	restaurants restaurant.InfoClient
	menu        restaurant.MenuClient
	publisher   event.Publisher

	pricing PricingConfig
	retry   resilience.RetryConfig

	// One breaker per downstream dependency: a failing catalog must
	// not open the path to the payment provider.
	restaurantBreaker *resilience.Breaker
	paymentBreaker    *resilience.Breaker

	refundTimeout time.Duration
}

func NewService(
	orders order.Repository,
	payments payment.Repository,
	gateway payment.Gateway,
	restaurants restaurant.InfoClient,
	menu restaurant.MenuClient,
	publisher event.Publisher,
	pricing PricingConfig,
) Service {
	return &service{
		orders:            orders,
		payments:          payments,
		gateway:           gateway,
		restaurants:       restaurants,
		menu:              menu,
		publisher:         publisher,
		pricing:           pricing,
		retry:             resilience.DefaultRetryConfig(),
		restaurantBreaker: resilience.NewBreaker(resilience.DefaultBreakerConfig()),
		paymentBreaker:    resilience.NewBreaker(resilience.DefaultBreakerConfig()),
		refundTimeout:     30 * time.Second,
	}
}

func (s *service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*order.Order, error) {
	timer := metrics.StartTimer()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "checkout"),
		zap.String("method", "PlaceOrder"),
		zap.String("customer_id", in.CustomerID),
		zap.String("restaurant_id", in.Cart.RestaurantID),
		zap.Int("item_count", len(in.Cart.Items)),
	)

	// 1. Validate the snapshot before any side effect.
	if err := in.Cart.Validate(in.CustomerID); err != nil {
		log.Warn("cart rejected", zap.Error(err))
		return nil, err
	}

	// 2. Restaurant context. The display name is non-critical and may
	// degrade to a placeholder when the catalog is down.
	info, _ := resilience.DoWithFallback(ctx, s.restaurantBreaker, s.retry,
		resilience.Degrade(&restaurant.Info{ID: in.Cart.RestaurantID, Name: restaurant.PlaceholderName}),
		func(ctx context.Context) (*restaurant.Info, error) {
			return s.restaurants.Get(ctx, in.Cart.RestaurantID)
		})
	if info.Name == restaurant.PlaceholderName {
		log.Warn("restaurant name degraded to placeholder")
	}

	// 3. Price every line from the authoritative menu. These lookups
	// feed totalAmount, so there is no degraded value for them.
	items := make([]order.Item, 0, len(in.Cart.Items))
	var subtotal money.Cents

	for _, line := range in.Cart.Items {
		menuItem, err := resilience.Do(ctx, s.restaurantBreaker, s.retry,
			func(ctx context.Context) (*restaurant.MenuItem, error) {
				return s.menu.GetItem(ctx, in.Cart.RestaurantID, line.MenuItemID)
			})
		if err != nil {
			log.Error("menu item lookup failed",
				zap.String("menu_item_id", line.MenuItemID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: menu item %s: %v", ErrRestaurantUnavailable, line.MenuItemID, err)
		}

		items = append(items, order.Item{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   line.Quantity,
			UnitPrice:  menuItem.Price,
		})
		subtotal += menuItem.Price.Mul(line.Quantity)
	}

	// 4. Compute the total.
	quote := s.pricing.Quote(subtotal, in.Tip, in.PromoDiscount)
	if quote.Total <= 0 {
		log.Warn("rejected non-positive total", zap.String("total", quote.Total.String()))
		return nil, ErrInvalidPricing
	}

	log.Info("order priced",
		zap.String("subtotal", quote.Subtotal.String()),
		zap.String("tax", quote.Tax.String()),
		zap.String("delivery_fee", quote.DeliveryFee.String()),
		zap.String("tip", quote.Tip.String()),
		zap.String("discount", quote.Discount.String()),
		zap.String("total", quote.Total.String()),
	)

	// 5. Charge. The key is stable across retries of this attempt, so
	// the provider applies at most one capture.
	idemKey := idempotencyKey(in.CustomerID, in.Cart.Hash(), in.Attempt)

	result, err := resilience.Do(ctx, s.paymentBreaker, s.retry,
		func(ctx context.Context) (*payment.Result, error) {
			return s.gateway.Charge(ctx, in.CustomerID, in.PaymentMethodID, quote.Total, idemKey)
		})
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			log.Warn("payment declined")
			return nil, ErrPaymentDeclined
		}
		log.Error("payment unavailable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	// 6. Persist the confirmed order. Capture happened, so from here
	// failures must not lose the charge silently.
	o := order.New(in.CustomerID, in.Cart.RestaurantID, info.Name, items, quote.Total, in.PaymentMethodID)
	o.PaymentStatus = order.PaymentCaptured
	if err := o.Transition(order.StatusConfirmed); err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, o); err != nil {
		log.Error("order persistence failed after capture; manual remediation required",
			zap.String("order_id", o.ID),
			zap.String("provider_payment_id", result.ProviderPaymentID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.payments.SavePayment(ctx, &payment.Payment{
		OrderID:           o.ID,
		ProviderPaymentID: result.ProviderPaymentID,
		IdempotencyKey:    idemKey,
		Amount:            quote.Total,
		Status:            result.Status,
	}); err != nil {
		// The order is the source of truth; a missing payment row is
		// an operational gap, not a checkout failure.
		log.Warn("payment record save failed", zap.String("order_id", o.ID), zap.Error(err))
	}

	// 7. Fire-and-forget publication; delivery failures are absorbed
	// by the publisher and its reconciliation sweep.
	if err := s.publisher.Publish(ctx, event.NewOrderPlaced(o)); err != nil {
		log.Warn("order placed event enqueue failed", zap.String("order_id", o.ID), zap.Error(err))
	}

	log.Info("order confirmed",
		zap.String("order_id", o.ID),
		zap.String("total", o.TotalAmount.String()),
		zap.Duration("took", timer.Duration()),
	)
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, orderID, reason string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "checkout"),
		zap.String("method", "CancelOrder"),
		zap.String("order_id", orderID),
		zap.String("reason", reason),
	)

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.Status.Cancellable() {
		log.Warn("cancel rejected", zap.String("status", string(o.Status)))
		return order.ErrNotCancellable
	}

	expected := o.Status
	wasPaid := o.PaymentStatus == order.PaymentCaptured

	if err := o.Transition(order.StatusCancelled); err != nil {
		return err
	}

	if err := s.orders.UpdateStatus(ctx, o, expected); err != nil {
		return err
	}

	// The refund is requested only after the transition commits, and it
	// is best-effort: the order stays cancelled even if the provider is
	// down, and the payment row stays REFUND_PENDING until reconciled.
	if wasPaid {
		s.requestRefund(o.ID)
	}

	if err := s.publisher.Publish(ctx, event.NewOrderCancelled(o)); err != nil {
		log.Warn("order cancelled event enqueue failed", zap.Error(err))
	}

	log.Info("order cancelled")
	return nil
}

// requestRefund runs the refund off the request path so a slow
// provider never blocks the cancellation.
func (s *service) requestRefund(orderID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.refundTimeout)
		defer cancel()

		log := logger.L().With(
			zap.String("layer", "checkout"),
			zap.String("method", "requestRefund"),
			zap.String("order_id", orderID),
		)

		p, err := s.payments.GetByOrder(ctx, orderID)
		if err != nil || p == nil {
			log.Warn("no payment record for refund", zap.Error(err))
			return
		}

		result, err := resilience.Do(ctx, s.paymentBreaker, s.retry,
			func(ctx context.Context) (*payment.Result, error) {
				return s.gateway.Refund(ctx, p.ProviderPaymentID, 0)
			})
		if err != nil {
			log.Warn("refund request failed; payment stays refund-pending", zap.Error(err))
			return
		}

		if err := s.payments.UpdateStatus(ctx, p.ProviderPaymentID, result.Status); err != nil {
			log.Warn("refund status update failed", zap.Error(err))
			return
		}
		log.Info("refund accepted", zap.String("provider_payment_id", p.ProviderPaymentID))
	}()
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// activeStatuses are the operational in-flight statuses.
var activeStatuses = []order.Status{
	order.StatusConfirmed,
	order.StatusPreparing,
	order.StatusReadyForPickup,
	order.StatusOutForDelivery,
}

func (s *service) ListOrders(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if status == "" {
		return s.orders.ListByStatus(ctx, activeStatuses)
	}
	return s.orders.ListByStatus(ctx, []order.Status{status})
}

// AdvanceStatus moves an order along its fulfilment path on behalf of
// downstream services. The state machine and the status CAS still
// apply; a stale caller gets ErrConflict and must re-read.
func (s *service) AdvanceStatus(ctx context.Context, orderID string, next order.Status) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	expected := o.Status
	if err := o.Transition(next); err != nil {
		return err
	}

	return s.orders.UpdateStatus(ctx, o, expected)
}

// idempotencyKey derives a stable token for one charge attempt from the
// customer, the cart contents, and the attempt counter.
func idempotencyKey(customerID, cartHash string, attempt int) string {
	if attempt < 1 {
		attempt = 1
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", customerID, cartHash, attempt)))
	return hex.EncodeToString(sum[:])
}
