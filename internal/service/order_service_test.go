package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/constants"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/queue"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCheckout() CheckoutInput {
	return CheckoutInput{
		DeliveryArea: "Tartous",
		Address:      "123 Main St",
		Phone:        "+963 000 000",
		Name:         "Alice Johnson",
		ClientIP:     "10.0.0.1",
	}
}

func loginSession(t *testing.T, f *serviceFixture, sid string) {
	t.Helper()
	_, err := f.sessions.SetUser(context.Background(), sid, &store.User{ID: "1", Username: "alice"})
	require.NoError(t, err)
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	notebook := f.seedProduct(t, "Premium Notebook", "24.99", "Notebooks", intPtr(5))

	loginSession(t, f, "buyer")
	_, err := f.sessions.Add(ctx, "buyer", productKey(notebook))
	require.NoError(t, err)
	_, err = f.sessions.Add(ctx, "buyer", productKey(notebook))
	require.NoError(t, err)

	order, err := f.orders.Checkout(ctx, "buyer", validCheckout())
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusPending, order.Status)
	assert.Equal(t, "49.98", order.SubtotalAmount.String())
	assert.Equal(t, "5.00", order.DeliveryFee.String())
	assert.Equal(t, "54.98", order.TotalAmount.String())
	assert.Equal(t, uint(1), order.UserID)
	assert.Equal(t, "alice", order.Username)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	view, err := f.sessions.Get(ctx, "buyer")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	require.NotNil(t, view.User)

	reloaded, err := f.productRepo.GetByID(productKey(notebook))
	require.NoError(t, err)
	require.NotNil(t, reloaded.Stock)
	assert.Equal(t, 3, *reloaded.Stock)

	stored, err := f.orders.GetOrderForAdmin(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tartous", stored.DeliveryArea)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Premium Notebook", stored.Items[0].ProductName)
}

type failingSavePersister struct {
	store.Persister
	failSave bool
}

func (p *failingSavePersister) Save(ctx context.Context, key string, snap store.Snapshot) error {
	if p.failSave {
		return errors.New("redis down")
	}
	return p.Persister.Save(ctx, key, snap)
}

func TestCheckoutReturnsOrderWhenCartClearFails(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	notebook := f.seedProduct(t, "Premium Notebook", "24.99", "Notebooks", intPtr(5))

	persister := &failingSavePersister{Persister: f.persister}
	sessions := NewSessionService(persister, f.productRepo)
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	require.NoError(t, err)
	orders := NewOrderService(f.orderRepo, f.productRepo, repository.NewDeliveryAreaRepository(f.db), sessions, queueClient)

	_, err = sessions.SetUser(ctx, "buyer", &store.User{ID: "1", Username: "alice"})
	require.NoError(t, err)
	_, err = sessions.Add(ctx, "buyer", productKey(notebook))
	require.NoError(t, err)

	persister.failSave = true
	order, err := orders.Checkout(ctx, "buyer", validCheckout())
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotZero(t, order.ID)
	assert.Equal(t, "29.99", order.TotalAmount.String())

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	reloaded, err := f.productRepo.GetByID(productKey(notebook))
	require.NoError(t, err)
	assert.Equal(t, 4, *reloaded.Stock)
}

func TestCheckoutRepricesFromCatalog(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	pen := f.seedProduct(t, "Fountain Pen", "40.00", "Pens", nil)

	loginSession(t, f, "buyer")
	_, err := f.sessions.Add(ctx, "buyer", productKey(pen))
	require.NoError(t, err)

	pen.Price = models.MustMoney("42.50")
	require.NoError(t, f.productRepo.Update(&pen))

	input := validCheckout()
	input.DeliveryArea = "homs"
	order, err := f.orders.Checkout(ctx, "buyer", input)
	require.NoError(t, err)
	assert.Equal(t, "42.50", order.SubtotalAmount.String())
	assert.Equal(t, "52.50", order.TotalAmount.String())
}

func TestCheckoutValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	paper := f.seedProduct(t, "Letter Paper", "7.00", "Paper", intPtr(1))

	_, err := f.sessions.Add(ctx, "guest", productKey(paper))
	require.NoError(t, err)
	_, err = f.orders.Checkout(ctx, "guest", validCheckout())
	assert.ErrorIs(t, err, ErrLoginRequired)

	loginSession(t, f, "empty")
	_, err = f.orders.Checkout(ctx, "empty", validCheckout())
	assert.ErrorIs(t, err, ErrCartEmpty)

	missing := validCheckout()
	missing.Phone = " "
	_, err = f.orders.Checkout(ctx, "guest", missing)
	assert.ErrorIs(t, err, ErrShippingInfoRequired)

	badArea := validCheckout()
	badArea.DeliveryArea = "Damascus"
	_, err = f.orders.Checkout(ctx, "guest", badArea)
	assert.ErrorIs(t, err, ErrDeliveryAreaInvalid)

	loginSession(t, f, "guest")
	_, err = f.sessions.UpdateQuantity(ctx, "guest", productKey(paper), 3)
	require.NoError(t, err)
	_, err = f.orders.Checkout(ctx, "guest", validCheckout())
	assert.ErrorIs(t, err, ErrStockInsufficient)

	view, err := f.sessions.Get(ctx, "guest")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3, view.Lines[0].Quantity)

	_, total, err := f.orderRepo.ListAdmin(repository.OrderListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	pen := f.seedProduct(t, "Marker", "3.00", "Art Supplies", nil)
	loginSession(t, f, "buyer")
	_, err := f.sessions.Add(ctx, "buyer", productKey(pen))
	require.NoError(t, err)
	order, err := f.orders.Checkout(ctx, "buyer", validCheckout())
	require.NoError(t, err)

	updated, err := f.orders.UpdateOrderStatus(order.ID, "Shipped")
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusShipped, updated.Status)

	updated, err = f.orders.UpdateOrderStatus(order.ID, constants.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusPending, updated.Status)

	_, err = f.orders.UpdateOrderStatus(order.ID, "completed")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	_, err = f.orders.UpdateOrderStatus(order.ID+100, constants.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	items, total, err := f.orders.ListOrdersForAdmin(repository.OrderListFilter{Status: constants.OrderStatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	mine, err := f.orders.GetOrderByUser(order.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNo, mine.OrderNo)
	_, err = f.orders.GetOrderByUser(order.ID, 2)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAdminSessionCheckoutRecordsZeroUser(t *testing.T) {
	assert.Equal(t, uint(0), sessionUserID(&store.User{ID: "admin-1", IsAdmin: true}))
	assert.Equal(t, uint(12), sessionUserID(&store.User{ID: "12"}))
	assert.Equal(t, uint(0), sessionUserID(nil))
}

func TestDeliveryAreasSeeded(t *testing.T) {
	f := newServiceFixture(t)
	areas, err := f.orders.DeliveryAreas()
	require.NoError(t, err)
	require.Len(t, areas, 3)
	costs := map[string]string{}
	for _, area := range areas {
		costs[area.Name] = area.Cost.String()
	}
	assert.Equal(t, map[string]string{"Tartous": "5.00", "Latakia": "7.00", "Homs": "10.00"}, costs)
}
