package repository

import (
	"testing"

	"github.com/stationeryhub/internal/constants"
	"github.com/stationeryhub/internal/models"
)

func TestOrderRepositoryCreateListAndUpdateStatus(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)

	for i, status := range []string{constants.OrderStatusPending, constants.OrderStatusShipped, constants.OrderStatusPending} {
		order := &models.Order{
			OrderNo:      "SH" + string(rune('A'+i)),
			UserID:       uint(1 + i%2),
			Status:       status,
			TotalAmount:  models.MustMoney("12"),
			DeliveryArea: "Homs",
			Address:      "Main st",
			Phone:        "0999",
			Name:         "Sam",
		}
		items := []models.OrderItem{{ProductID: 1, ProductName: "Pen", UnitPrice: models.MustMoney("1"), Quantity: 2, TotalPrice: models.MustMoney("2")}}
		if err := repo.Create(order, items); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		if order.Items[0].OrderID != order.ID {
			t.Fatalf("order item not linked")
		}
	}

	orders, total, err := repo.ListAdmin(OrderListFilter{Status: constants.OrderStatusPending, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("unexpected pending orders: %d/%d", total, len(orders))
	}
	if len(orders[0].Items) != 1 {
		t.Fatalf("items not preloaded")
	}

	mine, total, err := repo.ListByUser(OrderListFilter{UserID: 2})
	if err != nil || total != 1 || len(mine) != 1 {
		t.Fatalf("list by user failed: total=%d err=%v", total, err)
	}

	affected, err := repo.UpdateStatus(orders[0].ID, constants.OrderStatusProcessing)
	if err != nil || affected != 1 {
		t.Fatalf("update status failed: affected=%d err=%v", affected, err)
	}
	got, err := repo.GetByID(orders[0].ID)
	if err != nil || got.Status != constants.OrderStatusProcessing {
		t.Fatalf("status not updated: %v %v", got, err)
	}

	other, err := repo.GetByIDAndUser(orders[0].ID, 99)
	if err != nil || other != nil {
		t.Fatalf("expected nil for foreign user, got %v %v", other, err)
	}
}
