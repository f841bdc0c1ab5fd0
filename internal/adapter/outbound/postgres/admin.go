package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"gorm.io/gorm"
)

// Tables cleared by a reset, children first.
var (
	transactionalTables = []string{"payment_webhook_events", "payments", "reviews", "order_items", "orders", "cart_items", "refresh_tokens"}
	catalogTables       = []string{"products", "categories"}
)

// storeAdminAdapter implements outbound.StoreAdminPort.
type storeAdminAdapter struct {
	db *gorm.DB
}

// NewStoreAdminAdapter creates a new store administration adapter.
func NewStoreAdminAdapter(db *gorm.DB) outbound.StoreAdminPort {
	return &storeAdminAdapter{db: db}
}

func (a *storeAdminAdapter) Stats(ctx context.Context) (*model.DashboardStats, error) {
	db := conn(ctx, a.db)
	stats := &model.DashboardStats{OrdersByStatus: make(map[model.OrderStatus]int64)}

	counts := []struct {
		model any
		dest  *int64
	}{
		{&model.User{}, &stats.Users},
		{&model.Product{}, &stats.Products},
		{&model.Category{}, &stats.Categories},
		{&model.Order{}, &stats.Orders},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var byStatus []struct {
		Status model.OrderStatus
		Count  int64
	}
	err := db.Model(&model.Order{}).
		Select("order_status AS status, COUNT(*) AS count").
		Group("order_status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.OrdersByStatus[row.Status] = row.Count
	}

	err = db.Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_status = ? AND order_status <> ?", model.OrderPaymentPaid, model.OrderStatusCancelled).
		Scan(&stats.Revenue).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *storeAdminAdapter) Reset(ctx context.Context, includeCatalog bool) ([]string, error) {
	tables, statements := resetPlan(includeCatalog)
	err := conn(ctx, a.db).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// resetPlan returns the tables a reset clears and the statements that do it.
// A kept catalog gets back the stock held by unshipped orders and loses the
// ratings of the wiped reviews.
func resetPlan(includeCatalog bool) ([]string, []string) {
	tables := append([]string{}, transactionalTables...)
	var statements []string
	if includeCatalog {
		tables = append(tables, catalogTables...)
	} else {
		statements = append(statements,
			fmt.Sprintf(`UPDATE products AS p SET stock = p.stock + held.qty
FROM (
	SELECT oi.product_id, SUM(oi.quantity) AS qty
	FROM order_items oi JOIN orders o ON o.id = oi.order_id
	WHERE o.order_status IN ('%s', '%s')
	GROUP BY oi.product_id
) AS held
WHERE p.id = held.product_id`, model.OrderStatusPending, model.OrderStatusProcessing),
			"UPDATE products SET rating_avg = 0, review_count = 0",
		)
	}
	statements = append(statements,
		fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	return tables, statements
}

var _ outbound.StoreAdminPort = (*storeAdminAdapter)(nil)
