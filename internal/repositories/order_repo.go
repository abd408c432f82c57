package repositories

import (
	"context"
	"errors"
	"time"

	"canteenhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	NextDailyNumber(ctx context.Context, q Querier, date time.Time) (int, error)
	Create(ctx context.Context, q Querier, order *models.Order) error
	UpdateTotal(ctx context.Context, q Querier, orderID uuid.UUID, total decimal.Decimal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListByDate(ctx context.Context, date time.Time) ([]*models.Order, error)
	DeleteByDate(ctx context.Context, date time.Time) (int64, error)
	DailyReportRows(ctx context.Context, date time.Time) ([]*models.DailyReportRow, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

// NextDailyNumber allocates the next per-day sequence number from a dedicated
// counter row. The upsert increments under the row lock held by the commit
// transaction, so concurrent commits on the same day get distinct,
// contiguous numbers starting at 1.
func (r *orderRepo) NextDailyNumber(ctx context.Context, q Querier, date time.Time) (int, error) {
	query := `
		INSERT INTO daily_counters (order_date, last_number)
		VALUES ($1, 1)
		ON CONFLICT (order_date) DO UPDATE SET last_number = daily_counters.last_number + 1
		RETURNING last_number
	`
	var number int
	err := q.QueryRow(ctx, query, date.Format("2006-01-02")).Scan(&number)
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (r *orderRepo) Create(ctx context.Context, q Querier, order *models.Order) error {
	query := `
		INSERT INTO orders (id, employee_id, total_amount, daily_order_number, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := q.Exec(ctx, query, order.ID, order.EmployeeID, order.TotalAmount, order.DailyOrderNumber)
	return err
}

// UpdateTotal finalizes the order total within the same commit transaction
// that created the zero-total placeholder row.
func (r *orderRepo) UpdateTotal(ctx context.Context, q Querier, orderID uuid.UUID, total decimal.Decimal) error {
	query := `UPDATE orders SET total_amount = $1 WHERE id = $2`
	_, err := q.Exec(ctx, query, total, orderID)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, employee_id, total_amount, daily_order_number, created_at
		FROM orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.EmployeeID, &order.TotalAmount, &order.DailyOrderNumber, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, employee_id, total_amount, daily_order_number, created_at
		FROM orders
		WHERE employee_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepo) ListByDate(ctx context.Context, date time.Time) ([]*models.Order, error) {
	query := `
		SELECT id, employee_id, total_amount, daily_order_number, created_at
		FROM orders
		WHERE created_at::date = $1
		ORDER BY daily_order_number
	`
	rows, err := r.db.Query(ctx, query, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// DeleteByDate purges all orders for a calendar date. Lines go with the order
// via ON DELETE CASCADE. Admin operation.
func (r *orderRepo) DeleteByDate(ctx context.Context, date time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE created_at::date = $1`, date.Format("2006-01-02"))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DailyReportRows aggregates one row per order for the daily report: who
// ordered, a line summary, the total and the time.
func (r *orderRepo) DailyReportRows(ctx context.Context, date time.Time) ([]*models.DailyReportRow, error) {
	query := `
		SELECT e.name,
		       string_agg(m.name || ' × ' || oi.quantity, ', ' ORDER BY m.name),
		       o.total_amount,
		       o.created_at
		FROM orders o
		JOIN employees e ON e.id = o.employee_id
		JOIN order_items oi ON oi.order_id = o.id
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE o.created_at::date = $1
		GROUP BY o.id, e.name, o.total_amount, o.created_at
		ORDER BY o.created_at
	`
	rows, err := r.db.Query(ctx, query, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []*models.DailyReportRow
	for rows.Next() {
		row := &models.DailyReportRow{}
		if err := rows.Scan(&row.EmployeeName, &row.Items, &row.TotalAmount, &row.OrderedAt); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.EmployeeID, &order.TotalAmount, &order.DailyOrderNumber, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
