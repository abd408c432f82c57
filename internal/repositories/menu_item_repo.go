package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canteenhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.MenuItem, error)
	ListAvailable(ctx context.Context, day, clock string) ([]*models.MenuItem, error)
	Restock(ctx context.Context, id uuid.UUID, qty int) error
	DecrementStock(ctx context.Context, q Querier, id uuid.UUID, qty int) (bool, error)
	AdvancedSearch(ctx context.Context, filter *models.MenuItemSearchFilter) ([]*models.MenuItem, error)
}

type menuItemRepo struct {
	db Database
}

func NewMenuItemRepo(db Database) MenuItemRepository {
	return &menuItemRepo{db: db}
}

func (r *menuItemRepo) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, description, price, quantity, start_time, end_time, photo_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.Name, item.Description, item.Price, item.Quantity, item.StartTime, item.EndTime, item.PhotoKey)
	if err != nil {
		return err
	}
	return r.replaceDays(ctx, item.ID, item.Days)
}

func (r *menuItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `
		SELECT id, name, description, price, quantity, start_time, end_time, photo_key, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Quantity, &item.StartTime, &item.EndTime, &item.PhotoKey, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if item.Days, err = r.daysFor(ctx, id); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *menuItemRepo) Update(ctx context.Context, item *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, quantity = $4, start_time = $5, end_time = $6, photo_key = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, item.Name, item.Description, item.Price, item.Quantity, item.StartTime, item.EndTime, item.PhotoKey, item.ID)
	if err != nil {
		return err
	}
	return r.replaceDays(ctx, item.ID, item.Days)
}

func (r *menuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM menu_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *menuItemRepo) List(ctx context.Context, limit, offset int) ([]*models.MenuItem, error) {
	query := `
		SELECT id, name, description, price, quantity, start_time, end_time, photo_key, created_at, updated_at
		FROM menu_items
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(ctx, rows)
}

// ListAvailable returns items offered on the given weekday whose serving
// window contains the given HH:MM clock value.
func (r *menuItemRepo) ListAvailable(ctx context.Context, day, clock string) ([]*models.MenuItem, error) {
	query := `
		SELECT DISTINCT m.id, m.name, m.description, m.price, m.quantity, m.start_time, m.end_time, m.photo_key, m.created_at, m.updated_at
		FROM menu_items m
		JOIN menu_item_days d ON d.menu_item_id = m.id
		WHERE d.weekday = $1 AND m.start_time <= $2 AND m.end_time >= $2
		ORDER BY m.name
	`
	rows, err := r.db.Query(ctx, query, day, clock)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(ctx, rows)
}

// Restock adds quantity back to an item. Admin operation, outside any order
// transaction.
func (r *menuItemRepo) Restock(ctx context.Context, id uuid.UUID, qty int) error {
	query := `
		UPDATE menu_items
		SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, qty, id)
	return err
}

// DecrementStock runs inside the order commit transaction. The quantity guard
// re-validates stock under the transaction so the column never goes negative;
// the boolean reports whether the decrement applied.
func (r *menuItemRepo) DecrementStock(ctx context.Context, q Querier, id uuid.UUID, qty int) (bool, error) {
	query := `
		UPDATE menu_items
		SET quantity = quantity - $1, updated_at = NOW()
		WHERE id = $2 AND quantity >= $1
	`
	tag, err := q.Exec(ctx, query, qty, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AdvancedSearch performs filtered search on menu items
func (r *menuItemRepo) AdvancedSearch(ctx context.Context, filter *models.MenuItemSearchFilter) ([]*models.MenuItem, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `
		SELECT m.id, m.name, m.description, m.price, m.quantity, m.start_time, m.end_time, m.photo_key, m.created_at, m.updated_at
		FROM menu_items m
		WHERE 1 = 1
	`
	args := []any{}
	conditionCount := 0

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (m.name ILIKE $%d OR m.description ILIKE $%d)`, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}

	if filter.Day != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM menu_item_days d
			WHERE d.menu_item_id = m.id AND d.weekday = $%d
		)`, conditionCount)
		args = append(args, filter.Day)
	}

	if filter.StockThreshold != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.quantity <= $%d`, conditionCount)
		args = append(args, *filter.StockThreshold)
	}

	if filter.MinPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.price >= $%d`, conditionCount)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND m.price <= $%d`, conditionCount)
		args = append(args, *filter.MaxPrice)
	}

	validSortFields := map[string]bool{"name": true, "price": true, "quantity": true, "updated_at": true}
	sortField := "m.name"
	if validSortFields[filter.SortBy] {
		sortField = "m." + filter.SortBy
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}
	queryBase += fmt.Sprintf(` ORDER BY %s %s`, sortField, sortOrder)

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(ctx, rows)
}

func (r *menuItemRepo) collect(ctx context.Context, rows pgx.Rows) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Quantity, &item.StartTime, &item.EndTime, &item.PhotoKey, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, item := range items {
		days, err := r.daysFor(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		item.Days = days
	}
	return items, nil
}

func (r *menuItemRepo) daysFor(ctx context.Context, id uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT weekday FROM menu_item_days WHERE menu_item_id = $1 ORDER BY weekday`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *menuItemRepo) replaceDays(ctx context.Context, id uuid.UUID, days []string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM menu_item_days WHERE menu_item_id = $1`, id); err != nil {
		return err
	}
	for _, day := range days {
		query := `
			INSERT INTO menu_item_days (menu_item_id, weekday)
			VALUES ($1, $2)
			ON CONFLICT (menu_item_id, weekday) DO NOTHING
		`
		if _, err := r.db.Exec(ctx, query, id, day); err != nil {
			return err
		}
	}
	return nil
}
