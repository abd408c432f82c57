package repositories

import (
	"context"
	"errors"

	"canteenhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Employee, error)
	CreditWallet(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	DebitWallet(ctx context.Context, q Querier, id uuid.UUID, amount decimal.Decimal) (bool, error)
	SetQRKey(ctx context.Context, id uuid.UUID, key string) error
}

type employeeRepo struct {
	db Database
}

func NewEmployeeRepo(db Database) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, name, email, department, pin, wallet_amount, qr_key, photo_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, employee.ID, employee.Name, employee.Email, employee.Department, employee.PIN, employee.WalletAmount, employee.QRKey, employee.PhotoKey)
	return err
}

func (r *employeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	employee := &models.Employee{}
	query := `
		SELECT id, name, email, department, pin, wallet_amount, qr_key, photo_key, created_at, updated_at
		FROM employees
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&employee.ID, &employee.Name, &employee.Email, &employee.Department, &employee.PIN, &employee.WalletAmount, &employee.QRKey, &employee.PhotoKey, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return employee, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	employee := &models.Employee{}
	query := `
		SELECT id, name, email, department, pin, wallet_amount, qr_key, photo_key, created_at, updated_at
		FROM employees
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&employee.ID, &employee.Name, &employee.Email, &employee.Department, &employee.PIN, &employee.WalletAmount, &employee.QRKey, &employee.PhotoKey, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return employee, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, email = $2, department = $3, pin = $4, photo_key = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, employee.Name, employee.Email, employee.Department, employee.PIN, employee.PhotoKey, employee.ID)
	return err
}

func (r *employeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM employees WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *employeeRepo) List(ctx context.Context, limit, offset int) ([]*models.Employee, error) {
	query := `
		SELECT id, name, email, department, pin, wallet_amount, qr_key, photo_key, created_at, updated_at
		FROM employees
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		employee := &models.Employee{}
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.Email, &employee.Department, &employee.PIN, &employee.WalletAmount, &employee.QRKey, &employee.PhotoKey, &employee.CreatedAt, &employee.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// CreditWallet adds a top-up amount to the wallet. Used by admin top-ups only.
func (r *employeeRepo) CreditWallet(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	query := `
		UPDATE employees
		SET wallet_amount = wallet_amount + $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, amount, id)
	return err
}

// DebitWallet subtracts the order total inside the commit transaction. The
// balance guard in the WHERE clause keeps the wallet non-negative under
// concurrent commits; the boolean reports whether the debit applied.
func (r *employeeRepo) DebitWallet(ctx context.Context, q Querier, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	query := `
		UPDATE employees
		SET wallet_amount = wallet_amount - $1, updated_at = NOW()
		WHERE id = $2 AND wallet_amount >= $1
	`
	tag, err := q.Exec(ctx, query, amount, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *employeeRepo) SetQRKey(ctx context.Context, id uuid.UUID, key string) error {
	query := `UPDATE employees SET qr_key = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, key, id)
	return err
}
