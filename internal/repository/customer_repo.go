// Package repository provides data access over database/sql for the
// messaging domain.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/branch-messaging/backend/internal/model"
)

// CustomerRepository provides data access for customers.
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, name, email, phone, account_status, loan_status, loan_amount, profile_notes, account_created, last_activity`

// Create inserts a new customer and sets its generated ID.
func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	now := time.Now()
	if customer.AccountCreated.IsZero() {
		customer.AccountCreated = now
	}
	if customer.LastActivity.IsZero() {
		customer.LastActivity = now
	}

	query := `
		INSERT INTO customers (name, email, phone, account_status, loan_status, loan_amount, profile_notes, account_created, last_activity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.Email,
		nullString(customer.Phone),
		customer.AccountStatus,
		nullString(customer.LoanStatus),
		customer.LoanAmount,
		nullString(customer.ProfileNotes),
		customer.AccountCreated,
		customer.LastActivity,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	customer.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get customer id: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by its ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, model.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// GetByEmail retrieves a customer by email address.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = ?`
	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, model.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return customer, nil
}

// List retrieves all customers ordered by most recent activity.
func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY last_activity DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	return collectCustomers(rows)
}

// Search retrieves customers whose name, email, or phone matches the query.
func (r *CustomerRepository) Search(ctx context.Context, q string) ([]*model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE name LIKE ? OR email LIKE ? OR phone LIKE ?
		ORDER BY last_activity DESC
		LIMIT 50
	`

	pattern := "%" + q + "%"
	rows, err := r.db.QueryContext(ctx, query, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	return collectCustomers(rows)
}

// TouchActivity updates the customer's last activity timestamp.
func (r *CustomerRepository) TouchActivity(ctx context.Context, id int64) error {
	query := `UPDATE customers SET last_activity = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update customer activity: %w", err)
	}
	return nil
}

// Count returns the number of customers.
func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*model.Customer, error) {
	customer := &model.Customer{}
	var phone, loanStatus, profileNotes sql.NullString
	var loanAmount sql.NullFloat64

	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&phone,
		&customer.AccountStatus,
		&loanStatus,
		&loanAmount,
		&profileNotes,
		&customer.AccountCreated,
		&customer.LastActivity,
	)
	if err != nil {
		return nil, err
	}

	customer.Phone = phone.String
	customer.LoanStatus = loanStatus.String
	customer.ProfileNotes = profileNotes.String
	if loanAmount.Valid {
		amount := loanAmount.Float64
		customer.LoanAmount = &amount
	}
	return customer, nil
}

func collectCustomers(rows *sql.Rows) ([]*model.Customer, error) {
	var customers []*model.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
