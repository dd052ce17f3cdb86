package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ops-portal/internal/models"
)

// StaffRepo is a PostgreSQL implementation of the repository.StaffRepository interface
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepository creates a new StaffRepo
func NewStaffRepository(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

const staffColumns = `id, full_name, email, title, department, phone, active,
	digest_opt_in, created_at, updated_at`

// Create creates a new staff member in the database
func (r *StaffRepo) Create(ctx context.Context, member *models.StaffMember) (int, error) {
	query := `INSERT INTO staff (full_name, email, title, department, phone, active, digest_opt_in)
	         VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		member.FullName,
		member.Email,
		member.Title,
		member.Department,
		member.Phone,
		member.Active,
		member.DigestOptIn,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create staff member: %w", err)
	}

	return id, nil
}

// GetByID gets a staff member by ID
func (r *StaffRepo) GetByID(ctx context.Context, id int) (*models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	member, err := scanStaffMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff member not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	return member, nil
}

// GetByEmail gets a staff member by email
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (*models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE email = $1`

	member, err := scanStaffMember(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff member not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	return member, nil
}

// GetAll gets staff members, optionally restricted to active ones
func (r *StaffRepo) GetAll(ctx context.Context, activeOnly bool) ([]*models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff
	         WHERE (active = TRUE OR NOT $1)
	         ORDER BY full_name`

	rows, err := r.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	defer rows.Close()

	return scanStaffMembers(rows)
}

// Update updates a staff member
func (r *StaffRepo) Update(ctx context.Context, member *models.StaffMember) error {
	query := `UPDATE staff
	         SET full_name = $1, email = $2, title = $3, department = $4,
	             phone = $5, digest_opt_in = $6, updated_at = NOW()
	         WHERE id = $7`

	result, err := r.db.ExecContext(
		ctx,
		query,
		member.FullName,
		member.Email,
		member.Title,
		member.Department,
		member.Phone,
		member.DigestOptIn,
		member.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	return requireRowsAffected(result, "staff member")
}

// SetActive toggles the active flag; the directory never hard-deletes people
func (r *StaffRepo) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE staff SET active = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	return requireRowsAffected(result, "staff member")
}

// GetDigestRecipients gets active staff members who opted into the weekly digest
func (r *StaffRepo) GetDigestRecipients(ctx context.Context) ([]*models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff
	         WHERE active = TRUE AND digest_opt_in = TRUE
	         ORDER BY full_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get digest recipients: %w", err)
	}
	defer rows.Close()

	return scanStaffMembers(rows)
}

func scanStaffMember(row scanner) (*models.StaffMember, error) {
	member := &models.StaffMember{}

	err := row.Scan(
		&member.ID,
		&member.FullName,
		&member.Email,
		&member.Title,
		&member.Department,
		&member.Phone,
		&member.Active,
		&member.DigestOptIn,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return member, nil
}

func scanStaffMembers(rows *sql.Rows) ([]*models.StaffMember, error) {
	var members []*models.StaffMember

	for rows.Next() {
		member, err := scanStaffMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return members, nil
}
