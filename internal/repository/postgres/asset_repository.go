package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ops-portal/internal/models"
)

// AssetRepo is a PostgreSQL implementation of the repository.AssetRepository interface
type AssetRepo struct {
	db *sql.DB
}

// NewAssetRepository creates a new AssetRepo
func NewAssetRepository(db *sql.DB) *AssetRepo {
	return &AssetRepo{db: db}
}

const assetColumns = `id, name, category, serial_number, status, assigned_to,
	purchase_date, purchase_price, notes, created_at, updated_at`

// Create creates a new asset in the database
func (r *AssetRepo) Create(ctx context.Context, asset *models.Asset) (int, error) {
	query := `INSERT INTO assets (name, category, serial_number, status, assigned_to,
	         purchase_date, purchase_price, notes)
	         VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		asset.Name,
		asset.Category,
		asset.SerialNumber,
		asset.Status,
		asset.AssignedTo,
		asset.PurchaseDate,
		asset.PurchasePrice,
		asset.Notes,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create asset: %w", err)
	}

	return id, nil
}

// GetByID gets an asset by ID
func (r *AssetRepo) GetByID(ctx context.Context, id int) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return asset, nil
}

// GetAll gets assets, optionally filtered by status
func (r *AssetRepo) GetAll(ctx context.Context, status models.AssetStatus) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets
	         WHERE ($1 = '' OR status = $1)
	         ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// Update updates an asset
func (r *AssetRepo) Update(ctx context.Context, asset *models.Asset) error {
	query := `UPDATE assets
	         SET name = $1, category = $2, serial_number = $3, status = $4,
	             purchase_date = $5, purchase_price = $6, notes = $7, updated_at = NOW()
	         WHERE id = $8`

	result, err := r.db.ExecContext(
		ctx,
		query,
		asset.Name,
		asset.Category,
		asset.SerialNumber,
		asset.Status,
		asset.PurchaseDate,
		asset.PurchasePrice,
		asset.Notes,
		asset.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	return requireRowsAffected(result, "asset")
}

// Assign assigns an asset to a staff member, or returns it to storage when
// staffID is nil
func (r *AssetRepo) Assign(ctx context.Context, id int, staffID *int) error {
	status := models.AssetStatusInUse
	if staffID == nil {
		status = models.AssetStatusInStorage
	}

	query := `UPDATE assets SET assigned_to = $1, status = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, staffID, status, id)
	if err != nil {
		return fmt.Errorf("failed to assign asset: %w", err)
	}

	return requireRowsAffected(result, "asset")
}

// Delete deletes an asset
func (r *AssetRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return requireRowsAffected(result, "asset")
}

// CountByStatus counts assets per status
func (r *AssetRepo) CountByStatus(ctx context.Context) (map[models.AssetStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AssetStatus]int)
	for rows.Next() {
		var status models.AssetStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan asset count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return counts, nil
}

// GetCreatedBetween gets assets registered in the half-open interval [start, end)
func (r *AssetRepo) GetCreatedBetween(ctx context.Context, start, end time.Time) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets
	         WHERE created_at >= $1 AND created_at < $2
	         ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get assets: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

func scanAsset(row scanner) (*models.Asset, error) {
	asset := &models.Asset{}
	var assignedTo sql.NullInt64
	var purchaseDate sql.NullTime
	var purchasePrice decimal.NullDecimal

	err := row.Scan(
		&asset.ID,
		&asset.Name,
		&asset.Category,
		&asset.SerialNumber,
		&asset.Status,
		&assignedTo,
		&purchaseDate,
		&purchasePrice,
		&asset.Notes,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		id := int(assignedTo.Int64)
		asset.AssignedTo = &id
	}
	if purchaseDate.Valid {
		d := purchaseDate.Time
		asset.PurchaseDate = &d
	}
	if purchasePrice.Valid {
		p := purchasePrice.Decimal
		asset.PurchasePrice = &p
	}

	return asset, nil
}

func scanAssets(rows *sql.Rows) ([]*models.Asset, error) {
	var assets []*models.Asset

	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return assets, nil
}
