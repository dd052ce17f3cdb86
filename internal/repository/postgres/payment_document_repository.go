package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ops-portal/internal/models"
)

// PaymentDocumentRepo is a PostgreSQL implementation of the repository.PaymentDocumentRepository interface
type PaymentDocumentRepo struct {
	db *sql.DB
}

// NewPaymentDocumentRepository creates a new PaymentDocumentRepo
func NewPaymentDocumentRepository(db *sql.DB) *PaymentDocumentRepo {
	return &PaymentDocumentRepo{db: db}
}

// Create creates a new payment document in the database
func (r *PaymentDocumentRepo) Create(ctx context.Context, doc *models.PaymentDocument) (int, error) {
	query := `INSERT INTO payment_documents (payment_id, document_type, applicable_date, file_path, archived)
	         VALUES ($1, $2, $3, $4, $5) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		doc.PaymentID,
		doc.DocumentType,
		doc.ApplicableDate,
		doc.FilePath,
		doc.Archived,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create payment document: %w", err)
	}

	return id, nil
}

// GetByID gets a payment document by ID
func (r *PaymentDocumentRepo) GetByID(ctx context.Context, id int) (*models.PaymentDocument, error) {
	query := `SELECT id, payment_id, document_type, applicable_date, file_path, archived, uploaded_at
	         FROM payment_documents WHERE id = $1`

	doc, err := scanPaymentDocument(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment document not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get payment document: %w", err)
	}

	return doc, nil
}

// GetByPaymentID gets all documents for a payment, oldest first. Archived
// documents are skipped unless includeArchived is set.
func (r *PaymentDocumentRepo) GetByPaymentID(ctx context.Context, paymentID int, includeArchived bool) ([]*models.PaymentDocument, error) {
	query := `SELECT id, payment_id, document_type, applicable_date, file_path, archived, uploaded_at
	         FROM payment_documents
	         WHERE payment_id = $1 AND (archived = FALSE OR $2)
	         ORDER BY uploaded_at`

	rows, err := r.db.QueryContext(ctx, query, paymentID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.PaymentDocument
	for rows.Next() {
		doc, err := scanPaymentDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return docs, nil
}

// Archive flags a document as replaced without removing the row
func (r *PaymentDocumentRepo) Archive(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE payment_documents SET archived = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to archive payment document: %w", err)
	}

	return requireRowsAffected(result, "payment document")
}

func scanPaymentDocument(row scanner) (*models.PaymentDocument, error) {
	doc := &models.PaymentDocument{}
	var applicable sql.NullTime

	err := row.Scan(
		&doc.ID,
		&doc.PaymentID,
		&doc.DocumentType,
		&applicable,
		&doc.FilePath,
		&doc.Archived,
		&doc.UploadedAt,
	)
	if err != nil {
		return nil, err
	}

	if applicable.Valid {
		d := applicable.Time
		doc.ApplicableDate = &d
	}

	return doc, nil
}
