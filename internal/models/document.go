package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentType classifies an uploaded payment document
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeReceipt DocumentType = "receipt"
	DocumentTypeOther   DocumentType = "other"
)

// PaymentDocument represents an uploaded invoice or receipt tied to one
// schedule occurrence. ApplicableDate is the join key between a document and a
// projected schedule item. Replaced documents stay around with Archived set.
type PaymentDocument struct {
	ID             int          `json:"id" db:"id"`
	PaymentID      int          `json:"payment_id" db:"payment_id"`
	DocumentType   DocumentType `json:"document_type" db:"document_type"`
	ApplicableDate *time.Time   `json:"applicable_date,omitempty" db:"applicable_date"`
	FilePath       string       `json:"file_path" db:"file_path"`
	Archived       bool         `json:"archived" db:"archived"`
	UploadedAt     time.Time    `json:"uploaded_at" db:"uploaded_at"`
}

// DocumentUpload represents a document upload request
type DocumentUpload struct {
	DocumentType   string `json:"document_type"`
	ApplicableDate string `json:"applicable_date,omitempty"`
	FileName       string `json:"file_name"`
}

// ValidateDocumentUpload validates document upload data
func (d *DocumentUpload) ValidateDocumentUpload() error {
	switch DocumentType(d.DocumentType) {
	case DocumentTypeInvoice, DocumentTypeReceipt, DocumentTypeOther:
	default:
		return errors.New("document type must be invoice, receipt or other")
	}

	if d.ApplicableDate != "" {
		if _, err := time.Parse("2006-01-02", d.ApplicableDate); err != nil {
			return errors.New("applicable date must use the yyyy-mm-dd format")
		}
	}

	return nil
}

// ToDocument converts DocumentUpload to PaymentDocument, minting an opaque
// storage locator. The storage backend itself is out of scope.
func (d *DocumentUpload) ToDocument(paymentID int) *PaymentDocument {
	doc := &PaymentDocument{
		PaymentID:    paymentID,
		DocumentType: DocumentType(d.DocumentType),
		FilePath:     fmt.Sprintf("payment-documents/%d/%s", paymentID, uuid.NewString()),
	}

	if d.ApplicableDate != "" {
		if day, err := time.Parse("2006-01-02", d.ApplicableDate); err == nil {
			doc.ApplicableDate = &day
		}
	}

	return doc
}
