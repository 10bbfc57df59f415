// Package notification delivers lead pipeline emails and records every
// attempt in email_logs. Delivery failures never propagate to the caller;
// they are visible only through the records and the structured log.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Record is one email_logs row: a single delivery attempt.
type Record struct {
	ID             uuid.UUID  `json:"id"`
	RecipientEmail string     `json:"recipientEmail"`
	Template       string     `json:"template"`
	Status         string     `json:"status"`
	Provider       string     `json:"provider"`
	ErrorMessage   *string    `json:"errorMessage,omitempty"`
	LeadID         *uuid.UUID `json:"leadId,omitempty"`
	SentAt         time.Time  `json:"sentAt"`
}

// Repository persists notification records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notification record repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO email_logs (id, recipient_email, template, status, provider, error_message, lead_id, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.RecipientEmail,
		rec.Template,
		rec.Status,
		rec.Provider,
		rec.ErrorMessage,
		rec.LeadID,
		rec.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert email log: %w", err)
	}

	return nil
}

// CountFailedSince returns the number of failed deliveries after the cutoff,
// used by the analyst job.
func (r *Repository) CountFailedSince(ctx context.Context, cutoff time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM email_logs WHERE status = $1 AND sent_at >= $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, StatusFailed, cutoff).Scan(&count); err != nil {
		return 0, fmt.Errorf("count failed emails: %w", err)
	}

	return count, nil
}
