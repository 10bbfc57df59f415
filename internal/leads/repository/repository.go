package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evinstallers_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadNotFoundMsg = "lead not found"

// Lead statuses. Transitions are monotonic: new → matched → contacted/closed.
const (
	StatusNew       = "new"
	StatusMatched   = "matched"
	StatusContacted = "contacted"
	StatusClosed    = "closed"
)

// Repository provides database operations for leads.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                     uuid.UUID
	FullName               string
	Email                  string
	Phone                  *string
	ZipCode                string
	City                   *string
	State                  *string
	ProjectTimeline        string
	PropertyType           string
	ChargerType            string
	ElectricalPanelUpgrade bool
	Source                 string
	Status                 string
	AssignedInstallerIDs   []uuid.UUID
	IPAddress              *string
	UserAgent              *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type ListParams struct {
	Status   string
	Page     int
	PageSize int
}

type ListResult struct {
	Items      []Lead
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const leadColumns = `
	id, full_name, email, phone, zip_code, city, state,
	project_timeline, property_type, charger_type, electrical_panel_upgrade,
	source, status, assigned_installer_ids, ip_address, user_agent,
	created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID,
		&l.FullName,
		&l.Email,
		&l.Phone,
		&l.ZipCode,
		&l.City,
		&l.State,
		&l.ProjectTimeline,
		&l.PropertyType,
		&l.ChargerType,
		&l.ElectricalPanelUpgrade,
		&l.Source,
		&l.Status,
		&l.AssignedInstallerIDs,
		&l.IPAddress,
		&l.UserAgent,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func (r *Repository) Create(ctx context.Context, lead Lead) (Lead, error) {
	query := `
		INSERT INTO leads (
			id, full_name, email, phone, zip_code, city, state,
			project_timeline, property_type, charger_type, electrical_panel_upgrade,
			source, status, assigned_installer_ids, ip_address, user_agent,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18
		)
	`

	_, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.FullName,
		lead.Email,
		lead.Phone,
		lead.ZipCode,
		lead.City,
		lead.State,
		lead.ProjectTimeline,
		lead.PropertyType,
		lead.ChargerType,
		lead.ElectricalPanelUpgrade,
		lead.Source,
		lead.Status,
		lead.AssignedInstallerIDs,
		lead.IPAddress,
		lead.UserAgent,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}

	return lead, nil
}

// UpdateAssignment stores the matched installer ids and moves the lead to
// matched. The status guard keeps the transition monotonic: a lead that has
// already been contacted or closed is left untouched, and re-running the
// assignment with the same ids is harmless.
func (r *Repository) UpdateAssignment(ctx context.Context, id uuid.UUID, installerIDs []uuid.UUID) error {
	query := `
		UPDATE leads
		SET assigned_installer_ids = $2, status = 'matched', updated_at = NOW()
		WHERE id = $1 AND status IN ('new', 'matched')
	`

	_, err := r.pool.Exec(ctx, query, id, installerIDs)
	if err != nil {
		return fmt.Errorf("update lead assignment: %w", err)
	}

	return nil
}

// UpdateStatus moves a lead forward. Used by the admin dashboard.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMsg)
	}

	return nil
}

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM leads WHERE ($1 = '' OR status = $1)`
	if err := r.pool.QueryRow(ctx, countQuery, params.Status).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count leads: %w", err)
	}

	query := `
		SELECT` + leadColumns + `
		FROM leads
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, params.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return ListResult{}, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var items []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return ListResult{}, fmt.Errorf("list leads: %w", err)
		}
		items = append(items, lead)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("list leads: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// CountByStatus returns lead counts per status, used by the analyst job.
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM leads GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("count leads by status: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// CountUnmatchedOlderThan returns leads still in status new that were created
// before the cutoff. The analyst flags these for manual review.
func (r *Repository) CountUnmatchedOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM leads WHERE status = $1 AND created_at < $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, StatusNew, cutoff).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unmatched leads: %w", err)
	}

	return count, nil
}
