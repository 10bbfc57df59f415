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

const installerNotFoundMsg = "installer not found"

// Repository provides database operations for installers.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new installers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Installer struct {
	ID              uuid.UUID
	BusinessName    string
	Email           *string
	Phone           string
	Website         *string
	City            string
	State           string
	ZipCode         string
	LicenseNumber   *string
	UtilityProvider *string
	Services        *string
	Verified        bool
	Active          bool
	Featured        bool
	Rating          *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DirectoryParams filters the public directory listing.
type DirectoryParams struct {
	State string
	City  string
}

const installerColumns = `
	id, business_name, email, phone, website, city, state, zip_code,
	license_number, utility_provider, services, verified, active, featured,
	rating, created_at, updated_at`

func scanInstaller(row pgx.Row) (Installer, error) {
	var i Installer
	err := row.Scan(
		&i.ID,
		&i.BusinessName,
		&i.Email,
		&i.Phone,
		&i.Website,
		&i.City,
		&i.State,
		&i.ZipCode,
		&i.LicenseNumber,
		&i.UtilityProvider,
		&i.Services,
		&i.Verified,
		&i.Active,
		&i.Featured,
		&i.Rating,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (r *Repository) collect(ctx context.Context, query string, args ...any) ([]Installer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installers []Installer
	for rows.Next() {
		installer, err := scanInstaller(rows)
		if err != nil {
			return nil, err
		}
		installers = append(installers, installer)
	}

	return installers, rows.Err()
}

func (r *Repository) Create(ctx context.Context, installer Installer) (Installer, error) {
	query := `
		INSERT INTO installers (
			id, business_name, email, phone, website, city, state, zip_code,
			license_number, utility_provider, services, verified, active,
			featured, rating, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`

	_, err := r.pool.Exec(ctx, query,
		installer.ID,
		installer.BusinessName,
		installer.Email,
		installer.Phone,
		installer.Website,
		installer.City,
		installer.State,
		installer.ZipCode,
		installer.LicenseNumber,
		installer.UtilityProvider,
		installer.Services,
		installer.Verified,
		installer.Active,
		installer.Featured,
		installer.Rating,
		installer.CreatedAt,
		installer.UpdatedAt,
	)
	if err != nil {
		return Installer{}, fmt.Errorf("create installer: %w", err)
	}

	return installer, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Installer, error) {
	query := `SELECT` + installerColumns + ` FROM installers WHERE id = $1`

	installer, err := scanInstaller(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Installer{}, apperr.NotFound(installerNotFoundMsg)
		}
		return Installer{}, fmt.Errorf("get installer: %w", err)
	}

	return installer, nil
}

// FindEligible returns active, verified installers serving the given city and
// state. State is matched exactly (normalized to upper case); city is matched
// case-insensitively on the whole value.
func (r *Repository) FindEligible(ctx context.Context, city, state string) ([]Installer, error) {
	query := `
		SELECT` + installerColumns + `
		FROM installers
		WHERE active = TRUE
		  AND verified = TRUE
		  AND state = UPPER($1)
		  AND city ILIKE $2
		ORDER BY featured DESC, rating DESC NULLS LAST, business_name ASC
	`

	installers, err := r.collect(ctx, query, state, city)
	if err != nil {
		return nil, fmt.Errorf("find eligible installers: %w", err)
	}

	return installers, nil
}

// ListDirectory returns active installers for the public directory pages,
// featured entries first.
func (r *Repository) ListDirectory(ctx context.Context, params DirectoryParams) ([]Installer, error) {
	query := `
		SELECT` + installerColumns + `
		FROM installers
		WHERE active = TRUE
		  AND ($1 = '' OR state = UPPER($1))
		  AND ($2 = '' OR city ILIKE $2)
		ORDER BY featured DESC, rating DESC NULLS LAST, business_name ASC
	`

	installers, err := r.collect(ctx, query, params.State, params.City)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}

	return installers, nil
}

// ListOutreachCandidates returns active installers that have an email address
// and are not yet featured. The promoter job picks its outreach target from
// this set.
func (r *Repository) ListOutreachCandidates(ctx context.Context) ([]Installer, error) {
	query := `
		SELECT` + installerColumns + `
		FROM installers
		WHERE active = TRUE
		  AND featured = FALSE
		  AND email IS NOT NULL
		ORDER BY rating DESC NULLS LAST, created_at ASC
	`

	installers, err := r.collect(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list outreach candidates: %w", err)
	}

	return installers, nil
}

// SetFeatured flips the featured flag for an installer.
func (r *Repository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	query := `UPDATE installers SET featured = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, featured)
	if err != nil {
		return fmt.Errorf("set featured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(installerNotFoundMsg)
	}

	return nil
}
