// Package actionlog records agent activity in the append-only agent_logs
// table. Writes are best-effort: a failed insert must never break the
// operation being logged, so errors are swallowed and reported through the
// structured logger instead.
package actionlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"evinstallers_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusWarning = "warning"
	StatusInfo    = "info"
)

// Well-known agent names.
const (
	AgentLeadPipeline = "lead-pipeline"
	AgentAuditor      = "auditor"
	AgentPromoter     = "promoter"
	AgentAnalyst      = "analyst"
	AgentScheduler    = "scheduler"
)

const insertTimeout = 5 * time.Second

// Entry is one agent_logs row.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	AgentName  string          `json:"agentName"`
	ActionType string          `json:"actionType"`
	Status     string          `json:"status"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type inserter interface {
	insert(ctx context.Context, entry Entry) error
}

// Recorder writes agent log entries.
type Recorder struct {
	store inserter
	log   *logger.Logger
}

// New creates a Recorder backed by the given pool.
func New(pool *pgxpool.Pool, log *logger.Logger) *Recorder {
	return &Recorder{store: &pgStore{pool: pool}, log: log}
}

// Log records an agent action. Details may be nil. The insert uses its own
// timeout so a cancelled request context cannot abort the write, and any
// failure is logged rather than returned.
func (r *Recorder) Log(ctx context.Context, agent, actionType, status string, details map[string]any) {
	entry := Entry{
		ID:         uuid.New(),
		AgentName:  agent,
		ActionType: actionType,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}

	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			r.log.Warn("action log details not serializable", "agent", agent, "action", actionType, "error", err)
		} else {
			entry.Details = raw
		}
	}

	insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), insertTimeout)
	defer cancel()

	if err := r.store.insert(insertCtx, entry); err != nil {
		r.log.Warn("action log insert failed", "agent", agent, "action", actionType, "error", err)
		return
	}

	r.log.CronEvent(agent, actionType, status)
}

type pgStore struct {
	pool *pgxpool.Pool
}

func (s *pgStore) insert(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO agent_logs (id, agent_name, action_type, status, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	details := entry.Details
	if details == nil {
		details = json.RawMessage("{}")
	}

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.AgentName,
		entry.ActionType,
		entry.Status,
		details,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert agent log: %w", err)
	}

	return nil
}

// Repository reads agent log entries for the admin dashboard.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an agent log reader.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns the most recent entries, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, agent_name, action_type, status, details, created_at
		FROM agent_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list agent logs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AgentName, &e.ActionType, &e.Status, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("list agent logs: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
