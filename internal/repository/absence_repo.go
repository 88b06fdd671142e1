package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hris_backend/internal/model"

	"github.com/jackc/pgx/v5"
)

// AbsenceRepository defines operations for attendance events
type AbsenceRepository interface {
	Create(ctx context.Context, absence *model.Absence) error
	FindByID(ctx context.Context, id string) (*model.Absence, error)
	Update(ctx context.Context, absence *model.Absence) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]model.Absence, error)
	ListByUserAndDay(ctx context.Context, userID string, workDate time.Time) ([]model.Absence, error)
	FindLatestByUserAndStatus(ctx context.Context, userID string, status model.AbsenceStatus) (*model.Absence, error)
	List(ctx context.Context, filters model.AbsenceFilters) ([]model.Absence, int, error)
}

type absenceRepository struct {
	db DBTX
}

// NewAbsenceRepository creates a new AbsenceRepository
func NewAbsenceRepository(db DBTX) AbsenceRepository {
	return &absenceRepository{db: db}
}

const absenceSelect = `SELECT a.id, a.user_id, a.status, a.work_date, a.created_at, a.updated_at,
       COALESCE(u.name, ''), COALESCE(u."position", '')
       FROM absences a LEFT JOIN users u ON u.id = a.user_id`

func scanAbsence(row pgx.Row) (*model.Absence, error) {
	var (
		a      model.Absence
		status string
	)
	err := row.Scan(&a.ID, &a.UserID, &status, &a.WorkDate, &a.CreatedAt, &a.UpdatedAt, &a.UserName, &a.UserPosition)
	if err != nil {
		return nil, err
	}
	a.Status = model.AbsenceStatus(status)
	return &a, nil
}

func collectAbsences(rows pgx.Rows) ([]model.Absence, error) {
	defer rows.Close()
	absences := []model.Absence{}
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence row: %w", err)
		}
		absences = append(absences, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating absence rows: %w", err)
	}
	return absences, nil
}

// Create inserts an event. A second event with the same user, status and work
// date is not written and ErrDuplicate is returned.
func (r *absenceRepository) Create(ctx context.Context, a *model.Absence) error {
	sql := `INSERT INTO absences (id, user_id, status, work_date, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $5)
            ON CONFLICT (user_id, status, work_date) DO NOTHING
            RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, a.ID, a.UserID, string(a.Status), a.WorkDate, a.CreatedAt).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to create absence: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create absence: %w", err)
	}
	return nil
}

// FindByID retrieves an event by its ID
func (r *absenceRepository) FindByID(ctx context.Context, id string) (*model.Absence, error) {
	a, err := scanAbsence(r.db.QueryRow(ctx, absenceSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find absence by ID: %w", err)
	}
	return a, nil
}

// Update changes the status of an event
func (r *absenceRepository) Update(ctx context.Context, a *model.Absence) error {
	sql := `UPDATE absences SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, string(a.Status), a.ID).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("absence not found for update")
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to update absence: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to update absence: %w", err)
	}
	return nil
}

// Delete removes an event
func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("absence not found for deletion")
	}
	return nil
}

// ListByUser returns every event of a user in ascending time order
func (r *absenceRepository) ListByUser(ctx context.Context, userID string) ([]model.Absence, error) {
	rows, err := r.db.Query(ctx, absenceSelect+` WHERE a.user_id = $1 ORDER BY a.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences by user: %w", err)
	}
	return collectAbsences(rows)
}

// ListByUserAndDay returns the events a user recorded on one work date
func (r *absenceRepository) ListByUserAndDay(ctx context.Context, userID string, workDate time.Time) ([]model.Absence, error) {
	rows, err := r.db.Query(ctx, absenceSelect+` WHERE a.user_id = $1 AND a.work_date = $2 ORDER BY a.created_at ASC`, userID, workDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences by day: %w", err)
	}
	return collectAbsences(rows)
}

// FindLatestByUserAndStatus returns the most recent event of a status, or nil
func (r *absenceRepository) FindLatestByUserAndStatus(ctx context.Context, userID string, status model.AbsenceStatus) (*model.Absence, error) {
	sql := absenceSelect + ` WHERE a.user_id = $1 AND a.status = $2 ORDER BY a.created_at DESC LIMIT 1`
	a, err := scanAbsence(r.db.QueryRow(ctx, sql, userID, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest absence: %w", err)
	}
	return a, nil
}

// List returns a page of events, newest first, with optional user and date filters
func (r *absenceRepository) List(ctx context.Context, filters model.AbsenceFilters) ([]model.Absence, int, error) {
	page := filters.Page.Normalize()
	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argCount))
		args = append(args, *filters.UserID)
		argCount++
	}
	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.created_at >= $%d", argCount))
		args = append(args, *filters.StartDate)
		argCount++
	}
	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.created_at <= $%d", argCount))
		args = append(args, *filters.EndDate)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM absences a`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count absences: %w", err)
	}

	sql := fmt.Sprintf("%s%s ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", absenceSelect, whereClause, argCount, argCount+1)
	args = append(args, page.Take, page.Offset())

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query absences: %w", err)
	}
	absences, err := collectAbsences(rows)
	if err != nil {
		return nil, 0, err
	}
	return absences, total, nil
}
