package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hris_backend/internal/model"
	"hris_backend/internal/repository"
	"hris_backend/internal/utils"

	"github.com/google/uuid"
)

// AbsenceService defines operations on clock-in and clock-out events
type AbsenceService interface {
	CreateAbsence(ctx context.Context, userID string, status model.AbsenceStatus) (*model.Absence, error)
	GetAbsenceByID(ctx context.Context, absenceID, userID string, userRole model.Role) (*model.Absence, error)
	UpdateAbsence(ctx context.Context, absenceID, userID string, userRole model.Role, req model.UpdateAbsenceRequest) (*model.Absence, error)
	DeleteAbsence(ctx context.Context, absenceID, userID string, userRole model.Role) error
	ListAbsences(ctx context.Context, filters model.AbsenceFilters) (*model.Page[model.Absence], error)
	ListUserAbsences(ctx context.Context, targetUserID, userID string, userRole model.Role, filters model.AbsenceFilters) (*model.Page[model.Absence], error)
	TodayAbsences(ctx context.Context, userID string) ([]model.Absence, error)
	LatestAbsences(ctx context.Context, userID string) (lastIn, lastOut *model.Absence, err error)
}

type absenceService struct {
	repo  repository.AbsenceRepository
	clock utils.Clock
	loc   *time.Location
}

// NewAbsenceService creates a new AbsenceService. Work dates are calendar days in loc.
func NewAbsenceService(repo repository.AbsenceRepository, clock utils.Clock, loc *time.Location) AbsenceService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &absenceService{repo: repo, clock: clock, loc: loc}
}

// CreateAbsence records an event at the current time. A second event of the
// same status on the same business day is rejected with ErrAbsenceConflict.
func (s *absenceService) CreateAbsence(ctx context.Context, userID string, status model.AbsenceStatus) (*model.Absence, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := s.clock.Now()
	absence := &model.Absence{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    status,
		WorkDate:  utils.StartOfDay(now, s.loc),
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, absence); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAbsenceConflict
		}
		return nil, fmt.Errorf("failed to create absence in repository: %w", err)
	}
	return absence, nil
}

// findOwned loads an event and checks that a non-admin caller owns it
func (s *absenceService) findOwned(ctx context.Context, absenceID, userID string, userRole model.Role) (*model.Absence, error) {
	absence, err := s.repo.FindByID(ctx, absenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get absence: %w", err)
	}
	if absence == nil {
		return nil, ErrAbsenceNotFound
	}
	if userRole != model.RoleAdmin && absence.UserID != userID {
		return nil, ErrForbidden
	}
	return absence, nil
}

func (s *absenceService) GetAbsenceByID(ctx context.Context, absenceID, userID string, userRole model.Role) (*model.Absence, error) {
	return s.findOwned(ctx, absenceID, userID, userRole)
}

// UpdateAbsence changes the status of an event. Its work date is kept.
func (s *absenceService) UpdateAbsence(ctx context.Context, absenceID, userID string, userRole model.Role, req model.UpdateAbsenceRequest) (*model.Absence, error) {
	absence, err := s.findOwned(ctx, absenceID, userID, userRole)
	if err != nil {
		return nil, err
	}
	if req.Status == nil || *req.Status == absence.Status {
		return absence, nil
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	absence.Status = *req.Status
	if err := s.repo.Update(ctx, absence); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAbsenceConflict
		}
		return nil, fmt.Errorf("failed to update absence: %w", err)
	}
	return absence, nil
}

func (s *absenceService) DeleteAbsence(ctx context.Context, absenceID, userID string, userRole model.Role) error {
	if _, err := s.findOwned(ctx, absenceID, userID, userRole); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, absenceID); err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}
	return nil
}

// ListAbsences returns a page of events across all users
func (s *absenceService) ListAbsences(ctx context.Context, filters model.AbsenceFilters) (*model.Page[model.Absence], error) {
	absences, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	return &model.Page[model.Absence]{Data: absences, Meta: model.NewPageMeta(filters.Page, total)}, nil
}

// ListUserAbsences returns a page of one user's events. Employees may only list their own.
func (s *absenceService) ListUserAbsences(ctx context.Context, targetUserID, userID string, userRole model.Role, filters model.AbsenceFilters) (*model.Page[model.Absence], error) {
	if userRole != model.RoleAdmin && targetUserID != userID {
		return nil, ErrForbidden
	}
	filters.UserID = &targetUserID
	return s.ListAbsences(ctx, filters)
}

// TodayAbsences returns the caller's events for the current business day
func (s *absenceService) TodayAbsences(ctx context.Context, userID string) ([]model.Absence, error) {
	today := utils.StartOfDay(s.clock.Now(), s.loc)
	absences, err := s.repo.ListByUserAndDay(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's absences: %w", err)
	}
	return absences, nil
}

// LatestAbsences returns the most recent IN and OUT events, each possibly nil
func (s *absenceService) LatestAbsences(ctx context.Context, userID string) (*model.Absence, *model.Absence, error) {
	lastIn, err := s.repo.FindLatestByUserAndStatus(ctx, userID, model.AbsenceStatusIn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get last clock-in: %w", err)
	}
	lastOut, err := s.repo.FindLatestByUserAndStatus(ctx, userID, model.AbsenceStatusOut)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get last clock-out: %w", err)
	}
	return lastIn, lastOut, nil
}
