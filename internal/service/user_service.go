package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode"

	"hris_backend/internal/events"
	"hris_backend/internal/model"
	"hris_backend/internal/repository"
	"hris_backend/internal/storage"
	"hris_backend/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const minPasswordLength = 8

// SeedAccount describes an account created on first start
type SeedAccount struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
	Position string
}

// UserService defines operations on employee accounts
type UserService interface {
	CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, targetID string, actor *model.User) (*model.UserDetail, error)
	GetUserWithLastAbsence(ctx context.Context, userID string) (*model.UserWithLastAbsence, error)
	ListUsers(ctx context.Context, filters model.UserFilters) (*model.Page[model.User], error)
	UpdateUser(ctx context.Context, targetID string, actor *model.User, req model.UpdateUserRequest) (*model.User, error)
	UpdateAvatar(ctx context.Context, targetID string, actor *model.User, file io.Reader) (*model.User, error)
	SeedUsers(ctx context.Context, accounts []SeedAccount) error
}

type userService struct {
	userRepo    repository.UserRepository
	absenceRepo repository.AbsenceRepository
	avatars     storage.AvatarStore
	publisher   events.Publisher
	notifier    *events.Notifier
	eventsTopic string
	clock       utils.Clock
	loc         *time.Location
}

// UserServiceDeps groups the collaborators of the user service
type UserServiceDeps struct {
	UserRepo    repository.UserRepository
	AbsenceRepo repository.AbsenceRepository
	Avatars     storage.AvatarStore
	Publisher   events.Publisher
	Notifier    *events.Notifier
	EventsTopic string
	Clock       utils.Clock
	Location    *time.Location
}

// NewUserService creates a new UserService
func NewUserService(deps UserServiceDeps) UserService {
	if deps.Clock == nil {
		deps.Clock = utils.SystemClock{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NoopPublisher{}
	}
	if deps.Notifier == nil {
		deps.Notifier = events.NewNotifier(deps.Publisher, "notifications")
	}
	if deps.EventsTopic == "" {
		deps.EventsTopic = events.UserUpdatedType
	}
	return &userService{
		userRepo:    deps.UserRepo,
		absenceRepo: deps.AbsenceRepo,
		avatars:     deps.Avatars,
		publisher:   deps.Publisher,
		notifier:    deps.Notifier,
		eventsTopic: deps.EventsTopic,
		clock:       deps.Clock,
		loc:         deps.Location,
	}
}

// CreateUser stores a new account with a bcrypt-hashed password
func (s *userService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Role:         role,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Position:     req.Position,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

func (s *userService) findUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func canAccess(actor *model.User, targetID string) bool {
	return actor.Role == model.RoleAdmin || actor.ID == targetID
}

// GetUser returns a user together with attendance metrics up to today
func (s *userService) GetUser(ctx context.Context, targetID string, actor *model.User) (*model.UserDetail, error) {
	if !canAccess(actor, targetID) {
		return nil, ErrForbidden
	}
	user, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	absences, err := s.absenceRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance history: %w", err)
	}
	metrics := ComputeAttendanceMetrics(user.CreatedAt, BuildFirstInByDay(absences, s.loc), s.clock.Now(), s.loc)

	return &model.UserDetail{User: *user, AttendanceMetrics: metrics}, nil
}

// GetUserWithLastAbsence returns a user with their most recent IN and OUT events
func (s *userService) GetUserWithLastAbsence(ctx context.Context, userID string) (*model.UserWithLastAbsence, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	lastIn, err := s.absenceRepo.FindLatestByUserAndStatus(ctx, userID, model.AbsenceStatusIn)
	if err != nil {
		return nil, fmt.Errorf("failed to get last clock-in: %w", err)
	}
	lastOut, err := s.absenceRepo.FindLatestByUserAndStatus(ctx, userID, model.AbsenceStatusOut)
	if err != nil {
		return nil, fmt.Errorf("failed to get last clock-out: %w", err)
	}
	return &model.UserWithLastAbsence{User: *user, LastIn: lastIn, LastOut: lastOut}, nil
}

func (s *userService) ListUsers(ctx context.Context, filters model.UserFilters) (*model.Page[model.User], error) {
	users, total, err := s.userRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &model.Page[model.User]{Data: users, Meta: model.NewPageMeta(filters.Page, total)}, nil
}

// UpdateUser applies a partial profile update. Only admins may change roles.
func (s *userService) UpdateUser(ctx context.Context, targetID string, actor *model.User, req model.UpdateUserRequest) (*model.User, error) {
	if !canAccess(actor, targetID) {
		return nil, ErrForbidden
	}
	user, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil && *req.Phone != "" {
		user.Phone = *req.Phone
	}
	if req.Password != nil {
		if req.ConfirmPassword == nil || *req.ConfirmPassword != *req.Password {
			return nil, ErrPasswordConfirmation
		}
		if !isStrongPassword(*req.Password) {
			return nil, ErrWeakPassword
		}
		hashedPassword, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashedPassword
	}
	if req.Role != nil && *req.Role != "" && *req.Role != user.Role {
		if actor.Role != model.RoleAdmin {
			return nil, ErrForbidden
		}
		user.Role = *req.Role
	}
	if req.Email != nil && *req.Email != "" {
		user.Email = *req.Email
	}
	if req.Position != nil && *req.Position != "" {
		user.Position = *req.Position
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.emitUserUpdated(ctx, user)
	s.notifyAdmins(ctx, fmt.Sprintf("Profile of %s updated", actor.Name), "Profile information was updated successfully.")
	return user, nil
}

// UpdateAvatar stores a new avatar image for the user
func (s *userService) UpdateAvatar(ctx context.Context, targetID string, actor *model.User, file io.Reader) (*model.User, error) {
	if !canAccess(actor, targetID) {
		return nil, ErrForbidden
	}
	user, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	path, err := s.avatars.Save(user.ID, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}
	if err := s.userRepo.UpdateAvatar(ctx, user.ID, path); err != nil {
		return nil, fmt.Errorf("failed to update user with avatar path: %w", err)
	}
	user.Avatar = path

	s.emitUserUpdated(ctx, user)
	if actor.Role == model.RoleUser && actor.ID == targetID {
		s.notifyAdmins(ctx, fmt.Sprintf("Avatar picture of %s updated", actor.Name), "Avatar picture was updated successfully.")
	}
	return user, nil
}

// SeedUsers creates the given accounts when no user exists yet
func (s *userService) SeedUsers(ctx context.Context, accounts []SeedAccount) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, acc := range accounts {
		if acc.Email == "" || acc.Password == "" {
			continue
		}
		user, err := s.CreateUser(ctx, model.CreateUserRequest{
			Name:     acc.Name,
			Email:    acc.Email,
			Password: acc.Password,
			Role:     acc.Role,
			Position: acc.Position,
		})
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", acc.Email, err)
		}
		log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("seeded user account")
	}
	return nil
}

func (s *userService) emitUserUpdated(ctx context.Context, user *model.User) {
	event := events.NewUserUpdated(user, s.clock.Now())
	if err := s.publisher.Publish(ctx, s.eventsTopic, user.ID, event); err != nil {
		log.Err(err).Str("user_id", user.ID).Msg("failed to emit user.updated event")
	}
}

func (s *userService) notifyAdmins(ctx context.Context, title, body string) {
	if _, err := s.notifier.SendToTopic(ctx, events.AdminTopic, title, body, nil); err != nil {
		log.Err(err).Msg("failed to send push notification")
	}
}

func isStrongPassword(p string) bool {
	if len(p) < minPasswordLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
