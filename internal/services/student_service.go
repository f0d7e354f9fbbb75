package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/studentrecords/backend/internal/auth"
	"github.com/studentrecords/backend/internal/models"
	"go.uber.org/zap"
)

// DefaultStudentPassword is used when an admin creates a student without
// providing a password. Kept as a named constant so a forced-reset flow
// can replace it later.
const DefaultStudentPassword = "password123"

// StudentRepository is the interface that wraps methods for users table data access
// needed by the student service
type StudentRepository interface {
	// Method Create inserts a new user into the database.
	//
	// If the email is already taken, models.ErrUserExists is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned
	// together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Method GetStudents retrieves all student records, newest first.
	GetStudents(ctx context.Context) ([]models.User, error)
	// Method Update saves the user's mutable fields.
	//
	// If the new email is already taken by another user, models.ErrUserExists
	// is returned.
	Update(ctx context.Context, user *models.User) error
	// Method Delete deletes a user by ID.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned.
	Delete(ctx context.Context, id string) error
}

// CanModify is the ownership predicate for mutating a user record:
// admins may modify anyone, other users only themselves. Every mutating
// endpoint consults this one function.
func CanModify(actor *models.User, targetID string) bool {
	return actor.Role == models.RoleAdmin || actor.ID == targetID
}

// studentService implements student record management
type studentService struct {
	userRepo StudentRepository
	hasher   *auth.PasswordHasher
	logger   *zap.Logger
}

// NewStudentService creates a new student service
func NewStudentService(
	userRepo StudentRepository,
	hasher *auth.PasswordHasher,
	logger *zap.Logger,
) *studentService {
	return &studentService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// List returns the public profiles of all students, newest first
func (s *studentService) List(ctx context.Context) ([]models.Profile, error) {
	users, err := s.userRepo.GetStudents(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.Profile, len(users))
	for i := range users {
		profiles[i] = *users[i].Profile()
	}

	return profiles, nil
}

// Create adds a new student record. When the password is omitted the
// default password is used.
func (s *studentService) Create(ctx context.Context, req *models.CreateStudentRequest) (*models.Profile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", models.ErrValidation)
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", models.ErrValidation)
	}

	password := req.Password
	if password == "" {
		password = DefaultStudentPassword
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleStudent,
		Course:       strings.TrimSpace(req.Course),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user.Profile(), nil
}

// Get returns a single user's profile. Admins may read anyone; other
// users only their own record.
func (s *studentService) Get(ctx context.Context, actor *models.User, id string) (*models.Profile, error) {
	if !CanModify(actor, id) {
		return nil, models.ErrNotAllowed
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user.Profile(), nil
}

// Update applies a partial update to a user record. Empty fields are left
// unchanged; a provided password is re-hashed; a role change is applied
// only when the actor is an admin.
func (s *studentService) Update(ctx context.Context, actor *models.User, id string, req *models.UpdateStudentRequest) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanModify(actor, id) {
		return nil, models.ErrNotAllowed
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}

	if email := strings.TrimSpace(strings.ToLower(req.Email)); email != "" {
		if !emailRegex.MatchString(email) {
			return nil, fmt.Errorf("%w: invalid email format", models.ErrValidation)
		}
		user.Email = email
	}

	if course := strings.TrimSpace(req.Course); course != "" {
		user.Course = course
	}

	if req.Role != "" && actor.Role == models.RoleAdmin {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, req.Role)
		}
		user.Role = req.Role
	}

	// Only re-hash the password if one was sent
	if req.Password != "" {
		passwordHash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.Profile(), nil
}

// Delete removes a user record
func (s *studentService) Delete(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}
