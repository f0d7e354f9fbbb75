package models

import "time"

// Role is the access level of a user account
type Role string

// Role constants
const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the defined values
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User represents a user record in the system
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Never serialize password hash
	Role           Role      `json:"role"`
	Course         string    `json:"course,omitempty"` // Only meaningful for students
	EnrollmentDate time.Time `json:"enrollmentDate"`
}

// Profile is the public view of a user, safe to return to clients
type Profile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Course         string    `json:"course,omitempty"`
	EnrollmentDate time.Time `json:"enrollmentDate"`
}

// Profile returns the public view of the user
func (u *User) Profile() *Profile {
	return &Profile{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Course:         u.Course,
		EnrollmentDate: u.EnrollmentDate,
	}
}

// RegisterRequest represents a self-service registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Course   string `json:"course"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateStudentRequest represents an admin-initiated student creation.
// Password is optional; a default is used when omitted.
type CreateStudentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Course   string `json:"course"`
}

// UpdateStudentRequest represents a partial profile update.
// Empty fields are left unchanged. Role is applied only when the caller
// is an admin.
type UpdateStudentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Course   string `json:"course"`
	Role     Role   `json:"role"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Profile *Profile `json:"profile"`
	Token   string   `json:"token"`
}
