package model

import "time"

// User represents an application account record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – optional email address (nullable).
//  PhoneNumber  – optional phone number (nullable).
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account may log in.
//  IsStaff      – whether the account has staff privileges.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        *string   // users.email (nullable)
	PhoneNumber  *string   // users.phone_number (nullable)
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	IsStaff      bool      // users.is_staff
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
