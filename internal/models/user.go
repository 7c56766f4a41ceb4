package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID                string         `db:"id"`
	FirstName         string         `db:"first_name"`
	LastName          string         `db:"last_name"`
	Email             string         `db:"email"`
	Status            string         `db:"status"`
	HashedPassword    string         `db:"hashed_password"`
	KycSubmitted      bool           `db:"kyc_submitted"`
	KycSubmissionDate sql.NullTime   `db:"kyc_submission_date"`
	KycIDProof        sql.NullString `db:"kyc_id_proof"`
	KycAddressProof   sql.NullString `db:"kyc_address_proof"`
	KycSelfie         sql.NullString `db:"kyc_selfie"`
	CreatedAt         time.Time      `db:"created_at"`
	DeletedAt         sql.NullTime   `db:"deleted_at"`
	UpdatedAt         sql.NullTime   `db:"updated_at"`
}

const (
	// UserStatusUnverified is the default after registration, before any
	// identity documents have been submitted.
	UserStatusUnverified = "unverified"

	// UserStatusPending indicates KYC documents have been submitted and are
	// awaiting review by the admin team.
	UserStatusPending = "pending"

	// UserStatusVerified indicates the identity documents were accepted.
	UserStatusVerified = "verified"
)
