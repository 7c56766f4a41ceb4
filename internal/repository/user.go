package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	Insert(user *models.User, tx *sqlx.Tx) (string, error)
	GetOne(id string) (*models.User, bool, error)
	GetByEmail(email string) (*models.User, bool, error)
	UpdatePassword(id, password string) error
	SubmitKyc(id string, docs *KycDocuments) error
}

// KycDocuments holds the resolved storage paths of the uploaded identity
// documents. Empty fields mean the document was not provided.
type KycDocuments struct {
	IDProof      string
	AddressProof string
	Selfie       string
}

type UserRepositoryImpl struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (repo *UserRepositoryImpl) Insert(user *models.User, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO users (first_name, last_name, email, hashed_password)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	if tx != nil {
		err := tx.QueryRowContext(ctx, query,
			user.FirstName,
			user.LastName,
			user.Email,
			user.HashedPassword,
		).Scan(&id)
		if err != nil {
			return "", err
		}
	} else {
		err := repo.db.GetContext(ctx, &id, query,
			user.FirstName,
			user.LastName,
			user.Email,
			user.HashedPassword,
		)
		if err != nil {
			return "", err
		}
	}

	return id, nil
}

func (repo *UserRepositoryImpl) GetOne(id string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var user models.User

	query := `SELECT * FROM users WHERE id = $1`

	err := repo.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &user, true, err
}

func (repo *UserRepositoryImpl) GetByEmail(email string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	err := repo.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &user, true, err
}

func (repo *UserRepositoryImpl) UpdatePassword(id, password string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET hashed_password = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, password, id)
	if err != nil {
		return err
	}

	return nil
}

// SubmitKyc stores the document paths and moves the verification status from
// unverified to pending in a single statement. Paths already on file are kept
// when the matching upload was omitted from this submission.
func (repo *UserRepositoryImpl) SubmitKyc(id string, docs *KycDocuments) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE users
		SET kyc_id_proof = COALESCE(NULLIF($1, ''), kyc_id_proof),
			kyc_address_proof = COALESCE(NULLIF($2, ''), kyc_address_proof),
			kyc_selfie = COALESCE(NULLIF($3, ''), kyc_selfie),
			kyc_submitted = TRUE,
			kyc_submission_date = $4,
			status = $5,
			updated_at = now()
		WHERE id = $6`

	_, err := repo.db.ExecContext(ctx, query,
		docs.IDProof,
		docs.AddressProof,
		docs.Selfie,
		time.Now(),
		models.UserStatusPending,
		id,
	)
	if err != nil {
		return err
	}

	return nil
}
