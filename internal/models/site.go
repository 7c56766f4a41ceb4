package models

import (
	"database/sql"
	"time"
)

// Site is the single row of platform-wide configuration: the crypto
// receiving addresses shown to depositors and the support contact.
type Site struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Currency        string         `db:"currency"`
	BitcoinAddress  sql.NullString `db:"bitcoin_address"`
	EthereumAddress sql.NullString `db:"ethereum_address"`
	TetherAddress   sql.NullString `db:"tether_address"`
	SupportEmail    string         `db:"support_email"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       sql.NullTime   `db:"updated_at"`
}
