package migrations

import (
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20250301101500",
		up:      mig_20250301101500_quotes_up,
		down:    mig_20250301101500_quotes_down,
	})
}

func mig_20250301101500_quotes_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS quotes (
            id BIGSERIAL PRIMARY KEY,
            lead_id BIGINT REFERENCES leads(id),
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            quote_number VARCHAR(50) NOT NULL UNIQUE,
            destination VARCHAR(255) NOT NULL DEFAULT '',
            amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
            status VARCHAR(50) NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'sent', 'accepted', 'rejected', 'expired')),
            valid_until DATE,
            details TEXT NOT NULL DEFAULT '',
            created_by BIGINT NOT NULL REFERENCES users(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_quotes_created_by ON quotes(created_by);
    `)
	return err
}

func mig_20250301101500_quotes_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS quotes;`)
	return err
}
