package migrations

import (
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20250301102500",
		up:      mig_20250301102500_payments_up,
		down:    mig_20250301102500_payments_down,
	})
}

func mig_20250301102500_payments_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS payments (
            id BIGSERIAL PRIMARY KEY,
            booking_id BIGINT NOT NULL REFERENCES bookings(id),
            amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
            payment_method VARCHAR(50) NOT NULL CHECK (payment_method IN ('card', 'bank_transfer', 'cash', 'upi')),
            status VARCHAR(50) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'failed', 'refunded')),
            transaction_ref VARCHAR(100) NOT NULL DEFAULT '',
            paid_at TIMESTAMP WITH TIME ZONE,
            created_by BIGINT NOT NULL REFERENCES users(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_payments_created_by ON payments(created_by);
    `)
	return err
}

func mig_20250301102500_payments_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS payments;`)
	return err
}
