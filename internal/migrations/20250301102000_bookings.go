package migrations

import (
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20250301102000",
		up:      mig_20250301102000_bookings_up,
		down:    mig_20250301102000_bookings_down,
	})
}

func mig_20250301102000_bookings_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS bookings (
            id BIGSERIAL PRIMARY KEY,
            quote_id BIGINT REFERENCES quotes(id),
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            booking_reference VARCHAR(50) NOT NULL UNIQUE,
            destination VARCHAR(255) NOT NULL DEFAULT '',
            start_date DATE,
            end_date DATE,
            total_amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
            status VARCHAR(50) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed')),
            notes TEXT NOT NULL DEFAULT '',
            created_by BIGINT NOT NULL REFERENCES users(id),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_bookings_created_by ON bookings(created_by);
    `)
	return err
}

func mig_20250301102000_bookings_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS bookings;`)
	return err
}
