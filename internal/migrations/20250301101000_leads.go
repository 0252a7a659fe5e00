package migrations

import (
	"github.com/jmoiron/sqlx"
)

func init() {
	m.addMigration(&migration{
		version: "20250301101000",
		up:      mig_20250301101000_leads_up,
		down:    mig_20250301101000_leads_down,
	})
}

func mig_20250301101000_leads_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS leads (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT REFERENCES customers(id),
            contact_name VARCHAR(255) NOT NULL DEFAULT '',
            contact_email VARCHAR(255) NOT NULL DEFAULT '',
            contact_phone VARCHAR(50) NOT NULL DEFAULT '',
            source VARCHAR(100) NOT NULL DEFAULT '',
            destination VARCHAR(255) NOT NULL DEFAULT '',
            travel_date DATE,
            travelers INT NOT NULL DEFAULT 1,
            status VARCHAR(50) NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'contacted', 'quoted', 'converted', 'lost')),
            priority VARCHAR(50) NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
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
        CREATE INDEX IF NOT EXISTS idx_leads_created_by ON leads(created_by);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
    `)
	return err
}

func mig_20250301101000_leads_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS leads;`)
	return err
}
