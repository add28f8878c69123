package migrations

import (
	"database/sql"

	"github.com/byrencheema/tappy/pkg/db"
	"github.com/pkg/errors"
)

// Migration20260815120000CreateNotifications creates the notifications table.
func Migration20260815120000CreateNotifications() db.Migration {
	return db.Migration{
		Version:     20260815120000,
		Description: "Create notifications table",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS notifications (
					id TEXT PRIMARY KEY,
					note_excerpt TEXT NOT NULL,
					skill_id TEXT NOT NULL,
					skill_name TEXT NOT NULL,
					title TEXT NOT NULL,
					message TEXT NOT NULL,
					action_label TEXT NOT NULL DEFAULT '',
					status TEXT NOT NULL,
					links TEXT NOT NULL DEFAULT '[]',
					read INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create notifications table")
			}

			if _, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_notifications_created_at
				ON notifications(created_at DESC)
			`); err != nil {
				return errors.Wrap(err, "failed to create created_at index")
			}

			if _, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_notifications_read
				ON notifications(read)
			`); err != nil {
				return errors.Wrap(err, "failed to create read index")
			}

			return nil
		},
		Down: func(tx *sql.Tx) error {
			if _, err := tx.Exec("DROP TABLE IF EXISTS notifications"); err != nil {
				return errors.Wrap(err, "failed to drop notifications table")
			}
			return nil
		},
	}
}
