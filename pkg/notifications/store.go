// Package notifications persists pipeline notifications and fans them out
// to connected event stream clients.
package notifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

// Notification is a persisted record of a pipeline run surfaced to the user.
type Notification struct {
	ID          string                     `json:"id"`
	NoteExcerpt string                     `json:"note_excerpt"`
	SkillID     string                     `json:"skill_id"`
	SkillName   string                     `json:"skill_name"`
	Title       string                     `json:"title"`
	Message     string                     `json:"message"`
	ActionLabel string                     `json:"action_label,omitempty"`
	Status      skilltypes.FormattedStatus `json:"status"`
	Links       []skilltypes.Link          `json:"links,omitempty"`
	Read        bool                       `json:"read"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// ErrNotFound is returned when a notification ID does not exist.
var ErrNotFound = errors.New("notification not found")

type notificationRecord struct {
	ID          string    `db:"id"`
	NoteExcerpt string    `db:"note_excerpt"`
	SkillID     string    `db:"skill_id"`
	SkillName   string    `db:"skill_name"`
	Title       string    `db:"title"`
	Message     string    `db:"message"`
	ActionLabel string    `db:"action_label"`
	Status      string    `db:"status"`
	Links       string    `db:"links"`
	Read        bool      `db:"read"`
	CreatedAt   time.Time `db:"created_at"`
}

// Store provides CRUD access to persisted notifications.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a notification store backed by an open database.
// Migrations must have been applied before the store is used.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Create persists a notification.
func (s *Store) Create(ctx context.Context, n *Notification) error {
	record, err := toRecord(n)
	if err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO notifications (id, note_excerpt, skill_id, skill_name, title, message, action_label, status, links, read, created_at)
		VALUES (:id, :note_excerpt, :skill_id, :skill_name, :title, :message, :action_label, :status, :links, :read, :created_at)
	`, record)
	return errors.Wrap(err, "failed to insert notification")
}

// Get returns a single notification by ID.
func (s *Store) Get(ctx context.Context, id string) (*Notification, error) {
	var record notificationRecord
	err := s.db.GetContext(ctx, &record, "SELECT * FROM notifications WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query notification")
	}
	return fromRecord(record)
}

// List returns notifications newest first, up to limit. A limit of zero or
// less applies the default of 50.
func (s *Store) List(ctx context.Context, limit int) ([]*Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []notificationRecord
	err := s.db.SelectContext(ctx, &records,
		"SELECT * FROM notifications ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}

	result := make([]*Notification, 0, len(records))
	for _, record := range records {
		n, err := fromRecord(record)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

// MarkRead flags a notification as read.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "failed to mark notification read")
	}
	return checkAffected(result)
}

// Delete removes a notification.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "failed to delete notification")
	}
	return checkAffected(result)
}

// CountUnread returns the number of unread notifications.
func (s *Store) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notifications WHERE read = 0")
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}
	return count, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check affected rows")
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func toRecord(n *Notification) (notificationRecord, error) {
	links := n.Links
	if links == nil {
		links = []skilltypes.Link{}
	}
	encoded, err := json.Marshal(links)
	if err != nil {
		return notificationRecord{}, errors.Wrap(err, "failed to encode notification links")
	}

	return notificationRecord{
		ID:          n.ID,
		NoteExcerpt: n.NoteExcerpt,
		SkillID:     n.SkillID,
		SkillName:   n.SkillName,
		Title:       n.Title,
		Message:     n.Message,
		ActionLabel: n.ActionLabel,
		Status:      string(n.Status),
		Links:       string(encoded),
		Read:        n.Read,
		CreatedAt:   n.CreatedAt.UTC(),
	}, nil
}

func fromRecord(record notificationRecord) (*Notification, error) {
	var links []skilltypes.Link
	if record.Links != "" {
		if err := json.Unmarshal([]byte(record.Links), &links); err != nil {
			return nil, errors.Wrapf(err, "failed to decode links for notification %s", record.ID)
		}
	}
	if len(links) == 0 {
		links = nil
	}

	return &Notification{
		ID:          record.ID,
		NoteExcerpt: record.NoteExcerpt,
		SkillID:     record.SkillID,
		SkillName:   record.SkillName,
		Title:       record.Title,
		Message:     record.Message,
		ActionLabel: record.ActionLabel,
		Status:      skilltypes.FormattedStatus(record.Status),
		Links:       links,
		Read:        record.Read,
		CreatedAt:   record.CreatedAt.UTC(),
	}, nil
}
