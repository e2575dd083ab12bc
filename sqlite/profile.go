package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/fwojciec/roster"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ roster.ProfileService = (*ProfileService)(nil)

// DefaultSearchLimit caps SearchProfiles when no limit is given.
const DefaultSearchLimit = 10

const profileColumns = `id, name, role, bio, photo_url, email, phone, linkedin, twitter,
	department, profile_url, source_url, fingerprint, merge_count, merged, created_at`

// ProfileService implements roster.ProfileService using SQLite.
type ProfileService struct {
	db *DB
}

// NewProfileService creates a new ProfileService.
func NewProfileService(db *DB) *ProfileService {
	return &ProfileService{db: db}
}

// ReplaceProfiles removes every stored profile, with its embedding, and
// stores the given ones in a single transaction. Profiles without an ID or
// creation time are assigned one.
func (s *ProfileService) ReplaceProfiles(ctx context.Context, profiles []*roster.Profile) error {
	return s.store(ctx, profiles, true)
}

// AppendProfiles stores the given profiles after the existing ones in a
// single transaction. Profiles without an ID or creation time are assigned
// one.
func (s *ProfileService) AppendProfiles(ctx context.Context, profiles []*roster.Profile) error {
	return s.store(ctx, profiles, false)
}

func (s *ProfileService) store(ctx context.Context, profiles []*roster.Profile, replace bool) error {
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	position := 0
	if replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM profiles"); err != nil {
			return err
		}
	} else if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position) + 1, 0) FROM profiles").Scan(&position); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO profiles (id, position, name, role, bio, photo_url, email, phone, linkedin, twitter,
			department, profile_url, source_url, fingerprint, merge_count, merged, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	ids := make([]string, len(profiles))
	created := make([]time.Time, len(profiles))
	for i, p := range profiles {
		ids[i], created[i] = p.ID, p.CreatedAt
		if ids[i] == "" {
			ids[i] = uuid.New().String()
		}
		if created[i].IsZero() {
			created[i] = now
		}
		if _, err := stmt.ExecContext(ctx, ids[i], position+i, p.Name, p.Role, p.Bio, p.PhotoURL, p.Email, p.Phone,
			p.LinkedIn, p.Twitter, string(p.Department), p.ProfileURL, p.SourceURL, p.Fingerprint,
			p.MergeCount, boolInt(p.Merged), formatTime(created[i])); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	// Assigned values are only reported once they are stored.
	for i, p := range profiles {
		p.ID, p.CreatedAt = ids[i], created[i]
	}
	return nil
}

// FindProfileByID retrieves a profile by ID.
func (s *ProfileService) FindProfileByID(ctx context.Context, id string) (*roster.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = ?", id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, roster.Errorf(roster.ENOTFOUND, "profile not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindProfiles retrieves profiles matching the filter in stored order.
// Name matches case-insensitively.
func (s *ProfileService) FindProfiles(ctx context.Context, filter roster.ProfileFilter) ([]*roster.Profile, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + profileColumns + " FROM profiles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ? COLLATE NOCASE")
		args = append(args, *filter.Name)
	}
	if filter.Department != nil {
		query.WriteString(" AND department = ?")
		args = append(args, string(*filter.Department))
	}

	query.WriteString(" ORDER BY position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

// SearchProfiles runs a full-text query over names, roles and bios. Any
// query word may match; results are ordered by BM25 rank. A query without
// words returns no profiles.
func (s *ProfileService) SearchProfiles(ctx context.Context, query string, limit int) ([]*roster.Profile, error) {
	match := ftsQuery(query)
	if match == "" {
		return []*roster.Profile{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.role, p.bio, p.photo_url, p.email, p.phone, p.linkedin, p.twitter,
			p.department, p.profile_url, p.source_url, p.fingerprint, p.merge_count, p.merged, p.created_at
		FROM profiles_fts
		JOIN profiles p ON p.rowid = profiles_fts.rowid
		WHERE profiles_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

// Departments returns the distinct departments of stored profiles in
// alphabetical order.
func (s *ProfileService) Departments(ctx context.Context) ([]roster.Department, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT department FROM profiles ORDER BY department")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := []roster.Department{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		departments = append(departments, roster.Department(d))
	}
	return departments, rows.Err()
}

// ftsQuery turns free text into an FTS5 query that ORs quoted words, so
// FTS5 operators in user input are taken literally.
func ftsQuery(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		words[i] = `"` + w + `"`
	}
	return strings.Join(words, " OR ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*roster.Profile, error) {
	var p roster.Profile
	var department, createdAt string
	var merged int

	if err := row.Scan(&p.ID, &p.Name, &p.Role, &p.Bio, &p.PhotoURL, &p.Email, &p.Phone, &p.LinkedIn,
		&p.Twitter, &department, &p.ProfileURL, &p.SourceURL, &p.Fingerprint, &p.MergeCount,
		&merged, &createdAt); err != nil {
		return nil, err
	}
	p.Department = roster.Department(department)
	p.Merged = merged != 0

	var err error
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProfiles(rows *sql.Rows) ([]*roster.Profile, error) {
	profiles := []*roster.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
