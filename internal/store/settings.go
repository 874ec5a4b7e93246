package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/theirongolddev/hbt/internal/model"
)

// Period returns the stored viewed period. ok is false when none is stored.
func (s *Store) Period(ctx context.Context) (p model.Period, ok bool, err error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings WHERE key IN ('year', 'month')")
	if err != nil {
		return model.Period{}, false, storageErr("read settings", err)
	}
	defer func() { _ = rows.Close() }()

	vals := make(map[string]string, 2)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return model.Period{}, false, storageErr("read settings", err)
		}
		vals[k] = v
	}
	if err := rows.Err(); err != nil {
		return model.Period{}, false, storageErr("read settings", err)
	}

	ys, hasYear := vals["year"]
	ms, hasMonth := vals["month"]
	if !hasYear || !hasMonth {
		return model.Period{}, false, nil
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return model.Period{}, false, &model.ValidationError{Field: "year", Value: ys, Reason: "stored year is not a number"}
	}
	m, err := model.ParseMonth(ms)
	if err != nil {
		return model.Period{}, false, err
	}
	p, err = model.NewPeriod(y, m)
	if err != nil {
		return model.Period{}, false, err
	}
	return p, true, nil
}

// SetPeriod stores the viewed period. The month is stored by name.
func (s *Store) SetPeriod(ctx context.Context, p model.Period) error {
	if err := p.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("write settings", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = "INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	if _, err := tx.ExecContext(ctx, q, "year", strconv.Itoa(p.Year)); err != nil {
		return storageErr("write settings", err)
	}
	if _, err := tx.ExecContext(ctx, q, "month", p.Month.String()); err != nil {
		return storageErr("write settings", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("write settings", err)
	}
	return nil
}

// Profile returns the stored profile, or the default one if none is stored.
func (s *Store) Profile(ctx context.Context) (model.Profile, error) {
	var p model.Profile
	err := s.db.QueryRowContext(ctx, "SELECT name, bio, location, avatar_url FROM profile WHERE id = 1").
		Scan(&p.Name, &p.Bio, &p.Location, &p.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultProfile(), nil
	}
	if err != nil {
		return model.Profile{}, storageErr("read profile", err)
	}
	return p, nil
}

// UpdateProfile replaces the stored profile.
func (s *Store) UpdateProfile(ctx context.Context, p model.Profile) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO profile (id, name, bio, location, avatar_url)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			bio = excluded.bio,
			location = excluded.location,
			avatar_url = excluded.avatar_url`,
		p.Name, p.Bio, p.Location, p.AvatarURL)
	if err != nil {
		return storageErr("write profile", err)
	}
	return nil
}
