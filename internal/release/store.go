// internal/release/store.go
//
// Release history bookkeeping.
//
// Context
// -------
// Every applied resolution is recorded as one row in the control-plane
// database:
//
//	release (id CHAR(36) PK, profile, checksum CHAR(64), created_at)
//
// The checksum is the snapshot's SHA-256, so `LastFor` lets a deploy
// script skip a redeploy when nothing changed.  Recording is
// best-effort bookkeeping: callers log a failure and carry on, a lost
// history row must never block a deploy.
package release

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNoReleases is returned by LastFor when the profile has never been
// deployed.
var ErrNoReleases = errors.New("no releases recorded for profile")

// Release is one recorded deploy of a resolved configuration.
type Release struct {
	ID        string    `db:"id"`
	Profile   string    `db:"profile"`
	Checksum  string    `db:"checksum"`
	CreatedAt time.Time `db:"created_at"`
}

// Record inserts a release row and returns it.
func Record(ctx context.Context, db *sqlx.DB, profile, checksum string) (*Release, error) {
	rel := &Release{
		ID:        uuid.NewString(),
		Profile:   profile,
		Checksum:  checksum,
		CreatedAt: time.Now().UTC(),
	}

	const q = `INSERT INTO ` + "`release`" + ` (id, profile, checksum, created_at)
	           VALUES (?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, q, rel.ID, rel.Profile, rel.Checksum, rel.CreatedAt); err != nil {
		return nil, err
	}
	return rel, nil
}

// LastFor returns the newest release for a profile.
func LastFor(ctx context.Context, db *sqlx.DB, profile string) (*Release, error) {
	const q = `SELECT id, profile, checksum, created_at
	             FROM ` + "`release`" + `
	            WHERE profile = ?
	            ORDER BY created_at DESC
	            LIMIT 1`

	var rel Release
	if err := db.GetContext(ctx, &rel, q, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoReleases
		}
		return nil, err
	}
	return &rel, nil
}

// ListFor returns up to limit releases for a profile, newest first.
func ListFor(ctx context.Context, db *sqlx.DB, profile string, limit int) ([]Release, error) {
	if limit < 1 {
		limit = 20
	}

	const q = `SELECT id, profile, checksum, created_at
	             FROM ` + "`release`" + `
	            WHERE profile = ?
	            ORDER BY created_at DESC
	            LIMIT ?`

	out := make([]Release, 0, limit)
	if err := db.SelectContext(ctx, &out, q, profile, limit); err != nil {
		return nil, err
	}
	return out, nil
}
