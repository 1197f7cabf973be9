// Package archive persists channel listing snapshots in sqlite so
// consecutive walks of the same channel can be compared offline.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"
	"tubelist/lib/textutil"

	"github.com/antzucaro/matchr"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var NoSnapshot = fmt.Errorf("archive: no snapshot recorded")

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Snapshot is one full walk of a channel tab at a point in time. Refs
// keep the listing order.
type Snapshot struct {
	Channel string
	Name    string
	Kind    string
	TakenAt time.Time
	Status  string
	Refs    []string
}

func (s Store) Push(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO channels (uri, name) VALUES (?, ?)
		ON CONFLICT (uri) DO UPDATE SET name = excluded.name
	`, snap.Channel, snap.Name)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (channel_uri, kind, taken_at, status)
		VALUES (?, ?, ?, ?)
	`, snap.Channel, snap.Kind, snap.TakenAt.Unix(), snap.Status)
	if err != nil {
		return err
	}
	snapshotId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for position, ref := range snap.Refs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshot_items (snapshot_id, position, ref)
			VALUES (?, ?, ?)
		`, snapshotId, position, ref)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Pull returns the most recent snapshot of one channel tab, refs in
// listing order. NoSnapshot when the channel tab was never pushed.
func (s Store) Pull(ctx context.Context, channel, kind string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.channel_uri, c.name, s.kind, s.taken_at, s.status
		FROM snapshots s
		JOIN channels c ON c.uri = s.channel_uri
		WHERE s.channel_uri = ? AND s.kind = ?
		ORDER BY s.taken_at DESC, s.id DESC
		LIMIT 1
	`, channel, kind)

	var snapshotId int64
	var takenAt int64
	var snap Snapshot
	err := row.Scan(&snapshotId, &snap.Channel, &snap.Name, &snap.Kind, &takenAt, &snap.Status)
	if err == sql.ErrNoRows {
		return Snapshot{}, NoSnapshot
	}
	if err != nil {
		return Snapshot{}, err
	}
	snap.TakenAt = time.Unix(takenAt, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT ref FROM snapshot_items
		WHERE snapshot_id = ?
		ORDER BY position
	`, snapshotId)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var ref string
		err = rows.Scan(&ref)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Refs = append(snap.Refs, ref)
	}
	return snap, rows.Err()
}

type SnapshotInfo struct {
	Kind    string
	TakenAt time.Time
	Status  string
	Count   int
}

// History lists every snapshot taken of a channel, newest first,
// without loading the refs.
func (s Store) History(ctx context.Context, channel string) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.kind, s.taken_at, s.status, COUNT(i.ref)
		FROM snapshots s
		LEFT JOIN snapshot_items i ON i.snapshot_id = s.id
		WHERE s.channel_uri = ?
		GROUP BY s.id
		ORDER BY s.taken_at DESC, s.id DESC
	`, channel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var takenAt int64
		err = rows.Scan(&info.Kind, &takenAt, &info.Status, &info.Count)
		if err != nil {
			return nil, err
		}
		info.TakenAt = time.Unix(takenAt, 0)
		history = append(history, info)
	}
	return history, rows.Err()
}

type ChannelInfo struct {
	Uri       string
	Name      string
	Snapshots int
	LastTaken time.Time
}

func (s Store) Channels(ctx context.Context) ([]ChannelInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.uri, c.name, COUNT(s.id), COALESCE(MAX(s.taken_at), 0)
		FROM channels c
		LEFT JOIN snapshots s ON s.channel_uri = c.uri
		GROUP BY c.uri, c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []ChannelInfo
	for rows.Next() {
		var info ChannelInfo
		var lastTaken int64
		err = rows.Scan(&info.Uri, &info.Name, &info.Snapshots, &lastTaken)
		if err != nil {
			return nil, err
		}
		if lastTaken > 0 {
			info.LastTaken = time.Unix(lastTaken, 0)
		}
		channels = append(channels, info)
	}
	return channels, rows.Err()
}

type SearchResult struct {
	Uri   string
	Name  string
	Score float64
}

const searchThreshold = 0.6

// Search fuzzy-matches the query against the archived channel names.
// Results come back best match first; anything scoring below the
// threshold is dropped.
func (s Store) Search(ctx context.Context, query string) ([]SearchResult, error) {
	channels, err := s.Channels(ctx)
	if err != nil {
		return nil, err
	}

	normalizedQuery := textutil.NormalizeName(query)

	var results []SearchResult
	for _, channel := range channels {
		score := matchr.JaroWinkler(
			normalizedQuery,
			textutil.NormalizeName(channel.Name),
			false,
		)
		if score < searchThreshold {
			continue
		}
		results = append(results, SearchResult{
			Uri:   channel.Uri,
			Name:  channel.Name,
			Score: score,
		})
	}

	slices.SortFunc(results, func(a, b SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	return results, nil
}
