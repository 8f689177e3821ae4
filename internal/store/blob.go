package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const blobTable = "blobs"

// BlobInfo describes a stored blob without its payload.
type BlobInfo struct {
	Key       string
	Sequence  int64
	UpdatedAt time.Time
	Size      int
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Load returns the blob stored under key, or nil when there is none.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	query, args := builder().
		Select("data").
		From(entsql.Table(blobTable)).
		Where(entsql.EQ("name", key)).
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("load %q: %w", key, err)
		}
		return nil, nil
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan %q: %w", key, err)
	}
	return data, nil
}

// Save inserts or replaces the blob stored under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	query, args := builder().
		Insert(blobTable).
		Columns("name", "data", "sequence", "updated_at").
		Values(key, data, seq, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Delete removes the blob stored under key. Deleting a missing key is not an
// error.
func (s *Store) Delete(ctx context.Context, key string) error {
	query, args := builder().
		Delete(blobTable).
		Where(entsql.EQ("name", key)).
		Query()

	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// List returns metadata for every stored blob, oldest write first.
func (s *Store) List(ctx context.Context) ([]BlobInfo, error) {
	query, args := builder().
		Select("name", "sequence", "updated_at", "length(data)").
		From(entsql.Table(blobTable)).
		OrderBy("sequence").
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	defer rows.Close()

	var out []BlobInfo
	for rows.Next() {
		var info BlobInfo
		if err := rows.Scan(&info.Key, &info.Sequence, &info.UpdatedAt, &info.Size); err != nil {
			return nil, fmt.Errorf("scan blob info: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
