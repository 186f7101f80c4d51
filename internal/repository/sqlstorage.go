package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

// sqlStorage holds the queries shared by the Postgres and SQLite backends.
// Queries are written with ? placeholders and rebound per dialect;
// captured_at is stored as Unix nanoseconds in both.
type sqlStorage struct {
	db     *sql.DB
	rebind func(string) string
}

func questionMarks(q string) string { return q }

// dollarPlaceholders rewrites ? to $1, $2, ...
func dollarPlaceholders(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const (
	insertSample = "INSERT INTO samples (name, type, value, captured_at) VALUES (?, ?, ?, ?)"
	selectSeries = "SELECT name, type, value, captured_at FROM samples WHERE name = ? ORDER BY captured_at DESC, id DESC"
	selectLatest = `SELECT s.name, s.type, s.value, s.captured_at FROM samples s
JOIN (SELECT name, MAX(id) AS id FROM samples GROUP BY name) l ON s.id = l.id
ORDER BY s.name`
)

func (s *sqlStorage) Append(ctx context.Context, samples []models.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't start transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(insertSample))
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		if _, err := stmt.ExecContext(ctx, sample.Name, sample.Type, sample.Value, sample.CapturedAt.UnixNano()); err != nil {
			return fmt.Errorf("error saving sample %s: %w", sample.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing samples: %w", err)
	}
	return nil
}

func (s *sqlStorage) Latest(ctx context.Context, name string) (models.Sample, error) {
	samples, err := s.History(ctx, name, 1)
	if err != nil {
		return models.Sample{}, err
	}
	return samples[0], nil
}

func (s *sqlStorage) History(ctx context.Context, name string, limit int) ([]models.Sample, error) {
	query := selectSeries
	args := []any{name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	samples, err := s.query(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, internalerrors.ErrMetricNotFound
	}
	return samples, nil
}

func (s *sqlStorage) List(ctx context.Context) ([]models.Sample, error) {
	return s.query(ctx, s.rebind(selectLatest))
}

func (s *sqlStorage) query(ctx context.Context, query string, args ...any) ([]models.Sample, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving samples: %w", err)
	}
	defer rows.Close()

	var samples []models.Sample
	for rows.Next() {
		var (
			sample models.Sample
			nanos  int64
		)
		if err := rows.Scan(&sample.Name, &sample.Type, &sample.Value, &nanos); err != nil {
			return nil, fmt.Errorf("error scanning sample: %w", err)
		}
		sample.CapturedAt = time.Unix(0, nanos).UTC()
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over samples: %w", err)
	}
	return samples, nil
}

func (s *sqlStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: database ping failed: %w", internalerrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}
