package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/GintGld/chat-envboot/internal/models"
	"github.com/GintGld/chat-envboot/internal/storage"
)

const keySeparator = ","

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Stop() error {
	return s.db.Close()
}

// SaveRun saves bootstrap report.
func (s *Storage) SaveRun(ctx context.Context, report models.Report) (int64, error) {
	const op = "storage.sqlite.SaveRun"

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO runs(path, found, propagated, skipped, created_at) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.ErrRunID, fmt.Errorf("%s: %w", op, ctxErr(err))
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx,
		report.Path,
		report.Found,
		strings.Join(report.Propagated, keySeparator),
		strings.Join(report.Skipped, keySeparator),
		report.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return models.ErrRunID, fmt.Errorf("%s: %w", op, ctxErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.ErrRunID, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// Run returns report by id.
func (s *Storage) Run(ctx context.Context, id int64) (models.Report, error) {
	const op = "storage.sqlite.Run"

	stmt, err := s.db.PrepareContext(ctx, "SELECT id, path, found, propagated, skipped, created_at FROM runs WHERE id = ?")
	if err != nil {
		return models.Report{}, fmt.Errorf("%s: %w", op, ctxErr(err))
	}
	defer stmt.Close()

	report, err := scanRun(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Report{}, fmt.Errorf("%s: %w", op, storage.ErrRunNotFound)
		}
		return models.Report{}, fmt.Errorf("%s: %w", op, ctxErr(err))
	}

	return report, nil
}

// Runs returns latest reports, newest first.
func (s *Storage) Runs(ctx context.Context, limit int) ([]models.Report, error) {
	const op = "storage.sqlite.Runs"

	stmt, err := s.db.PrepareContext(ctx, "SELECT id, path, found, propagated, skipped, created_at FROM runs ORDER BY id DESC LIMIT ?")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ctxErr(err))
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ctxErr(err))
	}
	defer rows.Close()

	res := make([]models.Report, 0, limit)
	for rows.Next() {
		report, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ctxErr(err))
	}

	return res, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (models.Report, error) {
	var (
		report     models.Report
		propagated string
		skipped    string
		createdAt  int64
	)

	if err := row.Scan(&report.ID, &report.Path, &report.Found, &propagated, &skipped, &createdAt); err != nil {
		return models.Report{}, err
	}

	report.Propagated = splitKeys(propagated)
	report.Skipped = splitKeys(skipped)
	report.CreatedAt = time.UnixMilli(createdAt)

	return report, nil
}

func splitKeys(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, keySeparator)
}

func ctxErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", storage.ErrContextCancelled, err)
	}
	return err
}
