package store

import (
	"context"
	"database/sql"
	"time"

	"partscout-engine/internal/domain"
)

func InsertJob(ctx context.Context, db *sql.DB, retailer string) (int64, error) {
	res, err := db.ExecContext(ctx, `
INSERT INTO scrape_jobs(retailer, status, started_at)
VALUES(?,?,?);`,
		retailer, string(domain.JobRunning), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishJob seals a job row: terminal status, final counters, completion
// time. Completed jobs are never touched again.
func FinishJob(ctx context.Context, db *sql.DB, id int64, status domain.JobStatus, scraped, updated, failed int, errText string) error {
	_, err := db.ExecContext(ctx, `
UPDATE scrape_jobs
SET status = ?, items_scraped = ?, items_updated = ?, items_failed = ?,
    error = ?, completed_at = ?
WHERE id = ?;`,
		string(status), scraped, updated, failed, errText,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	return err
}

func GetJob(ctx context.Context, db *sql.DB, id int64) (*domain.ScrapeJob, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, retailer, status, items_scraped, items_updated, items_failed, error, started_at, completed_at
FROM scrape_jobs WHERE id = ?;`, id)
	return scanJob(row)
}

// ListJobs returns the most recent jobs, optionally for one retailer.
func ListJobs(ctx context.Context, db *sql.DB, retailer string, limit int) ([]domain.ScrapeJob, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := `
SELECT id, retailer, status, items_scraped, items_updated, items_failed, error, started_at, completed_at
FROM scrape_jobs`
	var args []any
	if retailer != "" {
		query += ` WHERE retailer = ?`
		args = append(args, retailer)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?;`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScrapeJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

func scanJob(r rowScanner) (*domain.ScrapeJob, error) {
	var j domain.ScrapeJob
	var status, started string
	var completed sql.NullString
	if err := r.Scan(&j.ID, &j.Retailer, &status, &j.ItemsScraped, &j.ItemsUpdated,
		&j.ItemsFailed, &j.Error, &started, &completed); err != nil {
		return nil, err
	}
	j.Status = domain.JobStatus(status)
	j.StartedAt, _ = time.Parse(time.RFC3339, started)
	if completed.Valid {
		t, _ := time.Parse(time.RFC3339, completed.String)
		j.CompletedAt = &t
	}
	return &j, nil
}
