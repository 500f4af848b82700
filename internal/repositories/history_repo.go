package repositories

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prospectlab/prospect/internal/database"
	"github.com/prospectlab/prospect/internal/models"
)

type HistoryRepository struct {
	pool *pgxpool.Pool
}

func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{pool: db.Pool}
}

// scanHistoryRow populates a HistoryEntry model from a database row
func scanHistoryRow(scanner rowScanner) (*models.HistoryEntry, error) {
	var entry models.HistoryEntry
	var source string

	err := scanner.Scan(&entry.ID, &entry.UserID, &entry.Query, &source, &entry.Date)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	entry.Source = models.Source(source)
	return &entry, nil
}

func (r *HistoryRepository) Create(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}

	query := `
		INSERT INTO history (id, user_id, query, source, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, query, source, date
	`

	created, err := scanHistoryRow(r.pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.Query, string(entry.Source), entry.Date,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *HistoryRepository) GetByID(ctx context.Context, userID, id string) (*models.HistoryEntry, error) {
	query := `
		SELECT id, user_id, query, source, date
		FROM history WHERE id = $1 AND user_id = $2
	`

	entry, err := scanHistoryRow(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// List returns one page of a user's history, newest first. The cursor is
// opaque to callers; an empty cursor starts from the top. The returned page
// carries the cursor for the next fetch, empty when exhausted.
func (r *HistoryRepository) List(ctx context.Context, userID, cursor string, limit int) (*models.HistoryPage, error) {
	args := []any{userID, limit + 1}
	query := `
		SELECT id, user_id, query, source, date
		FROM history WHERE user_id = $1
	`

	if cursor != "" {
		date, id, err := decodeCursor(cursor)
		if err != nil {
			return nil, models.ErrBadRequest
		}
		query += ` AND (date, id) < ($3, $4)`
		args = append(args, date, id)
	}

	query += ` ORDER BY date DESC, id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.HistoryEntry, 0, limit)
	for rows.Next() {
		entry, err := scanHistoryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	page := &models.HistoryPage{Items: entries}
	if len(entries) > limit {
		last := entries[limit-1]
		page.Items = entries[:limit]
		page.NextCursor = encodeCursor(last.Date, last.ID)
	}

	return page, nil
}

// Delete removes the given entries, scoped to the owning user. Ids belonging
// to other users are silently skipped.
func (r *HistoryRepository) Delete(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM history WHERE user_id = $1 AND id = ANY($2)`

	result, err := r.pool.Exec(ctx, query, userID, ids)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}

func encodeCursor(date time.Time, id string) string {
	raw := strconv.FormatInt(date.UnixMicro(), 10) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor: %w", err)
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid cursor format")
	}

	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor timestamp: %w", err)
	}

	return time.UnixMicro(micros), parts[1], nil
}
