package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// StoredReport is an archived battle outcome. Body holds the full JSON outcome
// (duel or bracket) exactly as it was returned to the caller.
type StoredReport struct {
	ID        uuid.UUID       `json:"id"`
	TrainerID uuid.UUID       `json:"trainer_id"`
	Mode      Mode            `json:"mode"`
	Result    string          `json:"result"`
	Rounds    int             `json:"rounds"`
	Winner    string          `json:"winner,omitempty"`
	Body      json.RawMessage `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
}

type Archive interface {
	Save(ctx context.Context, r StoredReport) error
	Get(ctx context.Context, id uuid.UUID) (StoredReport, error)
	Recent(ctx context.Context, trainerID uuid.UUID, limit int) ([]StoredReport, error)
}

type pgArchive struct {
	db       *pgxpool.Pool
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewPostgresArchive stores reports in battle_reports. When cache is non-nil,
// single-report reads go through redis first.
func NewPostgresArchive(db *pgxpool.Pool, cache *redis.Client, cacheTTL time.Duration) Archive {
	return &pgArchive{db: db, cache: cache, cacheTTL: cacheTTL}
}

func (a *pgArchive) Save(ctx context.Context, r StoredReport) error {
	var winner *string
	if r.Winner != "" {
		winner = &r.Winner
	}
	_, err := a.db.Exec(ctx, `
INSERT INTO battle_reports (id, trainer_id, mode, result, rounds, winner, body, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, r.ID, r.TrainerID, string(r.Mode), r.Result, r.Rounds, winner, []byte(r.Body), r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert battle report: %w", err)
	}
	return nil
}

func (a *pgArchive) Get(ctx context.Context, id uuid.UUID) (StoredReport, error) {
	key := reportCacheKey(id)
	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, key).Bytes(); err == nil {
			var r StoredReport
			if uErr := json.Unmarshal(cached, &r); uErr == nil {
				return r, nil
			}
		}
	}

	row := a.db.QueryRow(ctx, `
SELECT id, trainer_id, mode, result, rounds, COALESCE(winner, ''), body, created_at
FROM battle_reports WHERE id = $1
`, id)
	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StoredReport{}, ErrNotFound
		}
		return StoredReport{}, fmt.Errorf("query battle report: %w", err)
	}

	if a.cache != nil {
		if b, mErr := json.Marshal(r); mErr == nil {
			_ = a.cache.Set(ctx, key, b, a.cacheTTL).Err()
		}
	}
	return r, nil
}

func (a *pgArchive) Recent(ctx context.Context, trainerID uuid.UUID, limit int) ([]StoredReport, error) {
	rows, err := a.db.Query(ctx, `
SELECT id, trainer_id, mode, result, rounds, COALESCE(winner, ''), body, created_at
FROM battle_reports WHERE trainer_id = $1
ORDER BY created_at DESC LIMIT $2
`, trainerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query battle reports: %w", err)
	}
	defer rows.Close()

	reports := make([]StoredReport, 0, limit)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan battle report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate battle reports: %w", err)
	}
	return reports, nil
}

func scanReport(row pgx.Row) (StoredReport, error) {
	var r StoredReport
	var mode string
	var body []byte
	if err := row.Scan(&r.ID, &r.TrainerID, &mode, &r.Result, &r.Rounds, &r.Winner, &body, &r.CreatedAt); err != nil {
		return StoredReport{}, err
	}
	r.Mode = Mode(mode)
	r.Body = body
	return r, nil
}

func reportCacheKey(id uuid.UUID) string {
	return "arena:report:" + id.String()
}
