package activities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fitpulse/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrActivityNotFound = errors.New("activity not found")

type ListParams struct {
	UserID string
	Type   ActivityType
	From   *time.Time
	To     *time.Time
	Page   int
	Size   int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, activity Activity) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	metadataJson, err := json.Marshal(activity.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO activity
				(user_id, type, name, quantity, metadata, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id;`,
		activity.UserID, activity.Type, activity.Name, activity.Quantity, metadataJson, activity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("activity.id", id))

	activity.ID = id
	return &activity, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, type, name, quantity, metadata, created_at
			FROM activity
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activitiesFound, err := r.rows2activities(rows)
	if err != nil {
		return nil, err
	}

	if len(activitiesFound) != 1 {
		return nil, ErrActivityNotFound
	}

	return &activitiesFound[0], nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM activity WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// List returns one page of a user's activities, newest first, plus the
// total count for that filter.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Activity, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", params.UserID))
	span.SetAttributes(attribute.String("type", string(params.Type)))
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	countAll, err := r.Count(ctx, params)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		limit = countAll
		offset = 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, type, name, quantity, metadata, created_at
			FROM activity
			WHERE user_id = $1
			AND ($2::text = '' OR type = $2)
			AND ($3::timestamp IS NULL OR created_at >= $3)
			AND ($4::timestamp IS NULL OR created_at <= $4)
			ORDER BY created_at DESC
			LIMIT $5
			OFFSET $6;`,
		params.UserID, string(params.Type),
		params.From, params.To,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	activitiesFound, err := r.rows2activities(rows)
	if err != nil {
		return nil, -1, err
	}
	return activitiesFound, countAll, nil
}

func (r *Repo) Count(ctx context.Context, params ListParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM activity
			WHERE user_id = $1
			AND ($2::text = '' OR type = $2)
			AND ($3::timestamp IS NULL OR created_at >= $3)
			AND ($4::timestamp IS NULL OR created_at <= $4);
	`,
		params.UserID, string(params.Type),
		params.From, params.To,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get activities count")
}

func (r *Repo) rows2activities(rows pgx.Rows) ([]Activity, error) {
	var found []Activity
	for rows.Next() {
		var id int
		var userID string
		var activityType string
		var name string
		var quantity int
		var metadataBytes []byte
		var createdAt time.Time
		if err := rows.Scan(&id, &userID, &activityType, &name, &quantity, &metadataBytes, &createdAt); err != nil {
			return nil, err
		}

		a := Activity{
			ID:        id,
			UserID:    userID,
			Type:      ActivityType(activityType),
			Name:      name,
			Quantity:  quantity,
			CreatedAt: createdAt,
		}

		if len(metadataBytes) > 0 {
			if err := json.Unmarshal(metadataBytes, &a.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata for activity %d: %w", id, err)
			}
		}

		found = append(found, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if found == nil {
		found = make([]Activity, 0)
	}

	return found, nil
}
