package gamification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fitpulse/backend/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/codes"
)

var ErrRecordNotFound = errors.New("gamification record not found")

const (
	recordKeyPrefix = "gamification||"
	badgesKeyPrefix = "gamification-badges||"
)

// storage field mapping per category - keeps the category enumeration
// central instead of constructing field names at call sites
func counterField(cat Category) string {
	return "total_" + string(cat) + "s"
}

func streakField(cat Category) string {
	return "streak_" + string(cat)
}

func lastActivityField(cat Category) string {
	return "last_" + string(cat)
}

// Repo keeps one redis hash per user with the XP, level, streak and
// counter fields, plus a separate set holding the unlocked badge keys.
// Lifetime counters and XP use HINCRBY, so they are safe under
// concurrent writers; streak updates stay read-then-write (see Service).
type Repo struct {
	redisClient *redis.Client
}

func NewRepo(redisClient *redis.Client) *Repo {
	return &Repo{
		redisClient: redisClient,
	}
}

func recordKey(userID string) string {
	return recordKeyPrefix + userID
}

func badgesKey(userID string) string {
	return badgesKeyPrefix + userID
}

func (r *Repo) Get(ctx context.Context, userID string) (*Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamificationRepo.get")
	defer span.End()

	fields, err := r.redisClient.HGetAll(ctx, recordKey(userID)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("get record fields: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrRecordNotFound
	}

	badgeKeys, err := r.redisClient.SMembers(ctx, badgesKey(userID)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("get record badges: %w", err)
	}

	rec := recordFromFields(userID, fields)
	for _, key := range badgeKeys {
		rec.Badges = append(rec.Badges, Badge(key))
	}

	return rec, nil
}

// Create sets the zero-valued defaults for a new record. All writes use
// HSETNX, so calling it for an existing record changes nothing.
func (r *Repo) Create(ctx context.Context, userID string, createdAt time.Time) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamificationRepo.create")
	defer span.End()

	key := recordKey(userID)
	pipe := r.redisClient.TxPipeline()
	pipe.HSetNX(ctx, key, "xp", 0)
	pipe.HSetNX(ctx, key, "level_name", LevelFromXP(0))
	pipe.HSetNX(ctx, key, "created_at", createdAt.Unix())
	pipe.HSetNX(ctx, key, "updated_at", createdAt.Unix())
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create record: %w", err)
	}

	return nil
}

// IncrementCounter bumps the lifetime counter for the category by one
// and returns the new value.
func (r *Repo) IncrementCounter(ctx context.Context, userID string, cat Category) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamificationRepo.incrementCounter")
	defer span.End()

	total, err := r.redisClient.HIncrBy(ctx, recordKey(userID), counterField(cat), 1).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("increment %s counter: %w", cat, err)
	}

	return int(total), nil
}

func (r *Repo) SetStreak(ctx context.Context, userID string, cat Category, streak int, day string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamificationRepo.setStreak")
	defer span.End()

	err := r.redisClient.HSet(ctx, recordKey(userID),
		streakField(cat), streak,
		lastActivityField(cat), day,
	).Err()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("set %s streak: %w", cat, err)
	}

	return nil
}

// AwardXP adds the amount to the stored XP, recomputes the level from
// the new total and persists both, together with the updated-at stamp.
func (r *Repo) AwardXP(ctx context.Context, userID string, amount int, now time.Time) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamificationRepo.awardXP")
	defer span.End()

	key := recordKey(userID)
	newXP, err := r.redisClient.HIncrBy(ctx, key, "xp", int64(amount)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("increment xp: %w", err)
	}

	err = r.redisClient.HSet(ctx, key,
		"level_name", LevelFromXP(int(newXP)),
		"updated_at", now.Unix(),
	).Err()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("set level: %w", err)
	}

	return int(newXP), nil
}

func (r *Repo) AddBadges(ctx context.Context, userID string, badges []Badge) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamificationRepo.addBadges")
	defer span.End()

	if len(badges) == 0 {
		return nil
	}

	members := make([]interface{}, 0, len(badges))
	for _, b := range badges {
		members = append(members, string(b))
	}

	if err := r.redisClient.SAdd(ctx, badgesKey(userID), members...).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("add badges: %w", err)
	}

	return nil
}

// recordFromFields is lenient on purpose: absent or malformed fields
// come back as zero values, so old records keep working as new fields
// are added.
func recordFromFields(userID string, fields map[string]string) *Record {
	rec := NewRecord(userID, time.Time{})
	rec.XP = intField(fields, "xp")
	rec.LevelName = LevelFromXP(rec.XP)
	rec.TotalWorkouts = intField(fields, counterField(CategoryWorkout))
	rec.TotalMeals = intField(fields, counterField(CategoryMeal))
	rec.TotalWater = intField(fields, counterField(CategoryWater))
	rec.CreatedAt = timeField(fields, "created_at")
	rec.UpdatedAt = timeField(fields, "updated_at")

	for _, cat := range []Category{CategoryWorkout, CategoryMeal, CategoryWater} {
		if streak := intField(fields, streakField(cat)); streak > 0 {
			rec.Streaks[cat] = streak
		}
		if day := fields[lastActivityField(cat)]; day != "" {
			rec.LastActivity[cat] = day
		}
	}

	return rec
}

func intField(fields map[string]string, name string) int {
	value, err := strconv.Atoi(fields[name])
	if err != nil {
		return 0
	}
	return value
}

func timeField(fields map[string]string, name string) time.Time {
	unix, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}
