package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fitpulse/backend/internal/telemetry/metrics"
	"github.com/fitpulse/backend/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	recordCacheExpireSeconds = 60
	recordCacheKeyPrefix     = "record::"
)

type store interface {
	Get(ctx context.Context, userID string) (*Record, error)
	Create(ctx context.Context, userID string, createdAt time.Time) error
	IncrementCounter(ctx context.Context, userID string, cat Category) (int, error)
	SetStreak(ctx context.Context, userID string, cat Category, streak int, day string) error
	AwardXP(ctx context.Context, userID string, amount int, now time.Time) (int, error)
	AddBadges(ctx context.Context, userID string, badges []Badge) error
}

// Service orchestrates one activity event: ensure record, bump the
// lifetime counter, update the streak, award XP, evaluate badges.
// Counters and XP are atomic increments at the store; streak and badge
// evaluation are read-then-write, so two devices logging for the same
// user at the same moment can lose one streak update. Accepted for
// realistic single-device usage.
type Service struct {
	repo           store
	cache          *freecache.Cache
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(repo store, metricsManager *metrics.Manager) *Service {
	megabyte := 1024 * 1024
	return &Service{
		repo:           repo,
		cache:          freecache.NewCache(10 * megabyte),
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// Ensure creates a zero-valued record if the user has none. Idempotent.
func (s *Service) Ensure(ctx context.Context, userID string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamification.ensure")
	defer span.End()

	_, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrRecordNotFound) {
		return s.repo.Create(ctx, userID, s.now())
	}
	return err
}

// RecordWorkout also returns the updated workout streak, shown to the
// user right after saving a workout.
func (s *Service) RecordWorkout(ctx context.Context, userID string) (streak int, unlocked []Badge, err error) {
	rec, unlocked, err := s.record(ctx, userID, CategoryWorkout)
	if err != nil {
		return 0, nil, err
	}
	return rec.Streaks[CategoryWorkout], unlocked, nil
}

func (s *Service) RecordMeal(ctx context.Context, userID string) ([]Badge, error) {
	_, unlocked, err := s.record(ctx, userID, CategoryMeal)
	return unlocked, err
}

func (s *Service) RecordWater(ctx context.Context, userID string) ([]Badge, error) {
	_, unlocked, err := s.record(ctx, userID, CategoryWater)
	return unlocked, err
}

func (s *Service) record(ctx context.Context, userID string, cat Category) (rec *Record, unlocked []Badge, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamification.record")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	now := s.now()

	rec, err = s.repo.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		if err = s.repo.Create(ctx, userID, now); err != nil {
			return nil, nil, fmt.Errorf("create record: %w", err)
		}
		rec = NewRecord(userID, now)
	case err != nil:
		return nil, nil, fmt.Errorf("get record: %w", err)
	}

	total, err := s.repo.IncrementCounter(ctx, userID, cat)
	if err != nil {
		return nil, nil, err
	}
	rec.SetTotal(cat, total)

	today := now.Format(dayFormat)
	streak := NextStreak(rec.Streaks[cat], rec.LastActivity[cat], today)
	if err = s.repo.SetStreak(ctx, userID, cat, streak, today); err != nil {
		return nil, nil, err
	}
	rec.Streaks[cat] = streak
	rec.LastActivity[cat] = today

	newXP, err := s.repo.AwardXP(ctx, userID, XPReward(cat), now)
	if err != nil {
		return nil, nil, err
	}
	rec.XP = newXP
	rec.LevelName = LevelFromXP(newXP)

	unlocked = EvaluateBadges(rec, cat, now)
	if len(unlocked) > 0 {
		if err = s.repo.AddBadges(ctx, userID, unlocked); err != nil {
			return nil, nil, err
		}
		rec.Badges = append(rec.Badges, unlocked...)
		if s.metricsManager != nil {
			s.metricsManager.CounterBadgesUnlocked.Add(float64(len(unlocked)))
		}
		log.Debugf("user %s unlocked %d badge(s) on %s", userID, len(unlocked), cat)
	}

	rec.UpdatedAt = now

	s.cache.Del([]byte(recordCacheKeyPrefix + userID))

	return rec, unlocked, nil
}

// Read returns the current record for presentation. A user with no
// activity yet gets a zero-valued record instead of an error.
func (s *Service) Read(ctx context.Context, userID string) (*Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamification.read")
	defer span.End()

	cacheKey := recordCacheKeyPrefix + userID
	if cachedBytes, err := s.cache.Get([]byte(cacheKey)); err == nil {
		cachedRec := &Record{}
		if err := json.Unmarshal(cachedBytes, cachedRec); err == nil {
			return cachedRec, nil
		}
		log.Errorf("failed to unmarshal cached record for %s: %s", userID, err)
	}

	rec, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrRecordNotFound) {
		return NewRecord(userID, time.Time{}), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if recBytes, err := json.Marshal(rec); err == nil {
		if err := s.cache.Set([]byte(cacheKey), recBytes, recordCacheExpireSeconds); err != nil {
			log.Errorf("failed to write record cache for %s: %s", userID, err)
		}
	}

	return rec, nil
}
