package activities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitpulse/backend/internal/gamification"
	"github.com/fitpulse/backend/internal/telemetry/metrics"
	"github.com/fitpulse/backend/internal/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type activitiesRepo interface {
	Add(ctx context.Context, activity Activity) (*Activity, error)
	Get(ctx context.Context, id int) (*Activity, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, params ListParams) (_ []Activity, total int, err error)
}

type gamificationRecorder interface {
	RecordWorkout(ctx context.Context, userID string) (int, []gamification.Badge, error)
	RecordMeal(ctx context.Context, userID string) ([]gamification.Badge, error)
	RecordWater(ctx context.Context, userID string) ([]gamification.Badge, error)
}

// AddResult carries the saved activity plus the gamification feedback
// for the UI. Streak is set for workouts only.
type AddResult struct {
	Activity       *Activity `json:"activity"`
	Streak         int       `json:"streak,omitempty"`
	UnlockedBadges []string  `json:"unlockedBadges,omitempty"`
}

// Service saves activities and feeds the gamification engine. The two
// steps are failure-isolated: the activity save must succeed even when
// the gamification update fails - a broken streak counter must never
// lose a logged workout.
type Service struct {
	repo           activitiesRepo
	recorder       gamificationRecorder
	metricsManager *metrics.Manager
}

func NewService(
	repo activitiesRepo,
	recorder gamificationRecorder,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		recorder:       recorder,
		metricsManager: metricsManager,
	}
}

func (s *Service) Add(ctx context.Context, activity Activity) (_ *AddResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "activities.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !activity.Type.Valid() {
		return nil, fmt.Errorf("invalid activity type: %s", activity.Type)
	}
	if activity.UserID == "" {
		return nil, errors.New("user id empty")
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	added, err := s.repo.Add(ctx, activity)
	if err != nil {
		return nil, fmt.Errorf("add activity: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterActivities.With(
			prometheus.Labels{"category": string(added.Type)},
		).Inc()
	}

	result := &AddResult{Activity: added}

	var streak int
	var unlocked []gamification.Badge
	switch added.Type {
	case TypeWorkout:
		streak, unlocked, err = s.recorder.RecordWorkout(ctx, added.UserID)
	case TypeMeal:
		unlocked, err = s.recorder.RecordMeal(ctx, added.UserID)
	case TypeWater:
		unlocked, err = s.recorder.RecordWater(ctx, added.UserID)
	}
	if err != nil {
		// the activity is saved, only the bookkeeping failed - log and
		// count it, never fail the save
		log.Errorf("activity %d saved, gamification update failed for user %s: %s", added.ID, added.UserID, err)
		if s.metricsManager != nil {
			s.metricsManager.CounterGamificationFailures.Inc()
		}
		return result, nil
	}

	result.Streak = streak
	for _, b := range unlocked {
		result.UnlockedBadges = append(result.UnlockedBadges, b.DisplayName())
	}

	return result, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Activity, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Activity, int, error) {
	return s.repo.List(ctx, params)
}
