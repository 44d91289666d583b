package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fitpulse/backend/internal/gamification"
)

func (s *IntegrationTestSuite) recordActivityRequest(
	ctx context.Context,
	userID, category string,
) gamification.RecordActivityResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/gamification/%s/%s", serverEndpoint, userID, category),
		nil,
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var recordResp gamification.RecordActivityResponse
	s.Require().NoError(json.Unmarshal(respBytes, &recordResp))
	return recordResp
}

func (s *IntegrationTestSuite) getGamificationRecord(ctx context.Context, userID string) gamification.Record {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/gamification/%s", serverEndpoint, userID),
		nil,
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var rec gamification.Record
	s.Require().NoError(json.Unmarshal(respBytes, &rec))
	return rec
}

func (s *IntegrationTestSuite) TestGamification_workoutFlow() {
	ctx := context.Background()
	userID := "gm-user-workouts"

	recordResp := s.recordActivityRequest(ctx, userID, "workout")
	s.Equal(1, recordResp.Streak)
	s.Contains(recordResp.UnlockedBadges, "First Workout")
	// record created moments ago
	s.Contains(recordResp.UnlockedBadges, "Quick Start")

	// second workout on the same day: streak unchanged, first-workout
	// badge not awarded again
	recordResp = s.recordActivityRequest(ctx, userID, "workout")
	s.Equal(1, recordResp.Streak)
	s.NotContains(recordResp.UnlockedBadges, "First Workout")
	s.Contains(recordResp.UnlockedBadges, "Double Log")

	rec := s.getGamificationRecord(ctx, userID)
	s.Equal(userID, rec.UserID)
	s.Equal(100, rec.XP)
	s.Equal("Bronze", rec.LevelName)
	s.Equal(2, rec.TotalWorkouts)
	s.Equal(1, rec.Streaks[gamification.CategoryWorkout])
	s.Contains(rec.Badges, gamification.BadgeFirstWorkout)
	s.Contains(rec.Badges, gamification.BadgeDoubleLog)
}

func (s *IntegrationTestSuite) TestGamification_waterBadges() {
	ctx := context.Background()
	userID := "gm-user-water"

	recordResp := s.recordActivityRequest(ctx, userID, "water")
	s.Contains(recordResp.UnlockedBadges, "First Sip")

	s.recordActivityRequest(ctx, userID, "water")
	recordResp = s.recordActivityRequest(ctx, userID, "water")
	s.Contains(recordResp.UnlockedBadges, "Hydration Hero")

	rec := s.getGamificationRecord(ctx, userID)
	s.Equal(3, rec.TotalWater)
	s.Equal(15, rec.XP)
	s.Contains(rec.Badges, gamification.BadgeHydrationHero)
}

func (s *IntegrationTestSuite) TestGamification_mealXP() {
	ctx := context.Background()
	userID := "gm-user-meals"

	recordResp := s.recordActivityRequest(ctx, userID, "meal")
	s.Contains(recordResp.UnlockedBadges, "First Meal")

	rec := s.getGamificationRecord(ctx, userID)
	s.Equal(1, rec.TotalMeals)
	s.Equal(15, rec.XP)
	s.Equal("Bronze", rec.LevelName)
}

func (s *IntegrationTestSuite) TestGamification_unknownUserZeroRecord() {
	ctx := context.Background()

	rec := s.getGamificationRecord(ctx, "gm-user-never-seen")
	s.Equal(0, rec.XP)
	s.Equal("Bronze", rec.LevelName)
	s.Empty(rec.Badges)
}

func (s *IntegrationTestSuite) TestGamification_badgesCatalog() {
	ctx := context.Background()

	req, err := http.NewRequestWithContext(
		ctx,
		"GET", serverEndpoint+"/gamification/badges/catalog",
		nil,
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var catalog []gamification.CatalogEntry
	s.Require().NoError(json.Unmarshal(respBytes, &catalog))
	s.Len(catalog, 14)
	s.Equal(gamification.BadgeFirstWorkout, catalog[0].Key)
	s.Equal("First Workout", catalog[0].DisplayName)
}

func (s *IntegrationTestSuite) TestGamification_requiresAppSecret() {
	ctx := context.Background()

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", serverEndpoint+"/gamification/some-user/workout",
		nil,
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", "wrong-secret")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
