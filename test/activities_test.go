package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fitpulse/backend/internal/activities"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllActivities(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM activity")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) newActivityRequest(
	ctx context.Context,
	activity activities.Activity,
) activities.AddResult {
	activityJson, err := json.Marshal(activity)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/activities", serverEndpoint),
		bytes.NewReader(activityJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var addResult activities.AddResult
	require.NoError(s.T(), json.Unmarshal(respBytes, &addResult))

	return addResult
}

func (s *IntegrationTestSuite) listActivitiesRequest(
	ctx context.Context,
	userID string, page, size int,
) activities.ListResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf(
			"%s/activities/list/%s/page/%d/size/%d",
			serverEndpoint, userID, page, size,
		),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var listResp activities.ListResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &listResp))
	return listResp
}

func (s *IntegrationTestSuite) TestActivities_addFeedsGamification() {
	ctx := context.Background()
	userID := "act-user-1"

	addResult := s.newActivityRequest(ctx, activities.NewWorkoutActivity(userID, "morning run", 30))
	s.Require().NotNil(addResult.Activity)
	s.Positive(addResult.Activity.ID)
	s.Equal(userID, addResult.Activity.UserID)
	s.Equal(1, addResult.Streak)
	s.Contains(addResult.UnlockedBadges, "First Workout")

	// the workout landed in the gamification record too
	rec := s.getGamificationRecord(ctx, userID)
	s.Equal(1, rec.TotalWorkouts)
	s.Equal(50, rec.XP)

	// meals give no streak in the response
	addResult = s.newActivityRequest(ctx, activities.NewMealActivity(userID, "lunch", 650))
	s.Zero(addResult.Streak)
	s.Contains(addResult.UnlockedBadges, "First Meal")
}

func (s *IntegrationTestSuite) TestActivities_getListDelete() {
	ctx := context.Background()
	s.deleteAllActivities(ctx)
	userID := "act-user-2"

	added := s.newActivityRequest(ctx, activities.NewWaterActivity(userID, 250))
	s.Require().NotNil(added.Activity)

	// get
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/activities/%d", serverEndpoint, added.Activity.ID),
		nil,
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	resp.Body.Close()

	var gotActivity activities.Activity
	s.Require().NoError(json.Unmarshal(respBytes, &gotActivity))
	s.Equal(added.Activity.ID, gotActivity.ID)
	s.Equal(activities.TypeWater, gotActivity.Type)
	s.Equal(250, gotActivity.Quantity)

	// list
	listResp := s.listActivitiesRequest(ctx, userID, 1, 10)
	s.Equal(1, listResp.Total)
	s.Require().Len(listResp.Activities, 1)
	s.Equal(added.Activity.ID, listResp.Activities[0].ID)

	// delete
	req, err = http.NewRequestWithContext(
		ctx,
		"DELETE", fmt.Sprintf("%s/activities/%d", serverEndpoint, added.Activity.ID),
		nil,
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)

	resp, err = s.httpClient.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	respBytes, err = io.ReadAll(resp.Body)
	s.Require().NoError(err)
	resp.Body.Close()
	s.JSONEq(fmt.Sprintf(`{"deletedId":%d}`, added.Activity.ID), string(respBytes))

	listResp = s.listActivitiesRequest(ctx, userID, 1, 10)
	s.Equal(0, listResp.Total)
}

func (s *IntegrationTestSuite) TestActivities_listFilterByType() {
	ctx := context.Background()
	s.deleteAllActivities(ctx)
	userID := "act-user-3"

	s.newActivityRequest(ctx, activities.NewWorkoutActivity(userID, gofakeit.Word(), gofakeit.Number(10, 90)))
	s.newActivityRequest(ctx, activities.NewMealActivity(userID, gofakeit.Dinner(), gofakeit.Number(300, 1200)))
	s.newActivityRequest(ctx, activities.NewWaterActivity(userID, gofakeit.Number(100, 1000)))

	listResp := s.listActivitiesRequest(ctx, userID, 1, 10)
	s.Equal(3, listResp.Total)

	// filter by type via query param
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf(
			"%s/activities/list/%s/page/1/size/10?type=meal",
			serverEndpoint, userID,
		),
		nil,
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	resp.Body.Close()

	var listRespMeals activities.ListResponse
	s.Require().NoError(json.Unmarshal(respBytes, &listRespMeals))
	s.Equal(1, listRespMeals.Total)
	s.Require().Len(listRespMeals.Activities, 1)
	s.Equal(activities.TypeMeal, listRespMeals.Activities[0].Type)
}
