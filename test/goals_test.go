package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fitpulse/backend/internal/goals"

	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) newGoalRequest(ctx context.Context, goal goals.Goal) goals.Goal {
	goalJson, err := json.Marshal(goal)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/goals", serverEndpoint),
		bytes.NewReader(goalJson),
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

	var added goals.Goal
	require.NoError(s.T(), json.Unmarshal(respBytes, &added))
	return added
}

func (s *IntegrationTestSuite) listGoalsRequest(ctx context.Context, userID string) goals.ListResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/goals/list/%s", serverEndpoint, userID),
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

	var listResp goals.ListResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &listResp))
	return listResp
}

func (s *IntegrationTestSuite) TestGoals_crud() {
	ctx := context.Background()
	userID := "goals-user-1"

	added := s.newGoalRequest(ctx, goals.Goal{
		UserID:      userID,
		Category:    "workout",
		Target:      4,
		Period:      "week",
		Description: "4 workouts per week",
	})
	s.Positive(added.ID)
	s.False(added.Achieved)

	listResp := s.listGoalsRequest(ctx, userID)
	s.Equal(1, listResp.Total)
	s.Require().Len(listResp.Goals, 1)
	s.Equal("workout", listResp.Goals[0].Category)

	// mark as achieved
	added.Achieved = true
	goalJson, err := json.Marshal(added)
	s.Require().NoError(err)

	req, err := http.NewRequestWithContext(
		ctx,
		"PUT", fmt.Sprintf("%s/goals", serverEndpoint),
		bytes.NewReader(goalJson),
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	resp.Body.Close()
	s.JSONEq(fmt.Sprintf(`{"updatedId":%d}`, added.ID), string(respBytes))

	listResp = s.listGoalsRequest(ctx, userID)
	s.Require().Len(listResp.Goals, 1)
	s.True(listResp.Goals[0].Achieved)

	// delete
	req, err = http.NewRequestWithContext(
		ctx,
		"DELETE", fmt.Sprintf("%s/goals/%d", serverEndpoint, added.ID),
		nil,
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)

	resp, err = s.httpClient.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	listResp = s.listGoalsRequest(ctx, userID)
	s.Equal(0, listResp.Total)
}

func (s *IntegrationTestSuite) TestGoals_updateUnknownGoal() {
	ctx := context.Background()

	req, err := http.NewRequestWithContext(
		ctx,
		"PUT", fmt.Sprintf("%s/goals", serverEndpoint),
		bytes.NewReader([]byte(`{"id":40400,"userId":"goals-user-x","category":"meal"}`)),
	)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", testAppSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}
