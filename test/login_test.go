package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func (s *IntegrationTestSuite) TestLoginLogout() {
	ctx := context.Background()

	token := doLogin(ctx, s.T())
	s.Require().NotEmpty(token)

	// logout with the received token
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/a/logout", serverEndpoint), nil)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-FITPULSE-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal("logged-out", string(respBytes))
}

func (s *IntegrationTestSuite) TestLogin_wrongCredentials() {
	ctx := context.Background()

	loginReqJson, err := json.Marshal(loginRequest{
		Username: testUsername,
		Password: "not-the-password",
	})
	s.Require().NoError(err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(loginReqJson))
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestRootAndVersion() {
	ctx := context.Background()

	req, err := http.NewRequestWithContext(ctx, "GET", serverEndpoint+"/", nil)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal("I'm OK, thanks ;)", string(respBytes))

	req, err = http.NewRequestWithContext(ctx, "GET", serverEndpoint+"/version", nil)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err = s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	respBytes, err = io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal("test-version-info", string(respBytes))
}
