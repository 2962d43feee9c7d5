package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
)

func (s *E2ETestSuite) request(method, path string, body interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.baseURL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if s.authorToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authorToken)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *E2ETestSuite) Test01_Health() {
	resp := s.request(http.MethodGet, "/health", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) Test10_CreateActivity() {
	resp := s.request(http.MethodPost, "/v1/activity", map[string]interface{}{
		"component":  "activity",
		"type":       "activity_update",
		"content":    "e2e post",
		"visibility": "public",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var out struct {
		ID int `json:"id"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	s.Positive(out.ID)
	s.createdID = out.ID
}

func (s *E2ETestSuite) Test11_CreateActivity_ExistingID() {
	resp := s.request(http.MethodPost, "/v1/activity", map[string]interface{}{"id": 1, "content": "dup"})
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *E2ETestSuite) Test12_GetActivity() {
	s.Require().NotZero(s.createdID)
	resp := s.request(http.MethodGet, "/v1/activity/"+strconv.Itoa(s.createdID), nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var items []map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&items))
	s.Require().Len(items, 1)
	s.Equal(float64(s.createdID), items[0]["id"])
	s.Equal("published", items[0]["status"])
}

func (s *E2ETestSuite) Test13_ListActivities() {
	resp := s.request(http.MethodGet, "/v1/activity?author=1&per_page=5", nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var items []map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&items))
	s.NotEmpty(items)
	s.LessOrEqual(len(items), 5)
}

func (s *E2ETestSuite) Test14_ListActivities_InvalidStatus() {
	resp := s.request(http.MethodGet, "/v1/activity?status=trash", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test15_GetActivity_NotFound() {
	resp := s.request(http.MethodGet, "/v1/activity/999999999", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *E2ETestSuite) Test20_TagTypes_Group() {
	resp := s.request(http.MethodGet, "/v1/types?scope=group", nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var items []map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&items))
	s.Equal([]map[string]string{{"type": "tag_zaji", "name": "杂记"}}, items)
}
