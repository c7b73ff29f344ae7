package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/skillcompass/skillcompass"
	"github.com/skillcompass/skillcompass/domain/catalog"
	"github.com/skillcompass/skillcompass/infrastructure/api"
	"github.com/skillcompass/skillcompass/infrastructure/api/v1/dto"
	"github.com/skillcompass/skillcompass/infrastructure/provider"
)

// fakeEmbedder returns a fixed-dimension vector derived from text length,
// so distinct texts stay comparable.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = []float64{float64(len(text)%7) + 1, float64(len(text)%5) + 1, 1}
	}
	return out, nil
}

// fakeGenerator returns a canned completion.
type fakeGenerator struct {
	response string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) ChatCompletion(context.Context, provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	return provider.NewChatCompletionResponse(f.response, "stop", provider.Usage{}), nil
}

const trajectoryJSON = `{"steps":[{"role":"Senior Engineer","description":"Deepen systems work","rationale":"Builds on current skills","estimated_months":18}]}`

func newTestServer(t *testing.T, gen *fakeGenerator, apiKeys []string) (*skillcompass.Client, *httptest.Server) {
	t.Helper()
	tmpDir := t.TempDir()

	client, err := skillcompass.New(
		skillcompass.WithSQLite(filepath.Join(tmpDir, "test.db")),
		skillcompass.WithDataDir(tmpDir),
		skillcompass.WithEmbedder(fakeEmbedder{}),
		skillcompass.WithPrimaryGenerator(gen),
	)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	server := httptest.NewServer(api.NewAPIServer(client, apiKeys).Handler())
	t.Cleanup(server.Close)
	return client, server
}

func doJSON(t *testing.T, method, url, apiKey string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-KEY", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func seedUser(t *testing.T, server *httptest.Server, apiKey string) int64 {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/users", apiKey, dto.CreateUserRequest{
		Name:        "Ada",
		Email:       "ada@example.com",
		CurrentRole: "Backend Engineer",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user: status = %d", resp.StatusCode)
	}
	created := decode[dto.Created](t, resp)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/users/%d/skills", server.URL, created.ID), apiKey, dto.AddSkillRequest{Name: "Go"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("add skill: status = %d", resp.StatusCode)
	}
	return created.ID
}

func TestHealth(t *testing.T) {
	_, server := newTestServer(t, &fakeGenerator{response: trajectoryJSON}, nil)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestCatalog_WriteProtection(t *testing.T) {
	_, server := newTestServer(t, &fakeGenerator{response: trajectoryJSON}, []string{"secret"})

	course := dto.CourseRequest{Name: "Advanced Go", Provider: "LearnCo", Category: "Programming"}

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/catalog/courses", "", course)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("create without key: status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/catalog/courses", "secret", course)
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("create with key: status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	// Reads stay open.
	listResp, err := http.Get(server.URL + "/api/v1/catalog/courses")
	if err != nil {
		t.Fatalf("list courses: %v", err)
	}
	defer listResp.Body.Close()
	if listResp.StatusCode != http.StatusOK {
		t.Errorf("list without key: status = %d, want %d", listResp.StatusCode, http.StatusOK)
	}
}

func TestCatalog_CourseLifecycle(t *testing.T) {
	_, server := newTestServer(t, &fakeGenerator{response: trajectoryJSON}, nil)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/catalog/courses", "", dto.CourseRequest{
		Name:          "Advanced Go",
		Provider:      "LearnCo",
		Description:   "Generics and concurrency",
		Category:      "Programming",
		Level:         "advanced",
		DurationHours: 12,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d", resp.StatusCode)
	}
	created := decode[dto.Created](t, resp)

	getResp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/catalog/courses/%d", server.URL, created.ID), "", nil)
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get: status = %d", getResp.StatusCode)
	}
	course := decode[dto.Course](t, getResp)
	if course.Name != "Advanced Go" || course.DurationHours != 12 {
		t.Errorf("get returned %+v", course)
	}

	updResp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/catalog/courses/%d", server.URL, created.ID), "", dto.CourseRequest{
		Name:     "Advanced Go",
		Provider: "LearnCo",
		Category: "Programming",
		Level:    "expert",
	})
	if updResp.StatusCode != http.StatusOK {
		t.Fatalf("update: status = %d", updResp.StatusCode)
	}
	updated := decode[dto.Course](t, updResp)
	if updated.Level != "expert" {
		t.Errorf("update level = %q, want expert", updated.Level)
	}

	delResp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/catalog/courses/%d", server.URL, created.ID), "", nil)
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status = %d", delResp.StatusCode)
	}

	missingResp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/catalog/courses/%d", server.URL, created.ID), "", nil)
	if missingResp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want %d", missingResp.StatusCode, http.StatusNotFound)
	}
}

func TestUsers_ProfileAssembly(t *testing.T) {
	_, server := newTestServer(t, &fakeGenerator{response: trajectoryJSON}, nil)
	userID := seedUser(t, server, "")

	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/users/%d/history", server.URL, userID), "", dto.AddHistoryRequest{
		Narrative:    "Built payment services",
		Achievements: "Cut processing latency in half",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("add history: status = %d", resp.StatusCode)
	}

	profResp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/users/%d/profile", server.URL, userID), "", nil)
	if profResp.StatusCode != http.StatusOK {
		t.Fatalf("profile: status = %d", profResp.StatusCode)
	}
	prof := decode[dto.Profile](t, profResp)
	if prof.CurrentRole != "Backend Engineer" {
		t.Errorf("current role = %q", prof.CurrentRole)
	}
	if len(prof.Skills) != 1 || prof.Skills[0] != "Go" {
		t.Errorf("skills = %v", prof.Skills)
	}
	if len(prof.History) != 1 {
		t.Errorf("history = %v", prof.History)
	}
}

func TestUsers_UnknownProfileIsNotFound(t *testing.T) {
	_, server := newTestServer(t, &fakeGenerator{response: trajectoryJSON}, nil)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/users/999/profile", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestRecommendations_TrajectoryCaches(t *testing.T) {
	_, server := newTestServer(t, &fakeGenerator{response: trajectoryJSON}, nil)
	userID := seedUser(t, server, "")

	url := fmt.Sprintf("%s/api/v1/recommendations/trajectory/%d", server.URL, userID)

	first := decode[dto.TrajectoryResponse](t, doJSON(t, http.MethodGet, url, "", nil))
	if first.FromCache {
		t.Error("first call should not be served from cache")
	}
	if len(first.Steps) != 1 || first.Steps[0].Role != "Senior Engineer" {
		t.Errorf("steps = %+v", first.Steps)
	}

	second := decode[dto.TrajectoryResponse](t, doJSON(t, http.MethodGet, url, "", nil))
	if !second.FromCache {
		t.Error("second call should be served from cache")
	}
}

func TestRecommendations_CacheInvalidation(t *testing.T) {
	_, server := newTestServer(t, &fakeGenerator{response: trajectoryJSON}, nil)
	userID := seedUser(t, server, "")

	url := fmt.Sprintf("%s/api/v1/recommendations/trajectory/%d", server.URL, userID)
	doJSON(t, http.MethodGet, url, "", nil)

	delResp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/recommendations/cache/%d", server.URL, userID), "", nil)
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("invalidate: status = %d", delResp.StatusCode)
	}

	after := decode[dto.TrajectoryResponse](t, doJSON(t, http.MethodGet, url, "", nil))
	if after.FromCache {
		t.Error("call after invalidation should not be served from cache")
	}
}

func TestRecommendations_CourseShortlist(t *testing.T) {
	client, server := newTestServer(t, &fakeGenerator{response: trajectoryJSON}, nil)
	userID := seedUser(t, server, "")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.Catalog.SaveCourse(ctx, courseFixture(i))
		if err != nil {
			t.Fatalf("seed course: %v", err)
		}
	}

	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/recommendations/shortlist/courses/%d?limit=2", server.URL, userID), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shortlist: status = %d", resp.StatusCode)
	}
	shortlist := decode[dto.CourseCertShortlistResponse](t, resp)
	if len(shortlist.Courses) != 2 {
		t.Errorf("courses = %d, want 2", len(shortlist.Courses))
	}
	for _, c := range shortlist.Courses {
		if c.Kind != "course" {
			t.Errorf("kind = %q, want course", c.Kind)
		}
	}
}

func courseFixture(i int) catalog.Course {
	return catalog.NewCourse(
		fmt.Sprintf("Course %d", i),
		"LearnCo",
		fmt.Sprintf("Description %d", i),
		"Programming",
		"intermediate",
		8+i,
	)
}

func TestRecommendations_UnknownUserIsNotFound(t *testing.T) {
	_, server := newTestServer(t, &fakeGenerator{response: trajectoryJSON}, nil)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/recommendations/trajectory/999", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
