package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maribelle/cosgo/internal/api"
	"github.com/maribelle/cosgo/internal/markdown"
	"github.com/maribelle/cosgo/internal/models"
	"github.com/maribelle/cosgo/internal/pageservice"
	"github.com/maribelle/cosgo/internal/testutil"
)

func testAPI(t *testing.T, seed []models.Page, authEnabled bool, token string) (*httptest.Server, *testutil.FakeCosense) {
	t.Helper()
	fake := testutil.NewFakeCosense(t, seed)
	svc := pageservice.NewService(fake.Client(), markdown.Passthrough{})
	srv := httptest.NewServer(api.NewRouter(svc, testutil.Project, authEnabled, token))
	t.Cleanup(srv.Close)
	return srv, fake
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
}

func TestListPagesEndpoint(t *testing.T) {
	srv, _ := testAPI(t, []models.Page{
		testutil.Detail("First", 2000, 2000, "First"),
		testutil.Detail("Second", 1000, 1000, "Second"),
	}, false, "")

	var got models.ListResult
	getJSON(t, srv.URL+"/pages?sort=created&limit=10", http.StatusOK, &got)

	if got.ProjectName != testutil.Project {
		t.Errorf("project = %q", got.ProjectName)
	}
	if len(got.Pages) != 2 || got.Pages[0].Title != "First" {
		t.Errorf("pages = %+v", got.Pages)
	}
}

func TestListPagesEndpointValidation(t *testing.T) {
	srv, _ := testAPI(t, nil, false, "")

	getJSON(t, srv.URL+"/pages?sort=bogus", http.StatusBadRequest, nil)
	getJSON(t, srv.URL+"/pages?limit=5000", http.StatusBadRequest, nil)
	getJSON(t, srv.URL+"/pages?skip=-1", http.StatusBadRequest, nil)
}

func TestGetPageEndpoint(t *testing.T) {
	srv, _ := testAPI(t, []models.Page{
		testutil.Detail("My page", 1000, 2000, "My page", "content"),
	}, false, "")

	var got models.Page
	getJSON(t, srv.URL+"/pages/My%20page", http.StatusOK, &got)
	if got.Title != "My page" || len(got.Lines) != 2 {
		t.Errorf("page = %+v", got)
	}
}

func TestGetPageEndpointNotFound(t *testing.T) {
	srv, _ := testAPI(t, nil, false, "")
	getJSON(t, srv.URL+"/pages/missing", http.StatusNotFound, nil)
}

func TestCreatePageEndpoint(t *testing.T) {
	srv, fake := testAPI(t, nil, false, "")

	body := strings.NewReader(`{"title":"New page","body":"hello"}`)
	resp, err := http.Post(srv.URL+"/pages", "application/json", body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var got api.CreatePageResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := fake.URL() + "/" + testutil.Project + "/New%20page?body=hello"
	if got.URL != want {
		t.Errorf("url = %q, want %q", got.URL, want)
	}
}

func TestCreatePageEndpointRequiresTitle(t *testing.T) {
	srv, _ := testAPI(t, nil, false, "")

	resp, err := http.Post(srv.URL+"/pages", "application/json", strings.NewReader(`{"body":"x"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv, fake := testAPI(t, nil, false, "")
	fake.SearchResult = map[string]any{
		"query":   map[string]any{"words": []string{"widget"}, "excludes": []string{}},
		"limit":   100,
		"count":   1,
		"backend": "elasticsearch",
		"pages":   []map[string]any{{"id": "p1", "title": "Widget guide"}},
	}

	var got models.SearchResult
	getJSON(t, srv.URL+"/search?q=widget", http.StatusOK, &got)
	if got.Count != 1 || len(got.Pages) != 1 || got.Pages[0].Title != "Widget guide" {
		t.Errorf("result = %+v", got)
	}
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	srv, _ := testAPI(t, nil, false, "")
	getJSON(t, srv.URL+"/search", http.StatusBadRequest, nil)
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := testAPI(t, nil, true, "secret")

	resp, err := http.Get(srv.URL + "/pages")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without a token", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/pages", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 with the token", resp.StatusCode)
	}

	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 with a bad token", resp.StatusCode)
	}
}
