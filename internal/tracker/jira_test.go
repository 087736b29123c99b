package tracker_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fot-analytics-api/internal/config"
	"github.com/fot-analytics-api/internal/tracker"
)

func newTestClient(baseURL string) tracker.Client {
	return tracker.NewJiraClient(config.JiraConfig{
		BaseURL:  baseURL,
		Email:    "bot@example.com",
		APIToken: "token",
		Timeout:  5 * time.Second,
	})
}

func TestCreateIssue_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, token, _ := r.BasicAuth()
		gotAuth = token
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "10001", "key": "FOT-42"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	issue, err := client.CreateIssue(context.Background(), "FOT", "Task", "Проверить оклад", "Описание")
	if err != nil {
		t.Fatalf("CreateIssue failed: %v", err)
	}

	if gotPath != "/rest/api/3/issue" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotAuth != "token" {
		t.Errorf("expected basic auth token, got %q", gotAuth)
	}

	fields, ok := gotBody["fields"].(map[string]any)
	if !ok {
		t.Fatalf("expected fields object, got %v", gotBody)
	}
	if fields["summary"] != "Проверить оклад" {
		t.Errorf("unexpected summary: %v", fields["summary"])
	}
	// Описание передаётся в формате Atlassian Document Format
	desc, ok := fields["description"].(map[string]any)
	if !ok || desc["type"] != "doc" {
		t.Errorf("expected adf description, got %v", fields["description"])
	}

	if issue.Key != "FOT-42" {
		t.Errorf("expected key FOT-42, got %s", issue.Key)
	}
	if issue.URL != server.URL+"/browse/FOT-42" {
		t.Errorf("unexpected issue url: %s", issue.URL)
	}
}

func TestCreateIssue_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessages":["project is required"]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateIssue(context.Background(), "", "Task", "s", "d")
	if err == nil {
		t.Fatal("expected error")
	}

	var remoteErr *tracker.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %T: %v", err, err)
	}
	if remoteErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", remoteErr.StatusCode)
	}
}

func TestCreateIssue_NotConfigured(t *testing.T) {
	client := tracker.NewJiraClient(config.JiraConfig{BaseURL: "https://jira.example.com"})

	_, err := client.CreateIssue(context.Background(), "FOT", "Task", "s", "d")
	if !errors.Is(err, tracker.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
