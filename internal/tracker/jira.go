package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fot-analytics-api/internal/config"
)

// Issue - созданная задача трекера
type Issue struct {
	Key string
	URL string
}

// RemoteError - ошибка удалённого трекера с деталями HTTP-статуса
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("jira api error: %d - %s", e.StatusCode, e.Body)
}

// ErrNotConfigured возвращается, когда учётные данные Jira не заданы
var ErrNotConfigured = errors.New("jira credentials are not configured")

// Client определяет контракт внешнего трекера задач
type Client interface {
	CreateIssue(ctx context.Context, projectKey, issueType, summary, description string) (*Issue, error)
}

type jiraClient struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
}

// NewJiraClient создаёт клиент Jira REST API v3
func NewJiraClient(cfg config.JiraConfig) Client {
	return &jiraClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		email:      cfg.Email,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Формат описания Atlassian Document Format, требуемый API v3
type issuePayload struct {
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Project     issueProject   `json:"project"`
	Summary     string         `json:"summary"`
	Description adfDocument    `json:"description"`
	IssueType   issueTypeField `json:"issuetype"`
}

type issueProject struct {
	Key string `json:"key"`
}

type issueTypeField struct {
	Name string `json:"name"`
}

type adfDocument struct {
	Type    string     `json:"type"`
	Version int        `json:"version"`
	Content []adfBlock `json:"content"`
}

type adfBlock struct {
	Type    string    `json:"type"`
	Content []adfText `json:"content"`
}

type adfText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type issueCreated struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

func (c *jiraClient) CreateIssue(ctx context.Context, projectKey, kind, summary, description string) (*Issue, error) {
	if c.email == "" || c.apiToken == "" {
		return nil, ErrNotConfigured
	}

	payload := issuePayload{
		Fields: issueFields{
			Project: issueProject{Key: projectKey},
			Summary: summary,
			Description: adfDocument{
				Type:    "doc",
				Version: 1,
				Content: []adfBlock{{
					Type:    "paragraph",
					Content: []adfText{{Type: "text", Text: description}},
				}},
			},
			IssueType: issueTypeField{Name: kind},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/api/3/issue", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var created issueCreated
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, err
	}

	return &Issue{
		Key: created.Key,
		URL: fmt.Sprintf("%s/browse/%s", c.baseURL, created.Key),
	}, nil
}
