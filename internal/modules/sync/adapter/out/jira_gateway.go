package out

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ttrack/internal/modules/sync/domain"
	syncout "ttrack/internal/modules/sync/port/out"
	apperrors "ttrack/internal/platform/errors"
)

const jiraStartedLayout = "2006-01-02T15:04:05.000-0700"

// JiraGateway submits work logs to Jira Cloud REST v3. Authentication
// is basic auth with the account email and an API token.
type JiraGateway struct {
	domain string
	email  string
	token  string
	client *http.Client
}

func NewJiraGateway(jiraDomain, email, token string) (*JiraGateway, error) {
	if jiraDomain == "" || email == "" || token == "" {
		return nil, fmt.Errorf("jira domain, email and api token are required")
	}
	return &JiraGateway{
		domain: jiraDomain,
		email:  email,
		token:  token,
		client: &http.Client{},
	}, nil
}

var _ syncout.WorklogGateway = (*JiraGateway)(nil)

type worklogPayload struct {
	Comment          adfDoc `json:"comment"`
	Started          string `json:"started"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
}

type adfDoc struct {
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

type worklogResponse struct {
	ID string `json:"id"`
}

func (g *JiraGateway) Submit(ctx context.Context, submission domain.Submission) (string, error) {
	payload := worklogPayload{
		Comment: adfDoc{
			Type:    "doc",
			Version: 1,
			Content: []adfBlock{{
				Type:    "paragraph",
				Content: []adfText{{Type: "text", Text: submission.Comment}},
			}},
		},
		Started:          submission.Started.Format(jiraStartedLayout),
		TimeSpentSeconds: int64(submission.Worked / time.Second),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.NewRemoteError(apperrors.RemotePermanent, fmt.Errorf("encode worklog: %w", err))
	}

	url := fmt.Sprintf("https://%s/rest/api/3/issue/%s/worklog", g.domain, submission.Ticket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewRemoteError(apperrors.RemotePermanent, err)
	}
	req.SetBasicAuth(g.email, g.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// Timeouts and connection failures are retried on a later pass.
		return "", apperrors.NewRemoteError(apperrors.RemoteTransient, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperrors.NewRemoteError(apperrors.RemoteTransient, fmt.Errorf("read response: %w", err))
	}
	return classify(resp.StatusCode, respBody)
}

func classify(status int, body []byte) (string, error) {
	switch {
	case status == http.StatusCreated:
		var parsed worklogResponse
		if err := json.Unmarshal(body, &parsed); err != nil || parsed.ID == "" {
			return "", apperrors.NewRemoteError(apperrors.RemoteTransient, fmt.Errorf("worklog created but response had no id"))
		}
		return parsed.ID, nil
	case status == http.StatusConflict, alreadyLogged(body):
		return "", apperrors.NewRemoteError(apperrors.RemoteDuplicate, errors.New("worklog already recorded"))
	case status == http.StatusTooManyRequests, status >= 500:
		return "", apperrors.NewRemoteError(apperrors.RemoteTransient, httpError(status, body))
	default:
		return "", apperrors.NewRemoteError(apperrors.RemotePermanent, httpError(status, body))
	}
}

// alreadyLogged matches the duplicate-worklog signal in an error body.
func alreadyLogged(body []byte) bool {
	lower := strings.ToLower(string(body))
	return strings.Contains(lower, "worklog already exists") || strings.Contains(lower, "already logged")
}

func httpError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Errorf("jira returned %d: %s", status, msg)
}
