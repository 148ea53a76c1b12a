package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/models"
)

// LogsAPI groups the daily log routes
type LogsAPI struct{ c *Client }

// Create stores a daily log for the given student
func (l LogsAPI) Create(ctx context.Context, studentID int, log models.DailyLog) (models.DailyLog, error) {
	log.StudentID = studentID
	log.ID = 0
	return doJSON[models.DailyLog](ctx, l.c, http.MethodPost, "/log-daily", nil, log)
}

// List returns up to limit logs, newest first. A non-positive limit uses the default.
func (l LogsAPI) List(ctx context.Context, studentID, limit int) ([]models.DailyLog, error) {
	if limit <= 0 {
		limit = constants.DefaultLogsLimit
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	return doJSON[[]models.DailyLog](ctx, l.c, http.MethodGet, fmt.Sprintf("/logs/%d", studentID), q, nil)
}

// PredictionAPI groups the prediction routes
type PredictionAPI struct{ c *Client }

// SimulateRequest is the payload of POST /simulate
type SimulateRequest struct {
	StudentID   int                `json:"student_id"`
	Adjustments models.Adjustments `json:"adjustments"`
}

func (p PredictionAPI) Predict(ctx context.Context, studentID int) (models.Prediction, error) {
	return doJSON[models.Prediction](ctx, p.c, http.MethodGet, fmt.Sprintf("/predict/%d", studentID), nil, nil)
}

// Simulate asks for a hypothetical prediction. Nothing is persisted by the backend.
func (p PredictionAPI) Simulate(ctx context.Context, req SimulateRequest) (models.Prediction, error) {
	if req.Adjustments == nil {
		req.Adjustments = models.Adjustments{}
	}
	return doJSON[models.Prediction](ctx, p.c, http.MethodPost, "/simulate", nil, req)
}

// AssistantAPI groups the chat assistant route
type AssistantAPI struct{ c *Client }

type chatRequest struct {
	StudentID int    `json:"student_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (a AssistantAPI) Chat(ctx context.Context, studentID int, message string) (string, error) {
	out, err := doJSON[chatResponse](ctx, a.c, http.MethodPost, "/chat-assistant", nil, chatRequest{StudentID: studentID, Message: message})
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

// DashboardAPI groups the composite dashboard route
type DashboardAPI struct{ c *Client }

func (d DashboardAPI) Get(ctx context.Context, studentID int) (models.Dashboard, error) {
	return doJSON[models.Dashboard](ctx, d.c, http.MethodGet, fmt.Sprintf("/dashboard/%d", studentID), nil, nil)
}
