package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julianstephens/neurogrowth/internal/models"
)

// RoadmapAPI groups the roadmap routes
type RoadmapAPI struct{ c *Client }

// GenerateRoadmapRequest is the payload of POST /generate-roadmap
type GenerateRoadmapRequest struct {
	StudentID  int      `json:"student_id"`
	WeakAreas  []string `json:"weak_areas,omitempty"`
	TargetGPA  *float64 `json:"target_gpa,omitempty"`
	CareerGoal string   `json:"career_goal,omitempty"`
}

// Generate creates a new roadmap, replacing the student's current one
func (r RoadmapAPI) Generate(ctx context.Context, req GenerateRoadmapRequest) (models.Roadmap, error) {
	raw, err := r.c.doJSONRaw(ctx, http.MethodPost, "/generate-roadmap", nil, req)
	if err != nil {
		return models.Roadmap{}, err
	}
	return decodeRoadmap(http.MethodPost, "/generate-roadmap", raw)
}

// Get returns the student's latest roadmap. A student without a roadmap yields
// an error for which IsNotFound is true.
func (r RoadmapAPI) Get(ctx context.Context, studentID int) (models.Roadmap, error) {
	path := fmt.Sprintf("/roadmap/%d", studentID)
	raw, err := r.c.doJSONRaw(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return models.Roadmap{}, err
	}
	return decodeRoadmap(http.MethodGet, path, raw)
}

// decodeRoadmap accepts both the {"roadmap": {...}} envelope and a bare roadmap object
func decodeRoadmap(method, path string, raw []byte) (models.Roadmap, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return models.Roadmap{}, noRoadmap(method, path)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.Roadmap{}, &Error{Method: method, Path: path, Status: http.StatusOK, Detail: "invalid roadmap payload", Err: err}
	}
	if inner, ok := envelope["roadmap"]; ok {
		inner = bytes.TrimSpace(inner)
		if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
			return models.Roadmap{}, noRoadmap(method, path)
		}
		body = inner
	}

	var out models.Roadmap
	if err := json.Unmarshal(body, &out); err != nil {
		return models.Roadmap{}, &Error{Method: method, Path: path, Status: http.StatusOK, Detail: "invalid roadmap payload", Err: err}
	}
	return out, nil
}

func noRoadmap(method, path string) *Error {
	return &Error{Method: method, Path: path, Status: http.StatusNotFound, Detail: "No roadmap found. Generate one first."}
}
