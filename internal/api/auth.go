package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/neurogrowth/internal/models"
)

// AuthAPI groups the /auth routes
type AuthAPI struct{ c *Client }

// RegisterRequest is the payload of POST /auth/register
type RegisterRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Role       string   `json:"role,omitempty"`
	CareerGoal string   `json:"career_goal,omitempty"`
	TargetGPA  *float64 `json:"target_gpa,omitempty"`
}

// LoginResponse is the payload returned by POST /auth/login
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// ProfileUpdate carries the optional fields of PUT /auth/profile
type ProfileUpdate struct {
	TargetGPA  *float64
	CareerGoal *string
}

func (a AuthAPI) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	return doJSON[models.User](ctx, a.c, http.MethodPost, "/auth/register", nil, req)
}

// Login exchanges credentials for a bearer token. The backend expects an
// OAuth2 password form where the username is the email address.
func (a AuthAPI) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	raw, err := a.c.doForm(ctx, "/auth/login", form)
	if err != nil {
		return LoginResponse{}, err
	}
	var out LoginResponse
	if err := decode(raw, &out); err != nil {
		return LoginResponse{}, &Error{Method: http.MethodPost, Path: "/auth/login", Status: http.StatusOK, Detail: "invalid response body", Err: err}
	}
	return out, nil
}

func (a AuthAPI) Me(ctx context.Context) (models.User, error) {
	return doJSON[models.User](ctx, a.c, http.MethodGet, "/auth/me", nil, nil)
}

func (a AuthAPI) UpdateProfile(ctx context.Context, upd ProfileUpdate) error {
	q := url.Values{}
	if upd.TargetGPA != nil {
		q.Set("target_gpa", strconv.FormatFloat(*upd.TargetGPA, 'f', -1, 64))
	}
	if upd.CareerGoal != nil {
		q.Set("career_goal", *upd.CareerGoal)
	}
	_, err := a.c.doJSONRaw(ctx, http.MethodPut, "/auth/profile", q, nil)
	return err
}
