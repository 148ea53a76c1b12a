package auth

import (
	"net/http"
	"strings"
	"testing"

	"github.com/julianstephens/neurogrowth/internal/cli/clitest"
)

func loginHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		if r.PostForm.Get("username") != "asha@example.com" || r.PostForm.Get("password") != "secret1" {
			clitest.Detail(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		clitest.JSON(w, http.StatusOK, map[string]any{
			"access_token": "tok-123",
			"token_type":   "bearer",
			"user":         clitest.Student(),
		})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		clitest.JSON(w, http.StatusOK, clitest.Student())
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			clitest.Detail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		clitest.JSON(w, http.StatusOK, clitest.Student())
	})
	return mux
}

func TestLoginCmd(t *testing.T) {
	ctx, out := clitest.New(t, loginHandler(t))

	cmd := &LoginCmd{Email: " asha@example.com ", Password: "secret1"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	sess, ok := ctx.Session.GetSession()
	if !ok || sess.Token != "tok-123" || sess.User.ID != 3 {
		t.Errorf("session = %+v, ok=%v", sess, ok)
	}
	if !strings.Contains(out.String(), "Logged in as Asha Rao") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestLoginCmd_BadPassword(t *testing.T) {
	ctx, _ := clitest.New(t, loginHandler(t))

	err := (&LoginCmd{Email: "asha@example.com", Password: "nope"}).Run(ctx)
	if err == nil || err.Error() != "incorrect email or password" {
		t.Errorf("err = %v, want incorrect email or password", err)
	}
	if _, ok := ctx.Session.GetSession(); ok {
		t.Error("no session should be stored after a failed login")
	}
}

func TestLoginCmd_PromptsForPassword(t *testing.T) {
	ctx, _ := clitest.New(t, loginHandler(t))

	prompted := false
	orig := promptPassword
	promptPassword = func(string) (string, error) {
		prompted = true
		return "secret1", nil
	}
	t.Cleanup(func() { promptPassword = orig })

	if err := (&LoginCmd{Email: "asha@example.com"}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !prompted {
		t.Error("expected a password prompt")
	}
}

func TestRegisterCmd(t *testing.T) {
	ctx, out := clitest.New(t, loginHandler(t))

	cmd := &RegisterCmd{Name: "Asha Rao", Email: "asha@example.com", Password: "secret1", CareerGoal: "ML Engineer", TargetGPA: 8.5}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, ok := ctx.Session.GetSession(); !ok {
		t.Error("register should log in")
	}
	if !strings.Contains(out.String(), "Account created") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRegisterCmd_Validation(t *testing.T) {
	if err := (&RegisterCmd{TargetGPA: 11}).Validate(); err == nil {
		t.Error("expected target GPA above 10 to be rejected")
	}

	ctx, _ := clitest.New(t, loginHandler(t))
	err := (&RegisterCmd{Name: "Asha", Email: "not-an-email", Password: "secret1", TargetGPA: 3.5}).Run(ctx)
	if err == nil {
		t.Error("expected invalid email to be rejected")
	}
}

func TestLogoutCmd(t *testing.T) {
	ctx, out := clitest.New(t, loginHandler(t))

	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Not logged in") {
		t.Errorf("unexpected output: %q", out.String())
	}

	clitest.Login(t, ctx, clitest.Student())
	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, ok := ctx.Session.GetSession(); ok {
		t.Error("session should be cleared")
	}
}

func TestWhoamiCmd_ExpiredToken(t *testing.T) {
	ctx, _ := clitest.New(t, loginHandler(t))
	clitest.Login(t, ctx, clitest.Student())

	// the fake backend only accepts tok-123
	err := (&WhoamiCmd{Remote: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "session expired") {
		t.Errorf("err = %v, want session expired", err)
	}
	if _, ok := ctx.Session.GetSession(); ok {
		t.Error("a 401 should clear the session")
	}
}
