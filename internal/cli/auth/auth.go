package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/cli"
	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/validation"
)

// promptPassword asks for a password when none was given on the command line
var promptPassword = func(title string) (string, error) {
	var pw string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&pw).
		WithTheme(huh.ThemeDracula()).
		Run()
	return pw, err
}

type LoginCmd struct {
	Email    string `arg:"" help:"Account email address."`
	Password string `short:"p" help:"Account password. Prompted for when omitted." env:"NEUROGROWTH_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	password := c.Password
	if password == "" {
		var err error
		if password, err = promptPassword("Password"); err != nil {
			return err
		}
	}
	user, err := login(ctx, c.Email, password)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Logged in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func login(ctx *cli.Context, email, password string) (models.User, error) {
	resp, err := ctx.Client.Auth.Login(context.Background(), strings.TrimSpace(email), password)
	if err != nil {
		if api.IsUnauthorized(err) {
			return models.User{}, errors.New("incorrect email or password")
		}
		return models.User{}, err
	}
	if resp.AccessToken == "" {
		return models.User{}, errors.New("the server did not return a session token")
	}
	if err := ctx.Session.SetSession(resp.AccessToken, resp.User); err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

type RegisterCmd struct {
	Name       string  `required:"" help:"Full name."`
	Email      string  `required:"" help:"Account email address."`
	Password   string  `short:"p" help:"Account password. Prompted for when omitted." env:"NEUROGROWTH_PASSWORD"`
	CareerGoal string  `help:"Career goal used to tailor roadmaps." default:"Software Engineer"`
	TargetGPA  float64 `name:"target-gpa" help:"Target GPA (0-10)." default:"3.5"`
	Admin      bool    `hidden:"" help:"Register an admin account."`
}

func (c *RegisterCmd) Validate() error {
	gpa := c.TargetGPA
	return validation.TargetGPA(&gpa).Err()
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	password := c.Password
	if password == "" {
		var err error
		if password, err = promptPassword("Choose a password"); err != nil {
			return err
		}
	}

	name, email := strings.TrimSpace(c.Name), strings.TrimSpace(c.Email)
	if err := validation.Registration(name, email, password).Err(); err != nil {
		return err
	}

	gpa := c.TargetGPA
	req := api.RegisterRequest{
		Name:       name,
		Email:      email,
		Password:   password,
		CareerGoal: strings.TrimSpace(c.CareerGoal),
		TargetGPA:  &gpa,
	}
	if c.Admin {
		req.Role = string(constants.RoleAdmin)
	}
	if _, err := ctx.Client.Auth.Register(context.Background(), req); err != nil {
		return err
	}

	// registration does not return a token, log straight in
	user, err := login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("account created but login failed: %w", err)
	}
	ctx.Printf("✓ Account created. Logged in as %s\n", user.Name)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if _, ok := ctx.Session.GetSession(); !ok {
		ctx.Println("Not logged in.")
		return nil
	}
	if err := ctx.Session.ClearSession(); err != nil {
		return err
	}
	ctx.Println("✓ Logged out")
	return nil
}

type WhoamiCmd struct {
	Remote bool `help:"Fetch the profile from the server instead of the local session."`
}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session.Require()
	if err != nil {
		return err
	}
	user := sess.User
	if c.Remote {
		if user, err = cli.Fetch(ctx, ctx.Client.Auth.Me); err != nil {
			return err
		}
		if err := ctx.Session.UpdateUser(user); err != nil {
			return err
		}
	}

	printUser(ctx, user)
	if claims, err := ctx.Session.Claims(); err == nil && claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		state := "valid"
		if time.Now().After(exp) {
			state = "expired"
		}
		ctx.Printf("Token:       %s until %s\n", state, exp.Local().Format(time.RFC1123))
	}
	return nil
}

func printUser(ctx *cli.Context, u models.User) {
	ctx.Printf("ID:          %d\n", u.ID)
	ctx.Printf("Name:        %s\n", u.Name)
	ctx.Printf("Email:       %s\n", u.Email)
	ctx.Printf("Role:        %s\n", u.Role)
	if u.CareerGoal != "" {
		ctx.Printf("Career goal: %s\n", u.CareerGoal)
	}
	ctx.Printf("Target GPA:  %s\n", cli.FormatOptional(u.TargetGPA, "%.2f"))
}

// ProfileCmd shows the profile, or updates it when flags are given
type ProfileCmd struct {
	TargetGPA  string `name:"target-gpa" help:"New target GPA (0-10)."`
	CareerGoal string `help:"New career goal."`
}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session.Require(); err != nil {
		return err
	}

	gpa, err := cli.ParseOptionalFloat("target-gpa", c.TargetGPA)
	if err != nil {
		return err
	}
	if err := validation.TargetGPA(gpa).Err(); err != nil {
		return err
	}

	var upd api.ProfileUpdate
	upd.TargetGPA = gpa
	if goal := strings.TrimSpace(c.CareerGoal); goal != "" {
		upd.CareerGoal = &goal
	}

	if upd.TargetGPA != nil || upd.CareerGoal != nil {
		_, err := cli.Submit(ctx, func(rctx context.Context) (struct{}, error) {
			return struct{}{}, ctx.Client.Auth.UpdateProfile(rctx, upd)
		})
		if err != nil {
			return err
		}
		ctx.Println("✓ Profile updated")
	}

	user, err := cli.Fetch(ctx, ctx.Client.Auth.Me)
	if err != nil {
		return err
	}
	if err := ctx.Session.UpdateUser(user); err != nil {
		return err
	}
	printUser(ctx, user)
	return nil
}
