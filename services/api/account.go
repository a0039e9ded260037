package apisvc

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core/session"
	"github.com/codegrow/frontend/core/user"
)

// Login exchanges credentials for a token, looks the profile up and stores both in the session.
func (c *Client) Login(ctx context.Context, lr user.LoginRequest) (session.Credentials, error) {
	if err := lr.Validate(); err != nil {
		return session.Credentials{}, err
	}

	var resp user.LoginResponse
	if err := c.do(ctx, http.MethodPost, "accounts/login/", "", lr, &resp); err != nil {
		return session.Credentials{}, err
	}
	if resp.Token == "" {
		return session.Credentials{}, errors.New("login response without token")
	}
	return c.startSession(ctx, resp.Token, resp.Username, lr.Username)
}

// Register signs a new learner up and logs them in.
func (c *Client) Register(ctx context.Context, reg user.Registration) (session.Credentials, error) {
	if err := reg.Validate(); err != nil {
		return session.Credentials{}, err
	}

	var resp user.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "accounts/register/", "", reg, &resp); err != nil {
		return session.Credentials{}, err
	}
	if resp.Token == "" {
		return session.Credentials{}, errors.New("register response without token")
	}
	return c.startSession(ctx, resp.Token, reg.Username, reg.Username)
}

func (c *Client) startSession(ctx context.Context, token string, usernames ...string) (session.Credentials, error) {
	var profile user.Profile
	if err := c.do(ctx, http.MethodGet, "accounts/profile/", token, nil, &profile); err != nil {
		return session.Credentials{}, errors.Wrap(err, "fetching profile")
	}

	creds := session.Credentials{Token: token, Username: profile.Username, IsAdmin: profile.IsAdmin()}
	for _, uname := range usernames {
		if creds.Username != "" {
			break
		}
		creds.Username = uname
	}
	if err := c.sess.Login(creds); err != nil {
		return session.Credentials{}, err
	}
	return c.sess.Credentials(), nil
}

// Logout revokes the token server side when possible. The local session is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	if token := c.sess.Token(); token != "" {
		if err := c.do(ctx, http.MethodPost, "accounts/logout/", token, struct{}{}, nil); err != nil {
			c.logger.Warn("server side logout failed", err)
		}
	}
	return c.sess.Logout()
}

func (c *Client) Profile(ctx context.Context) (user.Profile, error) {
	var profile user.Profile
	err := c.get(ctx, "accounts/profile/", &profile)
	return profile, err
}
