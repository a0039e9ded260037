package echoweb

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/session"
	"github.com/codegrow/frontend/core/user"
	apisvc "github.com/codegrow/frontend/services/api"
)

const contextTokenKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
// Token is the CodeGrow API token the browser session acts with.
type Claims struct {
	jwt.StandardClaims
	Token    string `json:"tok"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"` // -> ADMIN SCREENS
}

type authenticator struct {
	conf   *core.Config
	config middleware.JWTConfig
}

func newAuthenticator(conf *core.Config) *authenticator {
	return &authenticator{
		conf: conf,
		config: middleware.JWTConfig{
			SigningKey:    []byte(conf.Server.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
	}
}

// queryConfig reads the JWT from ?token=, for clients that cannot set headers (EventSource).
func (a *authenticator) queryConfig() middleware.JWTConfig {
	conf := a.config
	conf.TokenLookup = "query:token"
	return conf
}

func (a *authenticator) claimsFor(creds session.Credentials) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   creds.Username,
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Token:    creds.Token,
		Username: creds.Username,
		IsAdmin:  creds.IsAdmin,
	}
}

// generateToken generates a signed JWT token string representing the Claims.
func (a *authenticator) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.config.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.config.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// clientFunc returns the API client acting for the request's user.
type clientFunc func(ctx echo.Context) (*apisvc.Client, Claims, error)

func (s *server) clientFor(ctx echo.Context) (*apisvc.Client, Claims, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, claims, err
	}
	sess := session.New(session.NewMemoryStore(), s.opts.Logger)
	creds := session.Credentials{Token: claims.Token, Username: claims.Username, IsAdmin: claims.IsAdmin}
	if err := sess.Login(creds); err != nil {
		return nil, claims, errors.Wrap(err, "starting request session")
	}
	return s.opts.API.WithSession(sess, s.hub.publisher(claims.Username)), claims, nil
}

type sessionApi struct {
	client *apisvc.Client
	auth   *authenticator
	logger core.Logger
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, client *apisvc.Client, auth *authenticator, logger core.Logger) {
	api := sessionApi{client: client, auth: auth, logger: logger}

	sg := g.Group("/session")
	sg.POST("/login", api.login)
	sg.GET("", api.retrieve, jwt)
	sg.POST("/logout", api.logout, jwt)
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func (api *sessionApi) login(ctx echo.Context) error {
	var data user.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	sess := session.New(session.NewMemoryStore(), api.logger)
	creds, err := api.client.WithSession(sess, nil).Login(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	token, err := api.auth.generateToken(api.auth.claimsFor(creds))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Username: creds.Username, IsAdmin: creds.IsAdmin})
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"username":   claims.Username,
		"is_admin":   claims.IsAdmin,
		"expires_at": time.Unix(claims.ExpiresAt, 0).UTC(),
	})
}

// logout revokes the upstream token. The JWT itself expires on its own.
func (api *sessionApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	sess := session.New(session.NewMemoryStore(), api.logger)
	if err := sess.Login(session.Credentials{Token: claims.Token, Username: claims.Username}); err != nil {
		return errors.Wrap(err, "starting request session")
	}
	if err := api.client.WithSession(sess, nil).Logout(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}
