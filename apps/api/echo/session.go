package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core/session"
)

type (
	LoginResponse struct {
		Token   string          `json:"token"`
		Session session.Session `json:"session"`
	}

	sessionApi struct {
		svc *session.Service
		jwt jwtConfig
	}
)

func registerSessionAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *session.Service, jc jwtConfig) {
	api := sessionApi{svc: svc, jwt: jc}

	sg := g.Group("/session")

	// un-authed endpoints
	sg.POST("/login", api.login)

	// authed endpoints
	ag := sg.Group("", authed...)
	ag.GET("", api.current)
	ag.POST("/token-refresh", api.refreshToken)
}

// Handlers

// login opens a stateless session: the token carries the identity, nothing is persisted server-side.
func (api *sessionApi) login(ctx echo.Context) error {
	var data session.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	sess, err := api.svc.Authenticate(data)
	if err != nil {
		return err
	}
	token, err := api.jwt.GenerateToken(sess)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Session: sess})
}

func (api *sessionApi) current(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) refreshToken(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	token, err := api.jwt.GenerateToken(sess)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Session: sess})
}
