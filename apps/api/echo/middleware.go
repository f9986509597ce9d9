package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core/session"
)

// sessionMiddleware exposes the token's session to the handlers.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		sess := claims.Session()
		if sess.IsZero() || !(sess.IsTeacher() || sess.IsStudent()) {
			return errUnauthorized
		}
		ctx.Set(contextSessionKey, sess)
		return next(ctx)
	}
}

func roleMiddleware(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context session")
			}
			if sess.Role == role {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

var (
	teacherMiddleware = roleMiddleware(session.RoleTeacher)
	studentMiddleware = roleMiddleware(session.RoleStudent)
)
