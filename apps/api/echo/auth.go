package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/core/session"
)

const (
	contextTokenKey   = "token"
	contextSessionKey = "session"
)

type jwtConfig struct {
	middleware middleware.JWTConfig
	issuer     string
	expiration time.Duration
}

func newJWTConfig(conf *core.Config) jwtConfig {
	return jwtConfig{
		middleware: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
		issuer:     conf.AppName,
		expiration: conf.JWTExpirationDelta,
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Role string `json:"role"`
}

func (c Claims) Session() session.Session {
	return session.Session{Username: c.Subject, Role: c.Role}
}

func (jc jwtConfig) claims(sess session.Session) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    jc.issuer,
			Subject:   sess.Username,
			ExpiresAt: now.Add(jc.expiration).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role: sess.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the session.
func (jc jwtConfig) GenerateToken(sess session.Session) (string, error) {
	method := jwt.GetSigningMethod(jc.middleware.SigningMethod)
	token := jwt.NewWithClaims(method, jc.claims(sess))

	ss, err := token.SignedString(jc.middleware.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// GenerateToken signs a token for `sess` with the configured secret key.
func GenerateToken(conf *core.Config, sess session.Session) (string, error) {
	return newJWTConfig(conf).GenerateToken(sess)
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (session.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(session.Session); ok {
		return sess, nil
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return session.Session{}, err
	}
	return claims.Session(), nil
}
