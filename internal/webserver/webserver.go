package webserver

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/nvalente/studiocms/internal/app"
	"github.com/nvalente/studiocms/pkg/metrics"
)

// SessionName is the admin cookie session name
const SessionName = "studiocms_session"

type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
	api    *echo.Group
	pub    *echo.Group
}

var server *WebServer

// Init builds the echo server and the route groups. The application
// context is injected here once, handlers pick it up from the request
// context instead of global lookups.
func Init(appCtx app.AppContext) *WebServer {
	s := &WebServer{
		root:   echo.New(),
		appCtx: appCtx,
	}
	s.root.HideBanner = true
	s.root.HidePort = true
	s.root.JSONSerializer = Serializer{}

	s.root.Use(middleware.Recover())
	s.root.Use(middleware.RequestID())
	s.root.Use(session.Middleware(sessions.NewCookieStore([]byte(appCtx.Config().Web.Secret))))
	s.root.Use(s.corsMiddleware())
	s.root.Use(s.contextMiddleware())
	s.root.Use(s.accessLogMiddleware())

	s.pub = s.root.Group("/api/v1")
	s.api = s.root.Group("/api/admin", s.adminAuthMiddleware())

	server = s
	return s
}

// Instance returns the initialized server
func Instance() *WebServer {
	return server
}

func (s *WebServer) contextMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("appctx", s.appCtx)
			c.Set("db", s.appCtx.DB())
			return next(c)
		}
	}
}

func (s *WebServer) corsMiddleware() echo.MiddlewareFunc {
	origins := s.appCtx.Config().Web.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
	})
}

func (s *WebServer) accessLogMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			metrics.Incr(metrics.HttpRequests)
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	})
}

// adminAuthMiddleware accepts either a valid admin cookie session or a
// bearer JWT. Everything else gets 401.
func (s *WebServer) adminAuthMiddleware() echo.MiddlewareFunc {
	jwtmw := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.appCtx.Config().Web.Secret),
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		jwtNext := jwtmw(next)
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if err == nil {
				if username, ok := sess.Values["username"].(string); ok && username != "" {
					c.Set("operator", username)
					return next(c)
				}
			}
			return jwtNext(c)
		}
	}
}

// CreateToken issues an admin bearer token
func CreateToken(secret, username, level string) (string, error) {
	claims := jwt.MapClaims{
		"usr": username,
		"lvl": level,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// OperatorName resolves the acting admin from session or JWT claims
func OperatorName(c echo.Context) string {
	if v, ok := c.Get("operator").(string); ok && v != "" {
		return v
	}
	if token, ok := c.Get("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if usr, ok := claims["usr"].(string); ok {
				return usr
			}
		}
	}
	return ""
}

// GetAppCtx returns the application context injected by the server
func GetAppCtx(c echo.Context) app.AppContext {
	return c.Get("appctx").(app.AppContext)
}

// Start runs the HTTP listener
func (s *WebServer) Start() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("web server listening on %s", addr)
	return s.root.Start(addr)
}

// Root exposes the echo instance (used in handler tests)
func (s *WebServer) Root() *echo.Echo {
	return s.root
}

// Admin route registration

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// Public route registration

func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// POST registers an unauthenticated root-level route (login)
func POST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}
