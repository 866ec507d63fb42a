package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/internal/webserver"
	"github.com/nvalente/studiocms/pkg/common"
)

func registerAuthRoutes() {
	webserver.POST("/api/admin/login", adminLogin)
	webserver.ApiPOST("/logout", adminLogout)
	webserver.ApiGET("/me", currentOperator)
}

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func adminLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	var opr domain.SysOpr
	if err := GetDB(c).Where("username = ?", payload.Username).First(&opr).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}
	if !strings.EqualFold(opr.Status, common.ENABLED) {
		return fail(c, http.StatusUnauthorized, "OPERATOR_DISABLED", "Operator account is disabled", nil)
	}
	hashed := common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())
	if hashed != opr.Password {
		zap.L().Warn("admin login failed", zap.String("username", payload.Username), zap.String("ip", c.RealIP()))
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	secret := GetApp(c).Config().Web.Secret
	token, err := webserver.CreateToken(secret, opr.Username, opr.Level)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", nil)
	}

	// also establish a cookie session for browser based admin clients
	if sess, err := session.Get(webserver.SessionName, c); err == nil {
		sess.Options.HttpOnly = true
		sess.Options.MaxAge = 86400
		sess.Values["username"] = opr.Username
		sess.Values["level"] = opr.Level
		_ = sess.Save(c.Request(), c.Response())
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   opr.Username,
		OprIp:     c.RealIP(),
		OptAction: "login",
		OptDesc:   "admin login",
		OptTime:   time.Now(),
	})

	return ok(c, echo.Map{
		"token":    token,
		"username": opr.Username,
		"level":    opr.Level,
	})
}

func adminLogout(c echo.Context) error {
	if sess, err := session.Get(webserver.SessionName, c); err == nil {
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	logOperation(c, "logout", "admin logout")
	return ok(c, echo.Map{"logout": true})
}

func currentOperator(c echo.Context) error {
	username := webserver.OperatorName(c)
	var opr domain.SysOpr
	if err := GetDB(c).Where("username = ?", username).First(&opr).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Operator not found", nil)
	}
	return ok(c, opr)
}
