package app

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "studiocms"

	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type settingSchema struct {
	Key         string
	Default     string
	Description string
}

var defaultSettings = []settingSchema{
	{"site.title", "Studio", "Public site title"},
	{"site.owner_email", "", "Owner contact address shown on the site"},
	{"smtp.host", "", "SMTP server host, notifications disabled when empty"},
	{"smtp.port", "587", "SMTP server port"},
	{"smtp.username", "", "SMTP auth username"},
	{"smtp.password", "", "SMTP auth password"},
	{"smtp.from", "", "Notification sender address"},
	{"smtp.notify_to", "", "Notification recipient address"},
	{"checkout.max_quantity", "10", "Maximum quantity per checkout"},
}

func (a *Application) checkSettings() {
	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range defaultSettings {
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkCompanies initializes the affiliated company tenants
func (a *Application) checkCompanies() {
	defaultCompanies := []domain.Company{
		{Slug: "northpine", Name: "Northpine Digital", Tagline: "Web studios for small teams", Status: common.ENABLED},
		{Slug: "yardline", Name: "Yardline Media", Tagline: "Short form video production", Status: common.ENABLED},
	}

	for _, c := range defaultCompanies {
		var count int64
		a.gormDB.Model(&domain.Company{}).Where("slug = ?", c.Slug).Count(&count)
		if count == 0 {
			c.ID = common.UUIDint64()
			c.CreatedAt = time.Now()
			c.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&c).Error; err != nil {
				zap.L().Error("failed to create default company", zap.String("slug", c.Slug), zap.Error(err))
			} else {
				zap.L().Info("initialized default company", zap.String("slug", c.Slug))
			}
		}
	}
}

// checkCatalog initializes demo pricing rows so a fresh install has a storefront
func (a *Application) checkCatalog() {
	defaultPricing := []domain.Pricing{
		{Title: "Landing Page", Price: "$450", Currency: "usd", Available: true, Sort: 1},
		{Title: "Brand Kit", Price: "$75", Currency: "usd", Available: true, Sort: 2},
		{Title: "Full Site Build", Price: "$1,200", Currency: "usd", Available: true, Featured: true, Sort: 3},
	}

	for _, p := range defaultPricing {
		var count int64
		a.gormDB.Model(&domain.Pricing{}).Where("title = ?", p.Title).Count(&count)
		if count == 0 {
			p.ID = common.UUIDint64()
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default pricing", zap.String("title", p.Title), zap.Error(err))
			} else {
				zap.L().Info("initialized default pricing", zap.String("title", p.Title))
			}
		}
	}
}
