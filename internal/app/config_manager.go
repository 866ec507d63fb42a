package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/nvalente/studiocms/internal/domain"
	"github.com/nvalente/studiocms/pkg/common"
)

// ConfigManager reads runtime settings from sys_config with a small
// in-memory cache. Writes go through SetValue which also refreshes the
// cache entry.
type ConfigManager struct {
	app   *Application
	cache sync.Map
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app}
}

func (cm *ConfigManager) cacheKey(category, name string) string {
	return category + "." + name
}

// GetString returns the raw settings value, empty when missing
func (cm *ConfigManager) GetString(category, name string) string {
	key := cm.cacheKey(category, name)
	if v, ok := cm.cache.Load(key); ok {
		return cast.ToString(v)
	}
	var cfg domain.SysConfig
	err := cm.app.gormDB.Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return ""
	}
	cm.cache.Store(key, cfg.Value)
	return cfg.Value
}

func (cm *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(cm.GetString(category, name))
}

func (cm *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(cm.GetString(category, name))
}

// SetValue upserts a settings row and refreshes the cache
func (cm *ConfigManager) SetValue(category, name, value string) error {
	key := cm.cacheKey(category, name)
	var cfg domain.SysConfig
	err := cm.app.gormDB.Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		cfg = domain.SysConfig{
			ID:        common.UUIDint64(),
			Type:      category,
			Name:      name,
			Value:     value,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := cm.app.gormDB.Create(&cfg).Error; err != nil {
			return err
		}
		cm.cache.Store(key, value)
		return nil
	}
	if err := cm.app.gormDB.Model(&domain.SysConfig{}).Where("id = ?", cfg.ID).
		Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error; err != nil {
		return err
	}
	cm.cache.Store(key, value)
	zap.L().Info("setting updated", zap.String("key", key))
	return nil
}
