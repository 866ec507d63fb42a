package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
	// Secret signs admin JWT tokens and session cookies
	Secret string `yaml:"secret" json:"secret"`
	// AllowedOrigins tightens CORS when set, wildcard otherwise
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// PaymentConfig holds Mercado Pago credentials and the default
// redirect targets used when a checkout request omits its own.
type PaymentConfig struct {
	AccessToken string `yaml:"access_token" json:"access_token"`
	PublicKey   string `yaml:"public_key" json:"public_key"`
	SuccessURL  string `yaml:"success_url" json:"success_url"`
	CancelURL   string `yaml:"cancel_url" json:"cancel_url"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Payment  PaymentConfig `yaml:"payment" json:"payment"`
	Logger   LoggerConfig  `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "studiocms",
		Location: "America/New_York",
		Workdir:  "/var/studiocms",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-studiocms-1816-b5dc-fef7d5b3d3ab",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "studiocms_v1",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Payment: PaymentConfig{},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/studiocms/studiocms.log",
	},
}

func setEnvValue(name string, val *string) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvStringsValue(name string, val *[]string) {
	if evalue, ok := os.LookupEnv(name); ok && evalue != "" {
		var items []string
		for _, s := range filepath.SplitList(evalue) {
			if s != "" {
				items = append(items, s)
			}
		}
		*val = items
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue, ok := os.LookupEnv(name); ok {
		var ival int
		if _, err := fmt.Sscanf(evalue, "%d", &ival); err == nil {
			*val = ival
		}
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// overrides. A missing file is an error, configuration problems must
// fail at startup instead of deferring to a runtime stub.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
		cfg = new(AppConfig)
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	}

	setEnvValue("STUDIOCMS_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("STUDIOCMS_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STUDIOCMS_WEB_HOST", &cfg.Web.Host)
	setEnvValue("STUDIOCMS_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("STUDIOCMS_WEB_PORT", &cfg.Web.Port)
	setEnvStringsValue("STUDIOCMS_WEB_ALLOWED_ORIGINS", &cfg.Web.AllowedOrigins)

	setEnvValue("STUDIOCMS_DB_HOST", &cfg.Database.Host)
	setEnvValue("STUDIOCMS_DB_NAME", &cfg.Database.Name)
	setEnvValue("STUDIOCMS_DB_USER", &cfg.Database.User)
	setEnvValue("STUDIOCMS_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("STUDIOCMS_DB_PORT", &cfg.Database.Port)
	setEnvBoolValue("STUDIOCMS_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("STUDIOCMS_MP_ACCESS_TOKEN", &cfg.Payment.AccessToken)
	setEnvValue("STUDIOCMS_MP_PUBLIC_KEY", &cfg.Payment.PublicKey)
	setEnvValue("STUDIOCMS_PAYMENT_SUCCESS_URL", &cfg.Payment.SuccessURL)
	setEnvValue("STUDIOCMS_PAYMENT_CANCEL_URL", &cfg.Payment.CancelURL)

	setEnvValue("STUDIOCMS_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STUDIOCMS_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	if cfg.Web.Secret == "" {
		return nil, errors.New("web.secret is required")
	}
	if cfg.Payment.AccessToken == "" {
		return nil, errors.New("payment.access_token is required")
	}
	return cfg, nil
}
