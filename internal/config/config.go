package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/ini.v1"

	"github.com/location-microservice/internal/pkg/errors"
)

// Config mirrors the INI sections of the wire contract (§6.3): common,
// redis, the downstream store section named by common.serialize_db, city,
// and category.
type Config struct {
	Common   CommonConfig
	Redis    RedisConfig
	Store    StoreConfig
	City     CityConfig
	Category CategoryConfig
}

type CommonConfig struct {
	DataSource    string `validate:"required,oneof=baidu gaode"`
	Mode          string `validate:"required,oneof=city grid"`
	Proxy         bool
	ProxyURL      string
	Update        bool
	SerializeDB   string `validate:"required"`
	GeohashLength int    `validate:"required,min=1,max=12"`
	CityFile      string
	MetricsAddr   string
}

type RedisConfig struct {
	Host     string `validate:"required"`
	Port     int
	Password string
	AKDB     string `validate:"required"`
	TaskDB   string `validate:"required"`
	VisitDB  string `validate:"required"`
	ResultDB string `validate:"required"`
}

// StoreConfig is the downstream SQL store's connection info, read from the
// section named by Common.SerializeDB.
type StoreConfig struct {
	Host     string `validate:"required"`
	Port     int
	Database string `validate:"required"`
	Username string
	Password string
	Table    string `validate:"required"`
}

// CityConfig holds the nationwide city list: keys of the [city] section.
type CityConfig map[string]string

// CategoryConfig maps a raw upstream tag value to its resolved category,
// built from the [category] section (category -> comma-separated tag list),
// inverted so lookup by tag is O(1) at crawl time.
type CategoryConfig map[string]string

func (c CityConfig) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	return names
}

// Load reads an INI file at path and validates the required fields. The
// downstream store section is resolved dynamically by the value of
// common.serialize_db.
func Load(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, errors.ErrConfigInvalid.WithDetails(map[string]interface{}{"path": path, "error": err.Error()})
	}

	common := f.Section("common")
	redisSec := f.Section("redis")

	cfg := &Config{
		Common: CommonConfig{
			DataSource:    common.Key("data_source").String(),
			Mode:          common.Key("mode").String(),
			Proxy:         common.Key("proxy").MustBool(false),
			ProxyURL:      common.Key("proxy_url").String(),
			Update:        common.Key("update").MustBool(false),
			SerializeDB:   common.Key("serialize_db").String(),
			GeohashLength: common.Key("geohash_length").MustInt(6),
			CityFile:      common.Key("city_file").String(),
			MetricsAddr:   common.Key("metrics_addr").MustString(":9100"),
		},
		Redis: RedisConfig{
			Host:     redisSec.Key("host").String(),
			Port:     redisSec.Key("port").MustInt(6379),
			Password: redisSec.Key("password").String(),
			AKDB:     redisSec.Key("ak_db").String(),
			TaskDB:   redisSec.Key("task_db").String(),
			VisitDB:  redisSec.Key("visit_db").String(),
			ResultDB: redisSec.Key("result_db").String(),
		},
		City:     CityConfig{},
		Category: CategoryConfig{},
	}

	if cfg.Common.SerializeDB != "" {
		storeSec := f.Section(cfg.Common.SerializeDB)
		cfg.Store = StoreConfig{
			Host:     storeSec.Key("host").String(),
			Port:     storeSec.Key("port").MustInt(5432),
			Database: storeSec.Key("database").String(),
			Username: storeSec.Key("username").String(),
			Password: storeSec.Key("password").String(),
			Table:    storeSec.Key("table").String(),
		}
	}

	if citySec, err := f.GetSection("city"); err == nil {
		for _, key := range citySec.Keys() {
			cfg.City[key.Name()] = key.Value()
		}
	}

	if categorySec, err := f.GetSection("category"); err == nil {
		for _, key := range categorySec.Keys() {
			categoryName := key.Name()
			for _, tag := range strings.Split(key.Value(), ",") {
				tag = strings.TrimSpace(tag)
				if tag != "" {
					cfg.Category[tag] = categoryName
				}
			}
		}
	}

	v := validator.New()
	if err := v.Struct(cfg.Common); err != nil {
		return nil, errors.New(errors.CodeInvalidInput, "invalid [common] section", 0).WithDetails(map[string]interface{}{"error": err.Error()})
	}
	if err := v.Struct(cfg.Redis); err != nil {
		return nil, errors.New(errors.CodeInvalidInput, "invalid [redis] section", 0).WithDetails(map[string]interface{}{"error": err.Error()})
	}
	if err := v.Struct(cfg.Store); err != nil {
		return nil, errors.New(errors.CodeInvalidInput, fmt.Sprintf("invalid [%s] section", cfg.Common.SerializeDB), 0).WithDetails(map[string]interface{}{"error": err.Error()})
	}

	return cfg, nil
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) GetStoreDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Store.Host, c.Store.Port, c.Store.Username, c.Store.Password, c.Store.Database,
	)
}

// IdleReconnectInterval is the persistence worker's idle-close-and-reopen
// period (§4.7): fixed by the spec rather than configurable.
const IdleReconnectInterval = 300 * time.Second
