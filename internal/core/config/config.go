package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxConcurrent     int64
	AllowOrigins      []string
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 为空则只写 stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Backend 上游 REST 后端
type Backend struct {
	BaseURL    string `mapstructure:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

func (b Backend) Timeout() time.Duration { return time.Duration(b.TimeoutSec) * time.Second }

// Store 会话持久化：file / redis / postgres / mysql
type Store struct {
	Driver string
	Path   string // file 驱动使用
	Prefix string // redis key 前缀
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Console struct {
	CookieName   string `mapstructure:"cookie_name"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
	IdleTTLMin   int    `mapstructure:"idle_ttl_min"`
}

func (c Console) IdleTTL() time.Duration { return time.Duration(c.IdleTTLMin) * time.Minute }

type Config struct {
	App     App
	Log     Log
	Backend Backend `mapstructure:"backend"`
	Store   Store
	DB      DB
	Redis   Redis   `mapstructure:"redis"`
	Console Console `mapstructure:"console"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("app.name", "recloop-console")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8088)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.requesttimeoutsec", 20)
	v.SetDefault("app.http.ratelimitrps", 50)
	v.SetDefault("app.http.ratelimitburst", 100)
	v.SetDefault("app.http.maxconcurrent", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxsizemb", 50)
	v.SetDefault("log.maxbackups", 5)
	v.SetDefault("log.maxagedays", 14)
	v.SetDefault("backend.base_url", "https://localhost:7235")
	v.SetDefault("backend.timeout_sec", 15)
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "./data/console-store.json")
	v.SetDefault("store.prefix", "recloop:console:")
	v.SetDefault("db.maxopenconns", 10)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("console.cookie_name", "rm_sid")
	v.SetDefault("console.idle_ttl_min", 120)
}

// Read 读取配置；未显式指定且默认文件不存在时仅用默认值 + 环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv 只对已知 key 生效，这几个常用的显式绑定
	_ = v.BindEnv("backend.base_url", "APP_BACKEND_BASE_URL", "NEXT_PUBLIC_API_BASE_URL")
	_ = v.BindEnv("store.driver", "APP_STORE_DRIVER")
	_ = v.BindEnv("redis.addr", "APP_REDIS_ADDR")
	_ = v.BindEnv("db.dsn", "APP_DB_DSN")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	return &c, nil
}

// Load 启动期使用，失败直接退出
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
