package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/stationeryhub/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	UserJWT  JWTConfig      `mapstructure:"user_jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Session  SessionConfig  `mapstructure:"session"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Upload   UploadConfig   `mapstructure:"upload"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Captcha  CaptchaConfig  `mapstructure:"captcha"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Backend  BackendConfig  `mapstructure:"backend"`
}

// ServerConfig HTTP 服务配置，超时支持 "30s"、"2m" 写法
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug / release
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LogConfig 日志输出与滚动策略
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	Stdout     bool   `mapstructure:"stdout"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger.Options
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options(c)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// DatabasePoolConfig 连接池，零值沿用驱动默认
type DatabasePoolConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// JWTConfig 签发 Token 的密钥与有效期
type JWTConfig struct {
	SecretKey             string `mapstructure:"secret"`
	ExpireHours           int    `mapstructure:"expire_hours"`
	RememberMeExpireHours int    `mapstructure:"remember_me_expire_hours"`
}

// RedisConn Redis 连接参数，缓存与队列各自一份
type RedisConn struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr host:port，未配置时为 127.0.0.1:6379
func (c RedisConn) Addr() string {
	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Port
	if port <= 0 {
		port = 6379
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// RedisConfig 缓存、限流与会话使用的 Redis
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Prefix    string `mapstructure:"prefix"`
	RedisConn `mapstructure:",squash"`
}

// QueueConfig asynq 队列
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
	RedisConn   `mapstructure:",squash"`
}

// SessionConfig 购物车会话
type SessionConfig struct {
	Driver     string `mapstructure:"driver"` // redis / database
	CookieName string `mapstructure:"cookie_name"`
	HeaderName string `mapstructure:"header_name"`
	TTLHours   int    `mapstructure:"ttl_hours"`
	Secure     bool   `mapstructure:"secure"`
}

// TTL 会话过期时间，0 表示不过期
func (c SessionConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 0
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// CatalogConfig 商品目录
type CatalogConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// CaptchaConfig 验证码
type CaptchaConfig struct {
	Provider string             `mapstructure:"provider"` // none / image
	Scenes   CaptchaSceneConfig `mapstructure:"scenes"`
	Image    CaptchaImageConfig `mapstructure:"image"`
}

// CaptchaSceneConfig 需要验证码的场景
type CaptchaSceneConfig struct {
	Login    bool `mapstructure:"login"`
	Register bool `mapstructure:"register"`
}

// CaptchaImageConfig 图片验证码外观与存储
type CaptchaImageConfig struct {
	Length     int           `mapstructure:"length"`
	Width      int           `mapstructure:"width"`
	Height     int           `mapstructure:"height"`
	NoiseCount int           `mapstructure:"noise_count"`
	ShowLine   int           `mapstructure:"show_line"`
	Expire     time.Duration `mapstructure:"expire"`
	MaxStore   int           `mapstructure:"max_store"`
}

// UploadConfig 上传限制
type UploadConfig struct {
	Dir               string   `mapstructure:"dir"`
	MaxSize           int64    `mapstructure:"max_size"`
	AllowedTypes      []string `mapstructure:"allowed_types"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	MaxWidth          int      `mapstructure:"max_width"`
	MaxHeight         int      `mapstructure:"max_height"`
}

// CORSConfig 跨域
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 登录限流与密码策略
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
	PasswordPolicy PasswordPolicyConfig `mapstructure:"password_policy"`
}

// LoginRateLimitConfig 窗口内最多 MaxAttempts 次，超出后封禁 BlockSeconds
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// PasswordPolicyConfig 密码策略
type PasswordPolicyConfig struct {
	MinLength      int  `mapstructure:"min_length"`
	RequireUpper   bool `mapstructure:"require_upper"`
	RequireLower   bool `mapstructure:"require_lower"`
	RequireNumber  bool `mapstructure:"require_number"`
	RequireSpecial bool `mapstructure:"require_special"`
}

// MetricsConfig Prometheus 指标
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// BackendConfig storectl 访问旧版后端所用的地址与超时
type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load 从 config.yml 加载配置（全局 viper）
func Load() *Config {
	cfg, err := LoadWith(viper.GetViper(), "")
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

// LoadWith 使用指定 viper 实例加载配置，file 为空时按默认路径查找
func LoadWith(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")     // 从当前目录查找
		v.AddConfigPath("../")   // 如果从 cmd/server 运行
		v.AddConfigPath("./etc") // etc 文件夹
	}

	SetDefaults(v)

	// 环境变量支持，例如 server.port -> SERVER_PORT
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaults 全部配置项默认值，键与 config.yml 结构一致
var defaults = map[string]any{
	"server.host":          "0.0.0.0",
	"server.port":          "8080",
	"server.mode":          "debug",
	"server.read_timeout":  "30s",
	"server.write_timeout": "30s",
	"server.idle_timeout":  "2m",

	"log.dir":          "",
	"log.filename":     "stationeryhub.log",
	"log.level":        "",
	"log.stdout":       false,
	"log.max_size_mb":  100,
	"log.max_backups":  7,
	"log.max_age_days": 30,
	"log.compress":     true,

	"database.driver":                  "sqlite",
	"database.dsn":                     "./db/stationeryhub.db",
	"database.pool.max_open_conns":     1,
	"database.pool.max_idle_conns":     1,
	"database.pool.conn_max_lifetime":  0,
	"database.pool.conn_max_idle_time": 0,

	"jwt.secret":                        "change-me-in-production",
	"jwt.expire_hours":                  24,
	"user_jwt.secret":                   "user-change-me-in-production",
	"user_jwt.expire_hours":             24,
	"user_jwt.remember_me_expire_hours": 168,

	"redis.enabled":  true,
	"redis.host":     "127.0.0.1",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,
	"redis.prefix":   "sh",

	"queue.enabled":     true,
	"queue.host":        "127.0.0.1",
	"queue.port":        6379,
	"queue.password":    "",
	"queue.db":          1,
	"queue.concurrency": 10,
	"queue.queues":      map[string]int{"default": 10, "critical": 5},

	"session.driver":      "redis",
	"session.cookie_name": "sh_session",
	"session.header_name": "X-Session-ID",
	"session.ttl_hours":   720,
	"session.secure":      false,

	"catalog.cache_ttl": "1m",

	"upload.dir":                "./uploads",
	"upload.max_size":           10 << 20,
	"upload.allowed_types":      []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	"upload.allowed_extensions": []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	"upload.max_width":          4096,
	"upload.max_height":         4096,

	"cors.allowed_origins":   []string{"*"},
	"cors.allowed_methods":   []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
	"cors.allowed_headers":   []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control", "X-Requested-With", "X-Session-ID"},
	"cors.allow_credentials": true,
	"cors.max_age":           600,

	"security.login_rate_limit.window_seconds": 300,
	"security.login_rate_limit.max_attempts":   5,
	"security.login_rate_limit.block_seconds":  900,
	"security.password_policy.min_length":      8,
	"security.password_policy.require_upper":   false,
	"security.password_policy.require_lower":   true,
	"security.password_policy.require_number":  true,
	"security.password_policy.require_special": false,

	"captcha.provider":          "none",
	"captcha.scenes.login":      false,
	"captcha.scenes.register":   false,
	"captcha.image.length":      5,
	"captcha.image.width":       240,
	"captcha.image.height":      80,
	"captcha.image.noise_count": 2,
	"captcha.image.show_line":   2,
	"captcha.image.expire":      "5m",
	"captcha.image.max_store":   10240,

	"metrics.enabled": true,
	"metrics.path":    "/metrics",

	"backend.base_url":        "http://localhost:5000",
	"backend.probe_timeout":   "5s",
	"backend.poll_interval":   "30s",
	"backend.request_timeout": "15s",
}

// SetDefaults 写入全部默认值
func SetDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

var weakSecretMarkers = []string{"change-me", "change-in-production", "your-secret-key"}

// IsWeakSecret 密钥过短或仍含示例占位词
func IsWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	for _, marker := range weakSecretMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// WeakSecrets 返回仍为弱密钥的配置项
func (c *Config) WeakSecrets() []string {
	var keys []string
	if IsWeakSecret(c.JWT.SecretKey) {
		keys = append(keys, "jwt.secret")
	}
	if IsWeakSecret(c.UserJWT.SecretKey) {
		keys = append(keys, "user_jwt.secret")
	}
	return keys
}
