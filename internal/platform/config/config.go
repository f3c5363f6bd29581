package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Redis  RedisConfig  `mapstructure:"redis"`
	Sqlite SqliteConfig `mapstructure:"sqlite"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SqliteConfig 定义了SQLite数据库文件的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// AdminConfig 定义了管理端点的鉴权配置
type AdminConfig struct {
	// Token 是管理端点的Bearer令牌。为空时管理端点全部拒绝访问。
	Token string `mapstructure:"token"`
	// ResetTokenTTL 是重置确认令牌的有效期
	ResetTokenTTL time.Duration `mapstructure:"resetTokenTTL"`
}

// GameConfig 定义了游戏侧的配置
type GameConfig struct {
	// Whitelist 是允许注册的OC名单，为空表示不做白名单校验
	Whitelist []string `mapstructure:"whitelist"`
	// DailyCoinLimit 是每人每日可获得碎钱的上限
	DailyCoinLimit int `mapstructure:"dailyCoinLimit"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 2. 添加配置文件搜索路径
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 3. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:9090
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 缺省值
	v.SetDefault("server.address", ":3001")
	v.SetDefault("database.sqlite.path", "turbid_dust.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("admin.resetTokenTTL", 2*time.Minute)
	v.SetDefault("game.dailyCoinLimit", 15)

	// 5. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 允许在没有配置文件的环境下（如测试）完全依赖缺省值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}
