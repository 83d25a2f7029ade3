package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	JWTSecret string `mapstructure:"jwt_secret"`

	Database DBConfig    `mapstructure:"database"`
	Rules    RulesConfig `mapstructure:"rules"`
}

type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// RulesConfig 是板子规则的默认值，
// 创建会话时可以逐项覆盖
type RulesConfig struct {
	Elixir         string   `mapstructure:"elixir"`
	Poison         string   `mapstructure:"poison"`
	Bodyguard      string   `mapstructure:"bodyguard"`
	DayVotePolicy  string   `mapstructure:"day_vote_policy"`
	QuorumFraction float64  `mapstructure:"quorum_fraction"`
	RevealRole     *bool    `mapstructure:"reveal_role_on_death"`
	SpecialRoles   []string `mapstructure:"special_roles"`
	DaytimeSeconds int      `mapstructure:"daytime_seconds"`
	VotingSeconds  int      `mapstructure:"voting_seconds"`
	NightSeconds   int      `mapstructure:"night_seconds"`
}

var cfg *AppConfig

func GetConfig() *AppConfig {
	if cfg == nil {
		cfg = InitConfig()
	}

	return cfg
}

func InitConfig() *AppConfig {
	v := viper.New()

	v.SetConfigFile("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("解析配置失败: %w", err))
	}

	return &config
}
