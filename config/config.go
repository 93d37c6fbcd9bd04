package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type GameConfig struct {
	MaxPlayers     int           `mapstructure:"max_players"`
	MinPlayers     int           `mapstructure:"min_players"`
	TotalRounds    int           `mapstructure:"total_rounds"`
	RoundDuration  time.Duration `mapstructure:"round_duration"`
	VoteDuration   time.Duration `mapstructure:"vote_duration"`
	FixReviewDelay time.Duration `mapstructure:"fix_review_delay"`
	EmptyRoomGrace time.Duration `mapstructure:"empty_room_grace"`
	RoomMaxAge     time.Duration `mapstructure:"room_max_age"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
}

type DatabaseConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	setDefaults()
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// Defaults are enough to run without a config file.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}

func setDefaults() {
	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9090")

	viper.SetDefault("game.max_players", 6)
	viper.SetDefault("game.min_players", 3)
	viper.SetDefault("game.total_rounds", 3)
	viper.SetDefault("game.round_duration", 5*time.Minute)
	viper.SetDefault("game.vote_duration", time.Minute)
	viper.SetDefault("game.fix_review_delay", 5*time.Second)
	viper.SetDefault("game.empty_room_grace", 30*time.Second)
	viper.SetDefault("game.room_max_age", 2*time.Hour)
	viper.SetDefault("game.sweep_interval", 30*time.Minute)

	viper.SetDefault("database.enabled", false)
}
