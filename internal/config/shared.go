package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
		LogLevel    string `mapstructure:"log_level"`
		JWTSecret   string `mapstructure:"jwt_secret"`
	} `mapstructure:"server"`
	Database struct {
		Driver   string `mapstructure:"driver"` // postgres or sqlite
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		Path     string `mapstructure:"path"` // sqlite file
	} `mapstructure:"database"`
	Library struct {
		Path            string `mapstructure:"path"`
		PollingInterval int    `mapstructure:"polling_interval_seconds"`
	} `mapstructure:"library"`
	Builder struct {
		ProfilesFile  string  `mapstructure:"profiles_file"`
		TargetLength  int     `mapstructure:"target_length"`
		Lambda        float64 `mapstructure:"lambda_popularity"`
		MaxBPMDelta   float64 `mapstructure:"max_bpm_delta"`
		MinCoherence  float64 `mapstructure:"min_coherence_threshold"`
		ArcType       string  `mapstructure:"energy_arc_type"`
		WeightBPM     float64 `mapstructure:"w_bpm"`
		WeightKey     float64 `mapstructure:"w_key"`
		WeightValence float64 `mapstructure:"w_valence"`
		WeightEnergy  float64 `mapstructure:"w_energy"`
	} `mapstructure:"builder"`
	Storage struct {
		Provider     string `mapstructure:"provider"` // local or s3
		LocalStorage string `mapstructure:"local_storage"`
		KeyID        string `mapstructure:"key_id"`
		AppKey       string `mapstructure:"app_key"`
		Endpoint     string `mapstructure:"endpoint"`
		Region       string `mapstructure:"region"`
		BucketExport string `mapstructure:"bucket_export"`
	} `mapstructure:"storage"`
}

func Load() *Config {
	viper.SetEnvPrefix("MUSICFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("server.port")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.log_level")
	viper.BindEnv("server.jwt_secret")

	viper.BindEnv("database.driver")
	viper.BindEnv("database.host")
	viper.BindEnv("database.port")
	viper.BindEnv("database.user")
	viper.BindEnv("database.password")
	viper.BindEnv("database.name")
	viper.BindEnv("database.path")

	viper.BindEnv("library.path")
	viper.BindEnv("library.polling_interval_seconds")

	viper.BindEnv("builder.profiles_file")
	viper.BindEnv("builder.target_length")
	viper.BindEnv("builder.lambda_popularity")
	viper.BindEnv("builder.max_bpm_delta")
	viper.BindEnv("builder.min_coherence_threshold")
	viper.BindEnv("builder.energy_arc_type")
	viper.BindEnv("builder.w_bpm")
	viper.BindEnv("builder.w_key")
	viper.BindEnv("builder.w_valence")
	viper.BindEnv("builder.w_energy")

	viper.BindEnv("storage.provider")
	viper.BindEnv("storage.local_storage")
	viper.BindEnv("storage.key_id")
	viper.BindEnv("storage.app_key")
	viper.BindEnv("storage.endpoint")
	viper.BindEnv("storage.region")
	viper.BindEnv("storage.bucket_export")

	// Defaults
	viper.SetDefault("server.port", ":8081")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.log_level", "info")

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.path", "musicflow.db")

	viper.SetDefault("library.path", "./music")
	viper.SetDefault("library.polling_interval_seconds", 60)

	viper.SetDefault("builder.profiles_file", "profiles.yaml")
	viper.SetDefault("builder.target_length", 30)
	viper.SetDefault("builder.lambda_popularity", 0.4)
	viper.SetDefault("builder.max_bpm_delta", 10.0)
	viper.SetDefault("builder.min_coherence_threshold", 0.6)
	viper.SetDefault("builder.energy_arc_type", "progressive")
	viper.SetDefault("builder.w_bpm", 0.25)
	viper.SetDefault("builder.w_key", 0.30)
	viper.SetDefault("builder.w_valence", 0.25)
	viper.SetDefault("builder.w_energy", 0.20)

	viper.SetDefault("storage.provider", "local")
	viper.SetDefault("storage.local_storage", "./exports")
	viper.SetDefault("storage.bucket_export", "playlists")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	return &cfg
}
