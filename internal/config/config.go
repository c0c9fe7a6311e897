package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DBURL     string
	RedisAddr string
	LogLevel  string
	JWTSecret string
	HTTPPort  int

	MQTTBroker       string
	MQTTClientID     string
	MQTTUsername     string
	MQTTPassword     string
	MQTTKeepAlive    int
	MQTTCleanSession bool
	MQTTQoS          byte
	SubscribeTopic   string
	PublishTopic     string
	AlarmRetain      bool
	DispatchTimeout  time.Duration

	// Global default threshold bounds, loaded once at startup.
	TempMin float64
	TempMax float64
	OxyMin  float64
	OxyMax  float64

	RetentionDays int
}

// LoadConfig reads configuration from file, .env, or env vars
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		println("Error loading .env file: ", err)
	}

	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("HTTP_PORT", 8080)
	viper.SetDefault("MQTT_CLIENT_ID", "aquactl-backend")
	viper.SetDefault("MQTT_KEEP_ALIVE", 60)
	viper.SetDefault("MQTT_CLEAN_SESSION", false)
	viper.SetDefault("MQTT_QOS", 0)
	viper.SetDefault("MQTT_SUBSCRIBE_TOPIC", "devices/data/upload")
	viper.SetDefault("MQTT_PUBLISH_TOPIC", "devices/config/alarm")
	viper.SetDefault("MQTT_RETAIN_ALARM", true)
	viper.SetDefault("DISPATCH_TIMEOUT_SECS", 5)
	viper.SetDefault("THRESHOLD_TEMP_MIN", 20.0)
	viper.SetDefault("THRESHOLD_TEMP_MAX", 32.0)
	viper.SetDefault("THRESHOLD_OXY_MIN", 5.0)
	viper.SetDefault("THRESHOLD_OXY_MAX", 10.0)
	viper.SetDefault("RETENTION_DAYS", 150)

	cfg := &Config{
		DBURL:     viper.GetString("DB_URL"),
		RedisAddr: viper.GetString("REDIS_ADDR"),
		LogLevel:  viper.GetString("LOG_LEVEL"),
		JWTSecret: viper.GetString("JWT_SECRET"),
		HTTPPort:  viper.GetInt("HTTP_PORT"),

		MQTTBroker:       viper.GetString("MQTT_BROKER"),
		MQTTClientID:     viper.GetString("MQTT_CLIENT_ID"),
		MQTTUsername:     viper.GetString("MQTT_USERNAME"),
		MQTTPassword:     viper.GetString("MQTT_PASSWORD"),
		MQTTKeepAlive:    viper.GetInt("MQTT_KEEP_ALIVE"),
		MQTTCleanSession: viper.GetBool("MQTT_CLEAN_SESSION"),
		MQTTQoS:          byte(viper.GetUint("MQTT_QOS")),
		SubscribeTopic:   viper.GetString("MQTT_SUBSCRIBE_TOPIC"),
		PublishTopic:     viper.GetString("MQTT_PUBLISH_TOPIC"),
		AlarmRetain:      viper.GetBool("MQTT_RETAIN_ALARM"),
		DispatchTimeout:  time.Duration(viper.GetInt("DISPATCH_TIMEOUT_SECS")) * time.Second,

		TempMin: viper.GetFloat64("THRESHOLD_TEMP_MIN"),
		TempMax: viper.GetFloat64("THRESHOLD_TEMP_MAX"),
		OxyMin:  viper.GetFloat64("THRESHOLD_OXY_MIN"),
		OxyMax:  viper.GetFloat64("THRESHOLD_OXY_MAX"),

		RetentionDays: viper.GetInt("RETENTION_DAYS"),
	}
	return cfg, nil
}
