package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var ExtConfig Extend

// Extend mirrors config/settings.yml.
type Extend struct {
	Application ApplicationConfig `yaml:"application"`
	Mongodb     MongodbConfig     `yaml:"mongodb"`
	Redis       RedisConfig       `yaml:"redis"`
	Lock        LockConfig        `yaml:"lock"`
}

type ApplicationConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type MongodbConfig struct {
	DSN      string `yaml:"dsn"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Dsn      string `yaml:"dsn"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`
}

type LockConfig struct {
	TTLSeconds      int `yaml:"ttlseconds"`
	RetryIntervalMS int `yaml:"retryintervalms"`
	RetryLimit      int `yaml:"retrylimit"`
}

func Setup(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(&ExtConfig, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
}
