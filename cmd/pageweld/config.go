package main

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     int             `yaml:"port" validate:"omitempty,min=1,max=65535"`
	Origin   string          `yaml:"origin" validate:"omitempty,url"`
	Provider string          `yaml:"provider" validate:"omitempty,oneof=memory sqlite leveldb"`
	DBPath   string          `yaml:"dbPath"`
	Mappings []MappingConfig `yaml:"decorators" validate:"dive"`
}

type MappingConfig struct {
	// Path pattern for content to decorate: exact ("/content"),
	// prefix ("/docs/*"), suffix ("*.html") or fallback ("/*").
	Path string `yaml:"path" validate:"required"`
	// Decorator paths applied in order, innermost first.
	Decorators []string `yaml:"decorators" validate:"min=1,dive,required"`
}

func getConfig(filename string) (Config, error) {
	var config Config
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		return config, err
	}
	err = validator.New().Struct(config)
	return config, err
}
