// Package config loads the linker configuration from a YAML file.
//
// Values missing from the file keep their defaults; the merged result is validated with
// struct tags.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	ElevationInterpolate = "interpolate"
	ElevationDrop        = "drop"
)

type LinkingConfig struct {
	MaxSearchRadiusMeters     float64 `yaml:"maxSearchRadiusMeters" validate:"gt=0"`
	DuplicateWayEpsilonMeters float64 `yaml:"duplicateWayEpsilonMeters" validate:"gt=0"`
	ElevationOnSplit          string  `yaml:"elevationOnSplit" validate:"oneof=interpolate drop"`
}

type IndexConfig struct {
	Type            string  `yaml:"type" validate:"oneof=hashgrid rtree"`
	CellSizeDegrees float64 `yaml:"cellSizeDegrees" validate:"gt=0,lte=1"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listenAddr" validate:"required"`
}

type Config struct {
	Linking LinkingConfig `yaml:"linking"`
	Index   IndexConfig   `yaml:"index"`
	Server  ServerConfig  `yaml:"server"`
}

func Default() Config {
	return Config{
		Linking: LinkingConfig{
			MaxSearchRadiusMeters:     1000,
			DuplicateWayEpsilonMeters: 0.001,
			ElevationOnSplit:          ElevationInterpolate,
		},
		Index: IndexConfig{
			Type:            "hashgrid",
			CellSizeDegrees: 0.01,
		},
		Server: ServerConfig{
			ListenAddr: ":5000",
		},
	}
}

// KeepElevation reports whether split edges keep a cut elevation profile.
func (c LinkingConfig) KeepElevation() bool {
	return c.ElevationOnSplit != ElevationDrop
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags and returns the translated messages joined.
func Validate(cfg Config) error {
	validate := validator.New()
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	msgs := make([]string, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}
