package main

import (
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

type Config struct {
	Run struct {
		Period    string `yaml:"period" validate:"required"`
		OutputDir string `yaml:"output-dir" validate:"required"`
	} `yaml:"run"`
	Network struct {
		Snapshot string `yaml:"snapshot" validate:"required"`
	} `yaml:"network"`
	Fares struct {
		SystemFile string `yaml:"system-file" validate:"required"`
		MatrixFile string `yaml:"matrix-file" validate:"required"`
		// maximum stop separation over which transfers are forbidden,
		// in the network's length units
		MaxTransferDistance float64 `yaml:"max-transfer-distance" validate:"gt=0"`
		// share of multi-stop fare zones above which a FROMTO system is
		// treated as an area fare
		ZoneShareThreshold float64 `yaml:"zone-share-threshold" validate:"gte=0,lte=1"`
	} `yaml:"fares"`
	Variants []VariantOptions `yaml:"variants" validate:"dive"`
}

type VariantOptions struct {
	Name  string   `yaml:"name" validate:"required"`
	Modes []string `yaml:"modes" validate:"required,min=1"`
}

func ReadConfig(file string) (Config, error) {
	slog.Info("Reading config file", "file", file)
	var config Config
	data, err := os.ReadFile(file)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, err
	}
	if config.Fares.ZoneShareThreshold == 0 {
		config.Fares.ZoneShareThreshold = 0.1
	}
	if err := validator.New().Struct(config); err != nil {
		return config, err
	}
	return config, nil
}
