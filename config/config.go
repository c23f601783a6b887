package config

import (
	"encoding/json"
	"os"
)

// Config holds every configurable knob of the simulation.
type Config struct {
	Simulation   SimulationConfig   `json:"simulation"`
	TrafficLight TrafficLightConfig `json:"trafficLight"`
	Vehicle      VehicleConfig      `json:"vehicle"`
	Logging      LoggingConfig      `json:"logging"`
	Recorder     RecorderConfig     `json:"recorder"`
	Server       ServerConfig       `json:"server"`
}

// SimulationConfig holds run-level settings.
type SimulationConfig struct {
	// Mode selects how the process runs: "headless" ticks to completion and
	// writes CSVs, "server" exposes the simulation over HTTP.
	Mode string `json:"mode"`

	MapFile   string `json:"mapFile"`
	Seed      uint64 `json:"seed"`
	TickLimit int    `json:"tickLimit"`

	// EvaluationOrder fixes which vehicle wins a contested cell:
	// "insertion" evaluates vehicles oldest-first, "shuffled" reorders
	// them once per tick. Safety does not depend on the choice.
	EvaluationOrder string `json:"evaluationOrder"`

	// SpawnEvery is the tick interval between spawn attempts.
	SpawnEvery int `json:"spawnEvery"`

	// StepsDistMax caps the trip-length histogram; longer trips land in
	// the last bucket.
	StepsDistMax int `json:"stepsDistMax"`
}

// TrafficLightConfig holds the shared signal cycle durations, in ticks.
type TrafficLightConfig struct {
	StopTicks    int `json:"stopTicks"`
	GoTicks      int `json:"goTicks"`
	CautionTicks int `json:"cautionTicks"`
}

// VehicleConfig holds the per-class vehicle parameters.
type VehicleConfig struct {
	// TypeAWeight is the probability a spawned vehicle is TypeA; the
	// remainder spawns as TypeB.
	TypeAWeight float64 `json:"typeAWeight"`

	TypeAPatience int `json:"typeAPatience"`
	TypeBPatience int `json:"typeBPatience"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	File               string `json:"file"`
	IntervalWriteToLog int    `json:"intervalWriteToLog"`
}

// RecorderConfig holds CSV data collection settings.
type RecorderConfig struct {
	Enabled       bool   `json:"enabled"`
	OutputDir     string `json:"outputDir"`
	FlushInterval int    `json:"flushInterval"`
}

// ServerConfig holds the snapshot HTTP server settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

var globalConfig *Config

// DefaultConfig returns a configuration with every field set to its default.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Simulation.Mode == "" {
		cfg.Simulation.Mode = "headless"
	}
	if cfg.Simulation.MapFile == "" {
		cfg.Simulation.MapFile = "maps/2024_base.txt"
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 1
	}
	if cfg.Simulation.TickLimit <= 0 {
		cfg.Simulation.TickLimit = 1000
	}
	if cfg.Simulation.EvaluationOrder == "" {
		cfg.Simulation.EvaluationOrder = "insertion"
	}
	if cfg.Simulation.SpawnEvery <= 0 {
		cfg.Simulation.SpawnEvery = 1
	}
	if cfg.Simulation.StepsDistMax <= 0 {
		cfg.Simulation.StepsDistMax = 100
	}

	if cfg.TrafficLight.StopTicks <= 0 {
		cfg.TrafficLight.StopTicks = 7
	}
	if cfg.TrafficLight.GoTicks <= 0 {
		cfg.TrafficLight.GoTicks = 6
	}
	if cfg.TrafficLight.CautionTicks <= 0 {
		cfg.TrafficLight.CautionTicks = 2
	}

	if cfg.Vehicle.TypeAWeight <= 0 || cfg.Vehicle.TypeAWeight > 1 {
		cfg.Vehicle.TypeAWeight = 0.7
	}
	if cfg.Vehicle.TypeAPatience <= 0 {
		cfg.Vehicle.TypeAPatience = 3
	}
	if cfg.Vehicle.TypeBPatience <= 0 {
		cfg.Vehicle.TypeBPatience = 2
	}

	if cfg.Logging.File == "" {
		cfg.Logging.File = "log/citytraffic.log"
	}
	if cfg.Logging.IntervalWriteToLog <= 0 {
		cfg.Logging.IntervalWriteToLog = 100
	}

	if cfg.Recorder.OutputDir == "" {
		cfg.Recorder.OutputDir = "data"
	}
	if cfg.Recorder.FlushInterval <= 0 {
		cfg.Recorder.FlushInterval = 500
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "localhost:8585"
	}
}

// LoadConfig loads configuration from the specified JSON file.
func LoadConfig(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return err
	}
	applyDefaults(cfg)

	globalConfig = cfg
	return nil
}

// GetConfig returns the global configuration instance.
func GetConfig() *Config {
	if globalConfig == nil {
		globalConfig = DefaultConfig()
	}
	return globalConfig
}
