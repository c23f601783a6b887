package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Simulation.Mode != "headless" {
		t.Errorf("expected headless mode default, got %q", cfg.Simulation.Mode)
	}
	if cfg.TrafficLight.StopTicks != 7 || cfg.TrafficLight.GoTicks != 6 || cfg.TrafficLight.CautionTicks != 2 {
		t.Errorf("unexpected signal defaults %+v", cfg.TrafficLight)
	}
	if cfg.Vehicle.TypeAWeight != 0.7 {
		t.Errorf("expected TypeA weight 0.7, got %v", cfg.Vehicle.TypeAWeight)
	}
	if cfg.Vehicle.TypeAPatience != 3 || cfg.Vehicle.TypeBPatience != 2 {
		t.Errorf("unexpected patience defaults %+v", cfg.Vehicle)
	}
	if cfg.Simulation.EvaluationOrder != "insertion" {
		t.Errorf("expected insertion order default, got %q", cfg.Simulation.EvaluationOrder)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"simulation": {"tickLimit": 50, "evaluationOrder": "shuffled"}, "vehicle": {"typeAWeight": 0.5}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := LoadConfig(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := GetConfig()

	if cfg.Simulation.TickLimit != 50 {
		t.Errorf("expected tick limit 50, got %d", cfg.Simulation.TickLimit)
	}
	if cfg.Simulation.EvaluationOrder != "shuffled" {
		t.Errorf("expected shuffled order, got %q", cfg.Simulation.EvaluationOrder)
	}
	if cfg.Vehicle.TypeAWeight != 0.5 {
		t.Errorf("expected TypeA weight 0.5, got %v", cfg.Vehicle.TypeAWeight)
	}
	// Unset fields fall back to defaults.
	if cfg.TrafficLight.StopTicks != 7 {
		t.Errorf("expected default stop ticks, got %d", cfg.TrafficLight.StopTicks)
	}
	if cfg.Simulation.MapFile != "maps/2024_base.txt" {
		t.Errorf("expected default map file, got %q", cfg.Simulation.MapFile)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing config file")
	}
}
