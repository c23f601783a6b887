package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"citytraffic/config"
	"citytraffic/log"
	"citytraffic/recorder"
	"citytraffic/server"
	"citytraffic/simulator"
)

func main() {
	if err := config.LoadConfig("config/config.json"); err != nil {
		fmt.Printf("config/config.json not loaded (%v), using defaults\n", err)
	}
	cfg := config.GetConfig()

	if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
		panic(fmt.Sprintf("Failed to create log directory: %v", err))
	}
	if err := log.InitLog(cfg.Logging.File); err != nil {
		panic(fmt.Sprintf("Failed to init log: %v", err))
	}
	defer log.CloseLog()
	log.LogEnvironment()

	lines, err := simulator.LoadMapFile(cfg.Simulation.MapFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load map %s: %v", cfg.Simulation.MapFile, err))
	}
	params := simulator.ParamsFromConfig(cfg)

	switch cfg.Simulation.Mode {
	case "server":
		srv := server.NewServer(lines, params)
		if err := srv.Run(cfg.Server.Addr); err != nil {
			panic(fmt.Sprintf("Server failed: %v", err))
		}
	default:
		runHeadless(cfg, lines, params)
	}
}

// runHeadless ticks the simulation to the configured limit, collecting CSV
// data along the way.
func runHeadless(cfg *config.Config, lines []string, params simulator.Params) {
	state, err := simulator.Initialize(lines, params)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize simulation: %v", err))
	}

	runID := uuid.New().String()
	var systemDataFile, tripDataFile string
	if cfg.Recorder.Enabled {
		systemDataFile, tripDataFile = initializeRecorder(cfg, runID)
	}
	log.WriteLog(fmt.Sprintf("run %s: map=%s ticks=%d order=%s spawnEvery=%d",
		runID, cfg.Simulation.MapFile, cfg.Simulation.TickLimit,
		cfg.Simulation.EvaluationOrder, cfg.Simulation.SpawnEvery))

	writeData := func() {
		if !cfg.Recorder.Enabled {
			return
		}
		if err := recorder.WriteToSystemDataCSV(systemDataFile); err != nil {
			log.WriteLog(fmt.Sprintf("system data write failed: %v", err))
		}
		if err := recorder.WriteToTripDataCSV(tripDataFile); err != nil {
			log.WriteLog(fmt.Sprintf("trip data write failed: %v", err))
		}
	}

	log.WriteLog("----------------------------------Simulation Start----------------------------------")
	startTime := time.Now()

	for tick := 0; tick < cfg.Simulation.TickLimit; tick++ {
		state.Step()

		counters := state.Counters()
		if cfg.Recorder.Enabled {
			recorder.RecordSystemData(counters)
			recorder.RecordTrips(state.DrainTrips())
		} else {
			state.DrainTrips()
		}

		if counters.Tick%cfg.Logging.IntervalWriteToLog == 0 {
			log.WriteLog(fmt.Sprintf("Tick: %d, Active: %d, Spawned: %d, Completed: %d, Dropped: %d, MemoHits: %d, MemoMisses: %d",
				counters.Tick, counters.ActiveVehicles, counters.Spawned,
				counters.Completed, counters.Dropped, counters.MemoHits, counters.MemoMisses))
		}
		if cfg.Recorder.Enabled && counters.Tick%cfg.Recorder.FlushInterval == 0 {
			writeData()
		}
	}

	writeData()
	log.WriteLog(fmt.Sprintf("---------------------------------- Completed in %v ----------------------------------",
		time.Since(startTime)))
}

func initializeRecorder(cfg *config.Config, runID string) (systemDataFile, tripDataFile string) {
	if err := os.MkdirAll(cfg.Recorder.OutputDir, 0755); err != nil {
		panic(fmt.Sprintf("Failed to create data directory: %v", err))
	}

	systemDataFile = filepath.Join(cfg.Recorder.OutputDir, fmt.Sprintf("%s_SystemData.csv", runID))
	tripDataFile = filepath.Join(cfg.Recorder.OutputDir, fmt.Sprintf("%s_TripData.csv", runID))

	if err := recorder.InitSystemDataCSV(systemDataFile); err != nil {
		panic(fmt.Sprintf("Failed to init system data CSV: %v", err))
	}
	if err := recorder.InitTripDataCSV(tripDataFile); err != nil {
		panic(fmt.Sprintf("Failed to init trip data CSV: %v", err))
	}
	return systemDataFile, tripDataFile
}
