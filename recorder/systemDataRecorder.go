package recorder

import (
	"strconv"
	"sync"

	"citytraffic/simulator"
)

var (
	systemDataCache [][]string
	systemDataMutex sync.Mutex
)

// InitSystemDataCSV creates the per-tick system data file.
func InitSystemDataCSV(filename string) error {
	header := []string{
		"Tick", "ActiveVehicles", "Spawned", "Completed", "Dropped", "MemoHits", "MemoMisses",
	}
	return initializeCSV(filename, header)
}

// RecordSystemData caches one per-tick counter row.
func RecordSystemData(c simulator.Counters) {
	systemDataMutex.Lock()
	defer systemDataMutex.Unlock()

	systemDataCache = append(systemDataCache, []string{
		strconv.Itoa(c.Tick),
		strconv.Itoa(c.ActiveVehicles),
		strconv.FormatInt(c.Spawned, 10),
		strconv.FormatInt(c.Completed, 10),
		strconv.FormatInt(c.Dropped, 10),
		strconv.FormatInt(c.MemoHits, 10),
		strconv.FormatInt(c.MemoMisses, 10),
	})
}

// WriteToSystemDataCSV flushes the cached rows and clears the cache.
func WriteToSystemDataCSV(filename string) error {
	systemDataMutex.Lock()
	defer systemDataMutex.Unlock()

	if len(systemDataCache) == 0 {
		return nil
	}
	if err := appendToCSV(filename, systemDataCache); err != nil {
		return err
	}
	systemDataCache = nil
	return nil
}
