package recorder

import (
	"fmt"
	"strconv"
	"sync"

	"citytraffic/simulator"
)

var (
	tripDataCache [][]string
	tripDataMutex sync.Mutex
)

// InitTripDataCSV creates the completed-trip data file.
func InitTripDataCSV(filename string) error {
	header := []string{
		"VehicleID", "Class", "Origin", "Destination", "SpawnTick", "EndTick", "TripTicks", "Dropped",
	}
	return initializeCSV(filename, header)
}

// RecordTrips caches one row per finished trip.
func RecordTrips(trips []simulator.TripRecord) {
	if len(trips) == 0 {
		return
	}

	tripDataMutex.Lock()
	defer tripDataMutex.Unlock()

	for _, t := range trips {
		tripDataCache = append(tripDataCache, []string{
			strconv.FormatInt(t.VehicleID, 10),
			t.Class.String(),
			fmt.Sprintf("(%d,%d)", t.Origin.X, t.Origin.Y),
			fmt.Sprintf("(%d,%d)", t.Destination.X, t.Destination.Y),
			strconv.Itoa(t.SpawnTick),
			strconv.Itoa(t.EndTick),
			strconv.Itoa(t.TripTicks),
			strconv.FormatBool(t.Dropped),
		})
	}
}

// WriteToTripDataCSV flushes the cached rows and clears the cache.
func WriteToTripDataCSV(filename string) error {
	tripDataMutex.Lock()
	defer tripDataMutex.Unlock()

	if len(tripDataCache) == 0 {
		return nil
	}
	if err := appendToCSV(filename, tripDataCache); err != nil {
		return err
	}
	tripDataCache = nil
	return nil
}
