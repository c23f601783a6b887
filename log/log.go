package log

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// InitLog opens the log file, creating parent-less paths as needed.
// Before InitLog is called WriteLog prints to stdout only.
func InitLog(filename string) error {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	logFile = file
	return nil
}

// WriteLog writes a timestamped line to stdout and, if initialized, the log file.
func WriteLog(msg string) {
	mu.Lock()
	defer mu.Unlock()

	line := fmt.Sprintf("%s %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)
	fmt.Print(line)
	if logFile != nil {
		if _, err := logFile.WriteString(line); err != nil {
			fmt.Fprintf(os.Stderr, "log write failed: %v\n", err)
		}
	}
}

// LogEnvironment records basic runtime information at startup.
func LogEnvironment() {
	WriteLog(fmt.Sprintf("Go %s, GOMAXPROCS=%d, OS=%s/%s",
		runtime.Version(), runtime.GOMAXPROCS(0), runtime.GOOS, runtime.GOARCH))
}

// CloseLog flushes and closes the log file.
func CloseLog() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "log close failed: %v\n", err)
		}
		logFile = nil
	}
}
