package operations

import (
	"context"
	"encoding/json"
	"os"
	"runtime"
	"time"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

// InfoName is the registered name of Info.
const InfoName = "System_Info"

// SystemInfo is the payload returned by Info.
type SystemInfo struct {
	OS        string    `json:"os"`
	Arch      string    `json:"arch"`
	CPUs      int       `json:"cpus"`
	Hostname  string    `json:"hostname,omitempty"`
	GoVersion string    `json:"goVersion"`
	PID       int       `json:"pid"`
	Time      time.Time `json:"time"`
}

// Info reports host details as JSON.
func Info(_ context.Context, _ domain.Params) (*domain.OperationResult, error) {
	host, _ := os.Hostname()
	info := SystemInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		Hostname:  host,
		GoVersion: runtime.Version(),
		PID:       os.Getpid(),
		Time:      time.Now(),
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, err
	}
	return domain.TextResult(string(data)), nil
}
