package report

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host describes the machine a calibration ran on.
type Host struct {
	CPUModel      string `json:"cpu_model" yaml:"cpu_model"`
	CPUThreads    int    `json:"cpu_threads" yaml:"cpu_threads"`
	RAMTotalBytes uint64 `json:"ram_total_bytes" yaml:"ram_total_bytes"`
	OS            string `json:"os" yaml:"os"`
	Architecture  string `json:"architecture" yaml:"architecture"`
	GoVersion     string `json:"go_version" yaml:"go_version"`
}

// DetectHost collects host details. Fields gopsutil cannot read are left
// empty; only a failure to read anything at all is an error.
func DetectHost() (*Host, error) {
	h := &Host{
		CPUThreads:   runtime.NumCPU(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		GoVersion:    runtime.Version(),
	}

	infos, cpuErr := cpu.Info()
	if cpuErr == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		h.CPUThreads = n
	}

	vm, memErr := mem.VirtualMemory()
	if memErr == nil {
		h.RAMTotalBytes = vm.Total
	}

	if cpuErr != nil && memErr != nil {
		return h, fmt.Errorf("failed to detect host: %w", cpuErr)
	}
	return h, nil
}

// FormatRAM renders a byte count as GB.
func FormatRAM(bytes uint64) string {
	return fmt.Sprintf("%.1f GB", float64(bytes)/(1024*1024*1024))
}
