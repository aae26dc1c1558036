// Package system reports host-level resource figures for the dashboard.
// These describe the machine running the console, not any MongoDB target.
package system

import (
	"github.com/michaelkaiserz/mongomanager/pkg/logger"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats holds a point-in-time snapshot of the console host.
type Stats struct {
	Hostname           string  `json:"hostname"`
	UptimeSeconds      uint64  `json:"uptime_seconds"`
	CPUUsagePercent    float64 `json:"cpu_usage_percent"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`
	MemoryUsedBytes    uint64  `json:"memory_used_bytes"`
	MemoryTotalBytes   uint64  `json:"memory_total_bytes"`
	LoadAvg1m          float64 `json:"load_1m"`
	LoadAvg5m          float64 `json:"load_5m"`
	LoadAvg15m         float64 `json:"load_15m"`
}

// Collect gathers a host stats snapshot. A collector that fails is logged
// and leaves its fields zero; a partial snapshot beats an empty dashboard
// panel.
func Collect() (*Stats, error) {
	s := &Stats{}

	if info, err := host.Info(); err != nil {
		logger.Warnf("Host info unavailable: %v", err)
	} else {
		s.Hostname = info.Hostname
		s.UptimeSeconds = info.Uptime
	}

	if cpuPercent, err := cpu.Percent(0, false); err != nil {
		logger.Warnf("CPU usage unavailable: %v", err)
	} else if len(cpuPercent) > 0 {
		s.CPUUsagePercent = cpuPercent[0]
	}

	if memStats, err := mem.VirtualMemory(); err != nil {
		logger.Warnf("Memory stats unavailable: %v", err)
	} else {
		s.MemoryUsagePercent = memStats.UsedPercent
		s.MemoryUsedBytes = memStats.Used
		s.MemoryTotalBytes = memStats.Total
	}

	if loadStats, err := load.Avg(); err != nil {
		logger.Warnf("Load average unavailable: %v", err)
	} else {
		s.LoadAvg1m = loadStats.Load1
		s.LoadAvg5m = loadStats.Load5
		s.LoadAvg15m = loadStats.Load15
	}

	return s, nil
}
