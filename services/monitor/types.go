// Package monitor implements the health-and-metrics monitor of the console:
// a periodic scheduler that probes every active connection, records status
// transitions and recent metrics, evaluates threshold alerts and fans
// results out to subscribed sessions.
package monitor

import "time"

// ServerStatus is the subset of the serverStatus command output the monitor
// keeps. Groups are pointers because not every server version or topology
// reports every section; a missing group skips the dependent alert rules.
type ServerStatus struct {
	Uptime      int64            `bson:"uptime" json:"uptime"`
	Connections *ConnectionStats `bson:"connections,omitempty" json:"connections,omitempty"`
	Mem         *MemoryStats     `bson:"mem,omitempty" json:"mem,omitempty"`
	Network     *NetworkStats    `bson:"network,omitempty" json:"network,omitempty"`
	Opcounters  *OpCounters      `bson:"opcounters,omitempty" json:"opcounters,omitempty"`
}

// ConnectionStats tracks concurrent client connections on the target.
type ConnectionStats struct {
	Current      int64 `bson:"current" json:"current"`
	Available    int64 `bson:"available" json:"available"`
	TotalCreated int64 `bson:"totalCreated" json:"total_created"`
}

// MemoryStats tracks target memory figures in megabytes, as reported.
type MemoryStats struct {
	Resident int64 `bson:"resident" json:"resident"`
	Virtual  int64 `bson:"virtual" json:"virtual"`
}

// NetworkStats tracks cumulative network counters.
type NetworkStats struct {
	BytesIn     int64 `bson:"bytesIn" json:"bytes_in"`
	BytesOut    int64 `bson:"bytesOut" json:"bytes_out"`
	NumRequests int64 `bson:"numRequests" json:"num_requests"`
}

// OpCounters tracks cumulative operation counters.
type OpCounters struct {
	Insert  int64 `bson:"insert" json:"insert"`
	Query   int64 `bson:"query" json:"query"`
	Update  int64 `bson:"update" json:"update"`
	Delete  int64 `bson:"delete" json:"delete"`
	Command int64 `bson:"command" json:"command"`
}

// ProbeResult is the outcome of one successful liveness probe. It is
// immutable once created; the metrics store and hub share references.
type ProbeResult struct {
	Timestamp    time.Time     `json:"timestamp"`
	ResponseTime float64       `json:"response_time"` // ping round-trip in milliseconds
	Server       *ServerStatus `json:"server,omitempty"`
}

// Event types delivered to hub subscribers.
const (
	EventMetrics = "metrics"
	EventError   = "error"
)

// Event is one push notification for a connection: either a fresh probe
// result or a probe failure description.
type Event struct {
	Type         string       `json:"type"`
	ConnectionID uint         `json:"connectionId"`
	Data         *ProbeResult `json:"data,omitempty"`
	Error        string       `json:"error,omitempty"`
}
