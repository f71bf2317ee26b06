package domain

import "time"

type NodeType string

const (
	DASHBOARD NodeType = "DASHBOARD"
	SIGNALING NodeType = "SIGNALING"
)

// NodeHealth is the heartbeat a process publishes about itself.
type NodeHealth struct {
	ID        string    `json:"id"`
	Type      NodeType  `json:"type"`
	PID       int64     `json:"pid"`
	PIDStatus PidStatus `json:"pid_status"`
	CPU       float64   `json:"cpu_percent"`
	RAM       uint64    `json:"ram_bytes"`
	Placed    int       `json:"placed"`
	Layout    Layout    `json:"layout"`
	At        time.Time `json:"at"`
}
