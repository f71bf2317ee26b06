package domain

import "time"

// StreamStats is the per-sender telemetry a receiver reports once per second.
type StreamStats struct {
	Name   string    `json:"name"`
	FPS    float64   `json:"fps"`
	AvgFPS float64   `json:"avg_fps"`
	Mbps   float64   `json:"mbps"`
	Drop   float64   `json:"drop"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	At     time.Time `json:"at"`
}
