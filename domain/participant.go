// Package domain contains core concepts of the screen-share dashboard.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// UnknownName is the placeholder a receiver reports for a stream it cannot
// attribute. It is never a valid placement entry.
const UnknownName = "Unknown"

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SameIdentity compares by ID when both sides carry one, by name otherwise.
func (p Participant) SameIdentity(other Participant) bool {
	if p.ID != "" && other.ID != "" {
		return p.ID == other.ID
	}
	return p.Name == other.Name
}

// IsPlaceable reports whether the entry may appear in a placement snapshot.
func (p Participant) IsPlaceable() bool {
	return p.Name != "" && p.Name != UnknownName
}
