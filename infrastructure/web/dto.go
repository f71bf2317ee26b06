package web

import (
	"share-lab/domain"
	"share-lab/infrastructure/storage"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type LoginResponse struct {
	Token string `json:"token"`
}

// PlacementRequest is a drop: on the video area, on a slot or on a layout option.
type PlacementRequest struct {
	Name   string        `json:"name" validate:"required,max=64"`
	Slot   domain.SlotID `json:"slot" validate:"omitempty,oneof=slot-0 slot-1 slot-2 slot-3"`
	Layout domain.Layout `json:"layout" validate:"omitempty,min=1,max=4"`
}

type LayoutRequest struct {
	Layout domain.Layout `json:"layout" validate:"required,min=1,max=4"`
}

type TranscriptRequest struct {
	Transcript string `json:"transcript" validate:"required,max=2000"`
}

type StateResponse struct {
	State domain.BoardState `json:"state"`
}

type HistoryResponse struct {
	Records []storage.SnapshotRecord `json:"records"`
	Cursor  *string                  `json:"cursor,omitempty"`
}
