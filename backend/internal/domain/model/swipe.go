package model

import (
	"time"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
)

// SwipeKey identifies a single ledger row. At most one record exists per key.
type SwipeKey struct {
	ActorID    int64            `json:"actor_id"`
	TargetID   int64            `json:"target_id"`
	TargetKind enums.TargetKind `json:"target_kind"`
}

type SwipeRecord struct {
	ActorID    int64                `json:"actor_id"`
	TargetID   int64                `json:"target_id"`
	TargetKind enums.TargetKind     `json:"target_kind"`
	Direction  enums.SwipeDirection `json:"direction"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func (r SwipeRecord) Key() SwipeKey {
	return SwipeKey{ActorID: r.ActorID, TargetID: r.TargetID, TargetKind: r.TargetKind}
}

// Reciprocal returns the key the other side of a match would be recorded under.
func (k SwipeKey) Reciprocal() SwipeKey {
	return SwipeKey{ActorID: k.TargetID, TargetID: k.ActorID, TargetKind: k.TargetKind.Opposite()}
}

// UpsertOutcome describes what a ledger write did to the stored direction.
type UpsertOutcome struct {
	Record   SwipeRecord
	Previous *enums.SwipeDirection
}

// Changed reports whether the write altered the stored direction (insert included).
func (o UpsertOutcome) Changed() bool {
	return o.Previous == nil || *o.Previous != o.Record.Direction
}
