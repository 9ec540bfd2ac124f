package enums

type TargetKind string

const (
	TargetKindUser        TargetKind = "USER"
	TargetKindApplication TargetKind = "APPLICATION"
)

// Opposite returns the kind recorded by the other side of a match.
func (k TargetKind) Opposite() TargetKind {
	if k == TargetKindUser {
		return TargetKindApplication
	}
	return TargetKindUser
}
