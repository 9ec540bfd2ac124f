package enums

import "strings"

type SwipeDirection string

const (
	SwipeDirectionLeft  SwipeDirection = "LEFT"
	SwipeDirectionRight SwipeDirection = "RIGHT"
)

func ParseSwipeDirection(raw string) (SwipeDirection, bool) {
	switch SwipeDirection(strings.ToUpper(strings.TrimSpace(raw))) {
	case SwipeDirectionLeft:
		return SwipeDirectionLeft, true
	case SwipeDirectionRight:
		return SwipeDirectionRight, true
	default:
		return "", false
	}
}

func (d SwipeDirection) Valid() bool {
	return d == SwipeDirectionLeft || d == SwipeDirectionRight
}
