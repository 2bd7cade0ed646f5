package models

import (
	"fmt"
	"strings"

	"writeflow.com/emotion-board/apperrors"
)

// ButtonType is one of the fixed reaction codes a post can expose. Each
// post enables a subset of 1 to 5 types and gives every enabled type its
// own display label, so the type is a pure internal key.
type ButtonType string

const (
	ButtonEmpathy ButtonType = "EMPATHY"
	ButtonComfort ButtonType = "COMFORT"
	ButtonSad     ButtonType = "SAD"
	ButtonHappy   ButtonType = "HAPPY"
	ButtonGood    ButtonType = "GOOD"
	ButtonAngry   ButtonType = "ANGRY"
	ButtonDislike ButtonType = "DISLIKE"
)

// Declaration order matters: post creation assigns labels to types
// positionally, label[i] pairing with buttonTypes[i].
var buttonTypes = [...]ButtonType{
	ButtonEmpathy,
	ButtonComfort,
	ButtonSad,
	ButtonHappy,
	ButtonGood,
	ButtonAngry,
	ButtonDislike,
}

var buttonLabels = map[ButtonType]string{
	ButtonEmpathy: "공감",
	ButtonComfort: "위로",
	ButtonSad:     "슬픔",
	ButtonHappy:   "행복",
	ButtonGood:    "좋음",
	ButtonAngry:   "분노",
	ButtonDislike: "싫음",
}

// ButtonTypes returns all button types in declaration order.
func ButtonTypes() []ButtonType {
	return buttonTypes[:]
}

// Label returns the default display label used when a post carries none.
func (b ButtonType) Label() string {
	return buttonLabels[b]
}

// ButtonCodes returns the wire codes in declaration order.
func ButtonCodes() []string {
	codes := make([]string, 0, len(buttonTypes))
	for _, b := range buttonTypes {
		codes = append(codes, string(b))
	}
	return codes
}

// ParseButtonType accepts the code case-insensitively ("empathy") or the
// exact default label ("공감").
func ParseButtonType(value string) (ButtonType, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &apperrors.InvalidArgumentError{Message: "button type is required"}
	}
	for _, b := range buttonTypes {
		if strings.EqualFold(string(b), value) || buttonLabels[b] == value {
			return b, nil
		}
	}
	return "", &apperrors.InvalidArgumentError{Message: fmt.Sprintf("unsupported button type: %s", value)}
}
