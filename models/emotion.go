package models

import (
	"fmt"
	"strings"

	"writeflow.com/emotion-board/apperrors"
)

// Emotion is the fixed sentiment tag carried by every post. The string
// value is the wire and storage encoding.
type Emotion string

const (
	EmotionJoy      Emotion = "JOY"
	EmotionAnger    Emotion = "ANGER"
	EmotionSadness  Emotion = "SADNESS"
	EmotionPleasure Emotion = "PLEASURE"
	EmotionLove     Emotion = "LOVE"
	EmotionHate     Emotion = "HATE"
	EmotionAmbition Emotion = "AMBITION"
)

// Declaration order matters: stats and meta listings follow it.
var emotions = [...]Emotion{
	EmotionJoy,
	EmotionAnger,
	EmotionSadness,
	EmotionPleasure,
	EmotionLove,
	EmotionHate,
	EmotionAmbition,
}

var emotionLabels = map[Emotion]string{
	EmotionJoy:      "기쁨",
	EmotionAnger:    "분노",
	EmotionSadness:  "슬픔",
	EmotionPleasure: "즐거움",
	EmotionLove:     "사랑",
	EmotionHate:     "미움",
	EmotionAmbition: "야망",
}

// Emotions returns all emotions in declaration order.
func Emotions() []Emotion {
	return emotions[:]
}

// Label returns the display label shown to users.
func (e Emotion) Label() string {
	return emotionLabels[e]
}

// EmotionCodes returns the wire codes in declaration order.
func EmotionCodes() []string {
	codes := make([]string, 0, len(emotions))
	for _, e := range emotions {
		codes = append(codes, string(e))
	}
	return codes
}

// ParseEmotion accepts the code case-insensitively ("joy", "JOY") or the
// exact display label ("기쁨").
func ParseEmotion(value string) (Emotion, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &apperrors.InvalidArgumentError{Message: "emotion is required"}
	}
	for _, e := range emotions {
		if strings.EqualFold(string(e), value) || emotionLabels[e] == value {
			return e, nil
		}
	}
	return "", &apperrors.InvalidArgumentError{Message: fmt.Sprintf("unsupported emotion: %s", value)}
}
