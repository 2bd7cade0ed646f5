package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"writeflow.com/emotion-board/models"
)

func TestEmotionMessageTableIsExhaustive(t *testing.T) {
	kinds := []MessageKind{MsgAlreadyClicked, MsgAlreadyReported, MsgHiddenPost}
	for _, emotion := range models.Emotions() {
		for _, kind := range kinds {
			require.NotEmpty(t, EmotionMessage(emotion, kind),
				"missing message for %s/%d", emotion, kind)
		}
	}
	require.Len(t, emotionMessages, len(models.Emotions())*len(kinds))
}

func TestEmotionMessageVariesByEmotion(t *testing.T) {
	require.Equal(t, "이미 사랑을 보냈어요 💗", EmotionMessage(models.EmotionLove, MsgAlreadyClicked))
	require.Equal(t, "이 분노는 가라앉혔어요 💫", EmotionMessage(models.EmotionAnger, MsgHiddenPost))
	require.NotEqual(t,
		EmotionMessage(models.EmotionJoy, MsgHiddenPost),
		EmotionMessage(models.EmotionSadness, MsgHiddenPost))
}
