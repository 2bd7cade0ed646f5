package services

import "writeflow.com/emotion-board/models"

// MessageKind selects which user-facing message variant to show for a
// blocked interaction.
type MessageKind int

const (
	MsgAlreadyClicked MessageKind = iota
	MsgAlreadyReported
	MsgHiddenPost
)

type messageKey struct {
	emotion models.Emotion
	kind    MessageKind
}

// Every (emotion, kind) pair has an entry; messages_test keeps the table
// exhaustive.
var emotionMessages = map[messageKey]string{
	{models.EmotionJoy, MsgAlreadyClicked}:       "이미 공감을 표했어요 💛",
	{models.EmotionJoy, MsgAlreadyReported}:      "소중한 의견 감사해요 🌸",
	{models.EmotionJoy, MsgHiddenPost}:           "이 기쁨은 잠시 쉬고 있어요 ✨",
	{models.EmotionSadness, MsgAlreadyClicked}:   "당신의 위로가 전해졌어요 💙",
	{models.EmotionSadness, MsgAlreadyReported}:  "알려주셔서 고마워요 🌙",
	{models.EmotionSadness, MsgHiddenPost}:       "이 슬픔은 조용히 묻어두었어요 🤍",
	{models.EmotionAnger, MsgAlreadyClicked}:     "이미 공감을 표했어요 🧡",
	{models.EmotionAnger, MsgAlreadyReported}:    "함께 지켜나가요 🛡",
	{models.EmotionAnger, MsgHiddenPost}:         "이 분노는 가라앉혔어요 💫",
	{models.EmotionPleasure, MsgAlreadyClicked}:  "이미 공감을 표했어요 💚",
	{models.EmotionPleasure, MsgAlreadyReported}: "더 나은 공간을 만들어갈게요 🌿",
	{models.EmotionPleasure, MsgHiddenPost}:      "이 즐거움은 잠시 멈춰있어요 🎵",
	{models.EmotionLove, MsgAlreadyClicked}:      "이미 사랑을 보냈어요 💗",
	{models.EmotionLove, MsgAlreadyReported}:     "따뜻한 마음 감사해요 💝",
	{models.EmotionLove, MsgHiddenPost}:          "이 사랑은 조용히 간직했어요 🌹",
	{models.EmotionHate, MsgAlreadyClicked}:      "이미 마음을 표현했어요 🖤",
	{models.EmotionHate, MsgAlreadyReported}:     "의견을 들었어요 🌑",
	{models.EmotionHate, MsgHiddenPost}:          "이 미움은 덮어두었어요 ⚫",
	{models.EmotionAmbition, MsgAlreadyClicked}:  "이미 응원을 보냈어요 ❤️‍🔥",
	{models.EmotionAmbition, MsgAlreadyReported}: "더 좋은 환경을 만들어요 💪",
	{models.EmotionAmbition, MsgHiddenPost}:      "이 야망은 잠시 멈췄어요 🔥",
}

// EmotionMessage returns the message for an emotion and condition.
func EmotionMessage(e models.Emotion, kind MessageKind) string {
	return emotionMessages[messageKey{e, kind}]
}
