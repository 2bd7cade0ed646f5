package services

import (
	"context"
	"strconv"
	"time"

	"writeflow.com/emotion-board/logger"
	"writeflow.com/emotion-board/models"
)

const (
	notifyTimeout      = 10 * time.Second
	noticeBodyMaxRunes = 100
)

// truncateNoticeBody shortens long post content for the push payload,
// cutting on rune boundaries so Korean text stays valid UTF-8.
func truncateNoticeBody(content string) string {
	runes := []rune(content)
	if len(runes) <= noticeBodyMaxRunes {
		return content
	}
	return string(runes[:noticeBodyMaxRunes-3]) + "..."
}

// FCMNotifier pushes a moderation notice to the author's devices when one
// of their posts is hidden. Failures are logged and swallowed: push is
// best-effort and never affects the triggering request.
type FCMNotifier struct {
	users UserStore
}

func NewFCMNotifier(users UserStore) *FCMNotifier {
	return &FCMNotifier{users: users}
}

func (n *FCMNotifier) PostHidden(post *models.Post) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	log := logger.Log.WithField("post_id", post.ID)

	tokens, err := n.users.DeviceTokens(ctx, post.AuthorID)
	if err != nil {
		log.WithError(err).Error("failed to fetch device tokens for hidden-post notice")
		return
	}
	if len(tokens) == 0 {
		return
	}

	body := truncateNoticeBody(post.Content)
	data := map[string]string{
		"type":    "post_hidden",
		"post_id": strconv.FormatInt(post.ID, 10),
	}

	response, err := SendMulticast(ctx, tokens, EmotionMessage(post.Emotion, MsgHiddenPost), body, data)
	if err != nil {
		log.WithError(err).Error("failed to send hidden-post notice")
		return
	}

	for i, resp := range response.Responses {
		if resp.Success {
			continue
		}
		if IsDeadToken(resp.Error) {
			if err := n.users.RemoveDeviceToken(ctx, tokens[i]); err != nil {
				log.WithError(err).Warn("failed to delete dead device token")
			}
		}
	}
}
