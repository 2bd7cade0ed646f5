package models

import "time"

type Post struct {
	ID            int64     `json:"id"`
	AuthorID      int64     `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	Content       string    `json:"content"`
	Emotion       Emotion   `json:"emotion"`
	LLMReply      string    `json:"llm_reply,omitempty"`
	Hidden        bool      `json:"hidden"`
	ReportedCount int       `json:"reported_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ButtonStat is one enabled reaction button on a post: the internal type
// code, the author-picked display label and the running click counter.
type ButtonStat struct {
	ID         int64      `json:"id"`
	PostID     int64      `json:"post_id"`
	ButtonType ButtonType `json:"button_type"`
	Label      string     `json:"label"`
	ClickCount int        `json:"click_count"`
}

// ButtonClick records that a user has clicked on a post. One row per
// (post, user) pair, whichever button was used.
type ButtonClick struct {
	ID         int64      `json:"id"`
	PostID     int64      `json:"post_id"`
	UserID     int64      `json:"user_id"`
	ButtonType ButtonType `json:"button_type"`
	CreatedAt  time.Time  `json:"created_at"`
}

// PostReport records that a user has reported a post. One row per
// (post, user) pair.
type PostReport struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type PostCreateRequest struct {
	Content string   `json:"content"`
	Emotion string   `json:"emotion"`
	Buttons []string `json:"buttons"`
}

type ButtonStatView struct {
	ButtonType string `json:"buttonType"`
	Label      string `json:"label"`
	ClickCount int    `json:"clickCount"`
}

type PostView struct {
	ID            int64            `json:"id"`
	AuthorName    string           `json:"authorName"`
	Content       string           `json:"content"`
	Emotion       string           `json:"emotion"`
	EmotionLabel  string           `json:"emotionLabel"`
	LLMReply      string           `json:"llmReply,omitempty"`
	Hidden        bool             `json:"hidden"`
	ReportedCount int              `json:"reportedCount"`
	CreatedAt     time.Time        `json:"createdAt"`
	Buttons       []ButtonStatView `json:"buttons"`
}

type PostPage struct {
	Items         []PostView `json:"items"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
}

type ClickResult struct {
	PostID            int64            `json:"postId"`
	ClickedButtonType string           `json:"clickedButtonType"`
	Buttons           []ButtonStatView `json:"buttons"`
}

type EmotionStat struct {
	Emotion      string  `json:"emotion"`
	EmotionLabel string  `json:"emotionLabel"`
	Count        int64   `json:"count"`
	Ratio        float64 `json:"ratio"`
}

// NewPostView assembles the client-facing view of a post together with its
// button stats. A stat saved without a label falls back to the type's
// default label, which keeps pre-label rows presentable.
func NewPostView(p *Post, stats []ButtonStat) *PostView {
	return &PostView{
		ID:            p.ID,
		AuthorName:    p.AuthorName,
		Content:       p.Content,
		Emotion:       string(p.Emotion),
		EmotionLabel:  p.Emotion.Label(),
		LLMReply:      p.LLMReply,
		Hidden:        p.Hidden,
		ReportedCount: p.ReportedCount,
		CreatedAt:     p.CreatedAt,
		Buttons:       ButtonStatViews(stats),
	}
}

func ButtonStatViews(stats []ButtonStat) []ButtonStatView {
	views := make([]ButtonStatView, 0, len(stats))
	for _, s := range stats {
		label := s.Label
		if label == "" {
			label = s.ButtonType.Label()
		}
		views = append(views, ButtonStatView{
			ButtonType: string(s.ButtonType),
			Label:      label,
			ClickCount: s.ClickCount,
		})
	}
	return views
}
