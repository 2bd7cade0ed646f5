package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"writeflow.com/emotion-board/apperrors"
	"writeflow.com/emotion-board/logger"
	"writeflow.com/emotion-board/models"
)

const (
	// ReportThreshold is the number of distinct reporting users after
	// which a post is hidden automatically.
	ReportThreshold = 15

	MaxButtonsPerPost    = 5
	MaxButtonLabelLength = 20

	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

// Notifier receives moderation events. Implementations must be safe for
// concurrent use; the engine invokes them asynchronously.
type Notifier interface {
	PostHidden(post *models.Post)
}

// PostEngine implements the post interaction rules: creation with per-post
// button configuration, one-click-per-user aggregation, report-triggered
// hiding and emotion statistics. All state lives behind the stores.
type PostEngine struct {
	users    UserStore
	posts    PostStore
	notifier Notifier
	log      *logrus.Entry
}

func NewPostEngine(users UserStore, posts PostStore, notifier Notifier) *PostEngine {
	return &PostEngine{
		users:    users,
		posts:    posts,
		notifier: notifier,
		log:      logger.Log.WithField("component", "post_engine"),
	}
}

// sanitizeLabels trims, drops empties and deduplicates the submitted
// button labels, preserving first-seen order.
func sanitizeLabels(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	labels := make([]string, 0, len(raw))
	for _, label := range raw {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}

	if len(labels) == 0 {
		return nil, &apperrors.InvalidArgumentError{Message: "at least one button label is required"}
	}
	if len(labels) > MaxButtonsPerPost {
		return nil, &apperrors.InvalidArgumentError{Message: "at most 5 buttons can be configured"}
	}
	for _, label := range labels {
		if utf8.RuneCountInString(label) > MaxButtonLabelLength {
			return nil, &apperrors.InvalidArgumentError{Message: "button labels must be at most 20 characters"}
		}
	}
	return labels, nil
}

// CreatePost persists a post and its button configuration atomically.
// Labels are bound to button types positionally in declaration order;
// the display label carries all meaning, the type is only an internal key.
func (e *PostEngine) CreatePost(ctx context.Context, authorID int64, req models.PostCreateRequest) (*models.PostView, error) {
	author, err := e.users.UserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	emotion, err := models.ParseEmotion(req.Emotion)
	if err != nil {
		return nil, err
	}

	labels, err := sanitizeLabels(req.Buttons)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:   author.ID,
		AuthorName: author.Username,
		Content:    req.Content,
		Emotion:    emotion,
	}
	types := models.ButtonTypes()
	buttons := make([]models.ButtonStat, 0, len(labels))
	for i, label := range labels {
		buttons = append(buttons, models.ButtonStat{
			ButtonType: types[i],
			Label:      label,
		})
	}

	if err := e.posts.CreatePost(ctx, post, buttons); err != nil {
		return nil, err
	}

	stats, err := e.posts.PostButtons(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return models.NewPostView(post, stats), nil
}

// GetPost returns a single post. Hidden posts yield HiddenPostError, a
// condition distinct from not-found.
func (e *PostEngine) GetPost(ctx context.Context, postID int64) (*models.PostView, error) {
	post, err := e.posts.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Hidden {
		return nil, &apperrors.HiddenPostError{Message: EmotionMessage(post.Emotion, MsgHiddenPost)}
	}
	stats, err := e.posts.PostButtons(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return models.NewPostView(post, stats), nil
}

func parseEmotionFilter(emotionValue string) (*models.Emotion, error) {
	if strings.TrimSpace(emotionValue) == "" {
		return nil, nil
	}
	emotion, err := models.ParseEmotion(emotionValue)
	if err != nil {
		return nil, err
	}
	return &emotion, nil
}

func clampPaging(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	// The cap keeps page*size offsets within range everywhere downstream.
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func (e *PostEngine) assemblePage(ctx context.Context, posts []models.Post, total int64, page, size int) (*models.PostPage, error) {
	items := make([]models.PostView, 0, len(posts))
	for i := range posts {
		stats, err := e.posts.PostButtons(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *models.NewPostView(&posts[i], stats))
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return &models.PostPage{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// ListPosts returns non-hidden posts, newest first, optionally filtered by
// emotion.
func (e *PostEngine) ListPosts(ctx context.Context, emotionValue string, page, size int) (*models.PostPage, error) {
	emotion, err := parseEmotionFilter(emotionValue)
	if err != nil {
		return nil, err
	}
	page, size = clampPaging(page, size)

	posts, total, err := e.posts.VisiblePosts(ctx, emotion, page, size)
	if err != nil {
		return nil, err
	}
	return e.assemblePage(ctx, posts, total, page, size)
}

// ListMyPosts returns the caller's own posts, hidden ones included: the
// author always sees their full history.
func (e *PostEngine) ListMyPosts(ctx context.Context, authorID int64, emotionValue string, page, size int) (*models.PostPage, error) {
	if _, err := e.users.UserByID(ctx, authorID); err != nil {
		return nil, err
	}
	emotion, err := parseEmotionFilter(emotionValue)
	if err != nil {
		return nil, err
	}
	page, size = clampPaging(page, size)

	posts, total, err := e.posts.PostsByAuthor(ctx, authorID, emotion, page, size)
	if err != nil {
		return nil, err
	}
	return e.assemblePage(ctx, posts, total, page, size)
}

// DeletePost hides the post. Only the author may do it, and the post is
// retained; hiding is the only form of deletion.
func (e *PostEngine) DeletePost(ctx context.Context, userID, postID int64) error {
	post, err := e.posts.PostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return &apperrors.ForbiddenError{Message: "only the author can delete this post"}
	}
	_, err = e.posts.HidePost(ctx, postID)
	return err
}

// ClickButton registers a single click by a user on a post. One click per
// (post, user) pair in total, regardless of button; the record insert and
// the counter increment are atomic in the store.
func (e *PostEngine) ClickButton(ctx context.Context, userID, postID int64, buttonTypeValue string) (*models.ClickResult, error) {
	post, err := e.posts.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Hidden {
		return nil, &apperrors.HiddenPostError{Message: EmotionMessage(post.Emotion, MsgHiddenPost)}
	}

	if _, err := e.users.UserByID(ctx, userID); err != nil {
		return nil, err
	}

	if clicked, err := e.posts.HasClicked(ctx, postID, userID); err != nil {
		return nil, err
	} else if clicked {
		return nil, &apperrors.DuplicateActionError{Message: EmotionMessage(post.Emotion, MsgAlreadyClicked)}
	}

	buttonType, err := models.ParseButtonType(buttonTypeValue)
	if err != nil {
		return nil, err
	}

	stats, err := e.posts.PostButtons(ctx, postID)
	if err != nil {
		return nil, err
	}
	enabled := false
	for _, s := range stats {
		if s.ButtonType == buttonType {
			enabled = true
			break
		}
	}
	if !enabled {
		return nil, &apperrors.InvalidArgumentError{Message: "this button is not enabled on the post"}
	}

	if err := e.posts.RegisterClick(ctx, postID, userID, buttonType); err != nil {
		// A concurrent click can slip past the pre-check; the unique
		// constraint reports it with the same friendly message.
		if apperrors.IsDuplicateAction(err) {
			return nil, &apperrors.DuplicateActionError{Message: EmotionMessage(post.Emotion, MsgAlreadyClicked)}
		}
		return nil, err
	}

	stats, err = e.posts.PostButtons(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &models.ClickResult{
		PostID:            postID,
		ClickedButtonType: string(buttonType),
		Buttons:           models.ButtonStatViews(stats),
	}, nil
}

// ReportPost registers a report and hides the post once the live report
// count reaches the threshold. The cached reported_count is advisory; the
// count of report rows decides. The hide transition happens exactly once
// even when two reports cross the threshold together.
func (e *PostEngine) ReportPost(ctx context.Context, userID, postID int64) error {
	post, err := e.posts.PostByID(ctx, postID)
	if err != nil {
		return err
	}
	if _, err := e.users.UserByID(ctx, userID); err != nil {
		return err
	}

	if reported, err := e.posts.HasReported(ctx, postID, userID); err != nil {
		return err
	} else if reported {
		return &apperrors.DuplicateActionError{Message: EmotionMessage(post.Emotion, MsgAlreadyReported)}
	}

	count, err := e.posts.RegisterReport(ctx, postID, userID)
	if err != nil {
		if apperrors.IsDuplicateAction(err) {
			return &apperrors.DuplicateActionError{Message: EmotionMessage(post.Emotion, MsgAlreadyReported)}
		}
		return err
	}

	if count >= ReportThreshold {
		hidden, err := e.posts.HidePost(ctx, postID)
		if err != nil {
			return err
		}
		if hidden {
			e.log.WithFields(logrus.Fields{
				"post_id":      postID,
				"report_count": count,
			}).Info("post hidden by report threshold")
			if e.notifier != nil {
				go e.notifier.PostHidden(post)
			}
		}
	}
	return nil
}

// EmotionStats returns one entry per emotion in declaration order,
// computed over the non-hidden post population. Ratios are 0 when there
// are no visible posts.
func (e *PostEngine) EmotionStats(ctx context.Context) ([]models.EmotionStat, error) {
	counts, err := e.posts.EmotionCounts(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	stats := make([]models.EmotionStat, 0, len(models.Emotions()))
	for _, emotion := range models.Emotions() {
		count := counts[emotion]
		ratio := 0.0
		if total > 0 {
			ratio = float64(count) / float64(total)
		}
		stats = append(stats, models.EmotionStat{
			Emotion:      string(emotion),
			EmotionLabel: emotion.Label(),
			Count:        count,
			Ratio:        ratio,
		})
	}
	return stats, nil
}
