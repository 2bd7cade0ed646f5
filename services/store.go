package services

import (
	"context"

	"writeflow.com/emotion-board/models"
)

// UserStore is the persistence contract the auth side consumes.
// Implementations must report taken fields without writing anything.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	NicknameTaken(ctx context.Context, nickname string) (bool, error)

	SaveDeviceToken(ctx context.Context, userID int64, token string) error
	DeviceTokens(ctx context.Context, userID int64) ([]string, error)
	RemoveDeviceToken(ctx context.Context, token string) error
}

// PostStore is the persistence contract the post engine consumes.
//
// Mutating methods carry the concurrency obligations from the data model:
// CreatePost persists the post and all button rows atomically;
// RegisterClick persists the click record and bumps the matching counter in
// one unit, returning DuplicateActionError on a second (post, user) click
// and InvalidArgumentError when the button is not enabled on the post;
// RegisterReport persists the report, bumps the cached counter and returns
// the authoritative live report count; HidePost reports whether this call
// performed the false->true transition.
type PostStore interface {
	CreatePost(ctx context.Context, p *models.Post, buttons []models.ButtonStat) error
	PostByID(ctx context.Context, id int64) (*models.Post, error)
	PostButtons(ctx context.Context, postID int64) ([]models.ButtonStat, error)
	VisiblePosts(ctx context.Context, emotion *models.Emotion, page, size int) ([]models.Post, int64, error)
	PostsByAuthor(ctx context.Context, authorID int64, emotion *models.Emotion, page, size int) ([]models.Post, int64, error)

	HasClicked(ctx context.Context, postID, userID int64) (bool, error)
	RegisterClick(ctx context.Context, postID, userID int64, buttonType models.ButtonType) error

	HasReported(ctx context.Context, postID, userID int64) (bool, error)
	RegisterReport(ctx context.Context, postID, userID int64) (int64, error)
	HidePost(ctx context.Context, postID int64) (bool, error)

	EmotionCounts(ctx context.Context) (map[models.Emotion]int64, error)
}
