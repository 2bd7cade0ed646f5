package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"writeflow.com/emotion-board/apperrors"
	"writeflow.com/emotion-board/models"
)

func seedPostWithButtons(t *testing.T, s *MemStore) *models.Post {
	t.Helper()
	ctx := context.Background()

	author := &models.User{Username: "author", Email: "author@example.com", Nickname: "author"}
	require.NoError(t, s.CreateUser(ctx, author))

	post := &models.Post{AuthorID: author.ID, Content: "x", Emotion: models.EmotionJoy}
	require.NoError(t, s.CreatePost(ctx, post, []models.ButtonStat{
		{ButtonType: models.ButtonEmpathy, Label: "좋아요"},
	}))
	return post
}

func TestRegisterClickEnforcesOnePerUser(t *testing.T) {
	s := NewMemStore()
	post := seedPostWithButtons(t, s)
	ctx := context.Background()

	require.NoError(t, s.RegisterClick(ctx, post.ID, 99, models.ButtonEmpathy))

	err := s.RegisterClick(ctx, post.ID, 99, models.ButtonEmpathy)
	require.True(t, apperrors.IsDuplicateAction(err))

	err = s.RegisterClick(ctx, post.ID, 100, models.ButtonComfort)
	require.True(t, apperrors.IsInvalidArgument(err), "button not attached to the post")

	stats, err := s.PostButtons(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats[0].ClickCount)
}

func TestRegisterReportReturnsLiveCount(t *testing.T) {
	s := NewMemStore()
	post := seedPostWithButtons(t, s)
	ctx := context.Background()

	count, err := s.RegisterReport(ctx, post.ID, 99)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	count, err = s.RegisterReport(ctx, post.ID, 100)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	_, err = s.RegisterReport(ctx, post.ID, 99)
	require.True(t, apperrors.IsDuplicateAction(err))

	stored, err := s.PostByID(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stored.ReportedCount)
}

func TestHidePostTransitionsOnce(t *testing.T) {
	s := NewMemStore()
	post := seedPostWithButtons(t, s)
	ctx := context.Background()

	const callers = 10
	var wg sync.WaitGroup
	results := make([]bool, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.HidePost(ctx, post.ID)
		}(i)
	}
	wg.Wait()

	var transitioned int
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		if results[i] {
			transitioned++
		}
	}
	require.Equal(t, 1, transitioned)

	stored, err := s.PostByID(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, stored.Hidden)
}

func TestVisiblePostsExtremePaging(t *testing.T) {
	s := NewMemStore()
	seedPostWithButtons(t, s)
	ctx := context.Background()

	// Paging values that would overflow page*size return an empty page.
	posts, total, err := s.VisiblePosts(ctx, nil, 1<<61, 100)
	require.NoError(t, err)
	require.Empty(t, posts)
	require.EqualValues(t, 1, total)

	posts, _, err = s.VisiblePosts(ctx, nil, -1, 100)
	require.NoError(t, err)
	require.Empty(t, posts)

	posts, _, err = s.VisiblePosts(ctx, nil, 0, 0)
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestHidePostUnknownID(t *testing.T) {
	s := NewMemStore()
	_, err := s.HidePost(context.Background(), 12345)
	require.True(t, apperrors.IsNotFound(err))
}

func TestReturnedPostsAreClones(t *testing.T) {
	s := NewMemStore()
	post := seedPostWithButtons(t, s)
	ctx := context.Background()

	got, err := s.PostByID(ctx, post.ID)
	require.NoError(t, err)
	got.Hidden = true
	got.Content = "scribbled over"

	again, err := s.PostByID(ctx, post.ID)
	require.NoError(t, err)
	require.False(t, again.Hidden)
	require.Equal(t, "x", again.Content)
}

func TestDeviceTokenLifecycle(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.SaveDeviceToken(ctx, 1, "tok-a"))
	require.NoError(t, s.SaveDeviceToken(ctx, 1, "tok-a"))
	require.NoError(t, s.SaveDeviceToken(ctx, 1, "tok-b"))

	tokens, err := s.DeviceTokens(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"tok-a", "tok-b"}, tokens)

	require.NoError(t, s.RemoveDeviceToken(ctx, "tok-a"))
	tokens, err = s.DeviceTokens(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"tok-b"}, tokens)
}
