package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"writeflow.com/emotion-board/apperrors"
	"writeflow.com/emotion-board/models"
)

type pairKey struct {
	postID int64
	userID int64
}

// MemStore is a mutex-guarded in-memory implementation of the store
// contracts. It backs the test suites and lets the server run without a
// database. One mutex serializes every operation, which trivially
// satisfies the per-post linearizability requirements.
type MemStore struct {
	mu sync.Mutex

	users   map[int64]*models.User
	posts   map[int64]*models.Post
	buttons map[int64][]*models.ButtonStat
	clicks  map[pairKey]*models.ButtonClick
	reports map[pairKey]*models.PostReport
	tokens  map[int64][]string

	nextUserID int64
	nextPostID int64
	nextRowID  int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:   make(map[int64]*models.User),
		posts:   make(map[int64]*models.Post),
		buttons: make(map[int64][]*models.ButtonStat),
		clicks:  make(map[pairKey]*models.ButtonClick),
		reports: make(map[pairKey]*models.PostReport),
		tokens:  make(map[int64][]string),
	}
}

// ---- users ----

func (s *MemStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email || existing.Nickname == u.Nickname {
			return &apperrors.DuplicateActionError{Message: "username, email or nickname is already in use"}
		}
	}

	s.nextUserID++
	u.ID = s.nextUserID
	u.CreatedAt = time.Now()
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *MemStore) UserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Message: "user not found"}
	}
	clone := *u
	return &clone, nil
}

func (s *MemStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, &apperrors.NotFoundError{Message: "user not found"}
}

func (s *MemStore) EmailTaken(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) UsernameTaken(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) NicknameTaken(_ context.Context, nickname string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) SaveDeviceToken(_ context.Context, userID int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tokens[userID] {
		if t == token {
			return nil
		}
	}
	s.tokens[userID] = append(s.tokens[userID], token)
	return nil
}

func (s *MemStore) DeviceTokens(_ context.Context, userID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.tokens[userID]...), nil
}

func (s *MemStore) RemoveDeviceToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, tokens := range s.tokens {
		kept := tokens[:0]
		for _, t := range tokens {
			if t != token {
				kept = append(kept, t)
			}
		}
		s.tokens[userID] = kept
	}
	return nil
}

// ---- posts ----

func (s *MemStore) CreatePost(_ context.Context, p *models.Post, buttons []models.ButtonStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPostID++
	p.ID = s.nextPostID
	p.CreatedAt = time.Now()

	clone := *p
	s.posts[p.ID] = &clone

	stats := make([]*models.ButtonStat, 0, len(buttons))
	for i := range buttons {
		s.nextRowID++
		buttons[i].ID = s.nextRowID
		buttons[i].PostID = p.ID
		b := buttons[i]
		stats = append(stats, &b)
	}
	s.buttons[p.ID] = stats
	return nil
}

func (s *MemStore) PostByID(_ context.Context, id int64) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.postLocked(id)
}

func (s *MemStore) postLocked(id int64) (*models.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Message: "post not found"}
	}
	clone := *p
	if author, ok := s.users[p.AuthorID]; ok {
		clone.AuthorName = author.Username
	}
	return &clone, nil
}

func (s *MemStore) PostButtons(_ context.Context, postID int64) ([]models.ButtonStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make([]models.ButtonStat, 0, len(s.buttons[postID]))
	for _, b := range s.buttons[postID] {
		stats = append(stats, *b)
	}
	return stats, nil
}

func (s *MemStore) listLocked(match func(*models.Post) bool, page, size int) ([]models.Post, int64) {
	var all []models.Post
	for _, p := range s.posts {
		if match(p) {
			clone := *p
			if author, ok := s.users[p.AuthorID]; ok {
				clone.AuthorName = author.Username
			}
			all = append(all, clone)
		}
	}
	// Newest first; id breaks creation-time ties deterministically.
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	// The division check rejects out-of-range pages before page*size can
	// overflow.
	if page < 0 || size <= 0 || page > len(all)/size {
		return nil, total
	}
	start := page * size
	if start >= len(all) {
		return nil, total
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total
}

func (s *MemStore) VisiblePosts(_ context.Context, emotion *models.Emotion, page, size int) ([]models.Post, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, total := s.listLocked(func(p *models.Post) bool {
		if p.Hidden {
			return false
		}
		return emotion == nil || p.Emotion == *emotion
	}, page, size)
	return posts, total, nil
}

func (s *MemStore) PostsByAuthor(_ context.Context, authorID int64, emotion *models.Emotion, page, size int) ([]models.Post, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, total := s.listLocked(func(p *models.Post) bool {
		if p.AuthorID != authorID {
			return false
		}
		return emotion == nil || p.Emotion == *emotion
	}, page, size)
	return posts, total, nil
}

// ---- clicks ----

func (s *MemStore) HasClicked(_ context.Context, postID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.clicks[pairKey{postID, userID}]
	return ok, nil
}

func (s *MemStore) RegisterClick(_ context.Context, postID, userID int64, buttonType models.ButtonType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{postID, userID}
	if _, ok := s.clicks[key]; ok {
		return &apperrors.DuplicateActionError{Message: "already clicked on this post"}
	}

	var stat *models.ButtonStat
	for _, b := range s.buttons[postID] {
		if b.ButtonType == buttonType {
			stat = b
			break
		}
	}
	if stat == nil {
		return &apperrors.InvalidArgumentError{Message: "this button is not enabled on the post"}
	}

	s.nextRowID++
	s.clicks[key] = &models.ButtonClick{
		ID:         s.nextRowID,
		PostID:     postID,
		UserID:     userID,
		ButtonType: buttonType,
		CreatedAt:  time.Now(),
	}
	stat.ClickCount++
	return nil
}

// ---- reports ----

func (s *MemStore) HasReported(_ context.Context, postID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.reports[pairKey{postID, userID}]
	return ok, nil
}

func (s *MemStore) RegisterReport(_ context.Context, postID, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{postID, userID}
	if _, ok := s.reports[key]; ok {
		return 0, &apperrors.DuplicateActionError{Message: "already reported this post"}
	}

	post, ok := s.posts[postID]
	if !ok {
		return 0, &apperrors.NotFoundError{Message: "post not found"}
	}

	s.nextRowID++
	s.reports[key] = &models.PostReport{
		ID:        s.nextRowID,
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	post.ReportedCount++

	var count int64
	for k := range s.reports {
		if k.postID == postID {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) HidePost(_ context.Context, postID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return false, &apperrors.NotFoundError{Message: "post not found"}
	}
	if post.Hidden {
		return false, nil
	}
	post.Hidden = true
	return true, nil
}

// ---- stats ----

func (s *MemStore) EmotionCounts(_ context.Context) (map[models.Emotion]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[models.Emotion]int64)
	for _, p := range s.posts {
		if !p.Hidden {
			counts[p.Emotion]++
		}
	}
	return counts, nil
}
