// Package store provides the persistence implementations behind the
// service-layer store interfaces: SQLStore on PostgreSQL and MemStore for
// tests and database-less development.
package store

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strconv"

	"github.com/lib/pq"
	"writeflow.com/emotion-board/apperrors"
	"writeflow.com/emotion-board/models"
)

const pqUniqueViolation = "23505"

// SQLStore implements the UserStore and PostStore contracts on top of
// database/sql with the pq driver. Uniqueness is enforced by constraints,
// counters are bumped with atomic in-place updates, and multi-row writes
// run in transactions.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// ---- users ----

func (s *SQLStore) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, nickname, password, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`,
		u.Username, u.Email, u.Nickname, u.Password,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return &apperrors.DuplicateActionError{Message: "username, email or nickname is already in use"}
	}
	return err
}

func (s *SQLStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, nickname, password, created_at
		FROM users WHERE id = $1`, id))
}

func (s *SQLStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, nickname, password, created_at
		FROM users WHERE username = $1`, username))
}

func (s *SQLStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Nickname, &u.Password, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &apperrors.NotFoundError{Message: "user not found"}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLStore) fieldTaken(ctx context.Context, column, value string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE `+column+` = $1)`, value,
	).Scan(&taken)
	return taken, err
}

func (s *SQLStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.fieldTaken(ctx, "email", email)
}

func (s *SQLStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.fieldTaken(ctx, "username", username)
}

func (s *SQLStore) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	return s.fieldTaken(ctx, "nickname", nickname)
}

func (s *SQLStore) SaveDeviceToken(ctx context.Context, userID int64, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fcm_tokens (user_id, token, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id, token)
		DO UPDATE SET updated_at = NOW()`,
		userID, token)
	return err
}

func (s *SQLStore) DeviceTokens(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token FROM fcm_tokens
		WHERE user_id = $1 AND token != ''`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (s *SQLStore) RemoveDeviceToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM fcm_tokens WHERE token = $1`, token)
	return err
}

// ---- posts ----

func (s *SQLStore) CreatePost(ctx context.Context, p *models.Post, buttons []models.ButtonStat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (author_id, content, emotion, hidden, reported_count, created_at)
		VALUES ($1, $2, $3, FALSE, 0, NOW())
		RETURNING id, created_at`,
		p.AuthorID, p.Content, string(p.Emotion),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return err
	}

	for i := range buttons {
		buttons[i].PostID = p.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO post_buttons (post_id, button_type, button_label, click_count)
			VALUES ($1, $2, $3, 0)
			RETURNING id`,
			p.ID, string(buttons[i].ButtonType), buttons[i].Label,
		).Scan(&buttons[i].ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLStore) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	var llmReply sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.author_id, u.username, p.content, p.emotion,
		       p.llm_reply, p.hidden, p.reported_count, p.created_at
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Content, &p.Emotion,
		&llmReply, &p.Hidden, &p.ReportedCount, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &apperrors.NotFoundError{Message: "post not found"}
	}
	if err != nil {
		return nil, err
	}
	p.LLMReply = llmReply.String
	return &p, nil
}

func (s *SQLStore) PostButtons(ctx context.Context, postID int64) ([]models.ButtonStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, button_type, button_label, click_count
		FROM post_buttons
		WHERE post_id = $1
		ORDER BY id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.ButtonStat
	for rows.Next() {
		var b models.ButtonStat
		if err := rows.Scan(&b.ID, &b.PostID, &b.ButtonType, &b.Label, &b.ClickCount); err != nil {
			return nil, err
		}
		stats = append(stats, b)
	}
	return stats, rows.Err()
}

func (s *SQLStore) listPosts(ctx context.Context, where string, args []interface{}, page, size int) ([]models.Post, int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts p `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	// Negative or overflowing offsets would make Postgres reject the
	// OFFSET clause.
	if page < 0 || size <= 0 || page > math.MaxInt/size {
		return nil, total, nil
	}

	query := `
		SELECT p.id, p.author_id, u.username, p.content, p.emotion,
		       p.llm_reply, p.hidden, p.reported_count, p.created_at
		FROM posts p
		JOIN users u ON p.author_id = u.id ` + where + `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, size, page*size)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		var llmReply sql.NullString
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Content, &p.Emotion,
			&llmReply, &p.Hidden, &p.ReportedCount, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		p.LLMReply = llmReply.String
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

func (s *SQLStore) VisiblePosts(ctx context.Context, emotion *models.Emotion, page, size int) ([]models.Post, int64, error) {
	where := `WHERE p.hidden = FALSE`
	var args []interface{}
	if emotion != nil {
		where += ` AND p.emotion = $1`
		args = append(args, string(*emotion))
	}
	return s.listPosts(ctx, where, args, page, size)
}

func (s *SQLStore) PostsByAuthor(ctx context.Context, authorID int64, emotion *models.Emotion, page, size int) ([]models.Post, int64, error) {
	where := `WHERE p.author_id = $1`
	args := []interface{}{authorID}
	if emotion != nil {
		where += ` AND p.emotion = $2`
		args = append(args, string(*emotion))
	}
	return s.listPosts(ctx, where, args, page, size)
}

// ---- clicks ----

func (s *SQLStore) HasClicked(ctx context.Context, postID, userID int64) (bool, error) {
	var clicked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM button_clicks WHERE post_id = $1 AND user_id = $2)`,
		postID, userID,
	).Scan(&clicked)
	return clicked, err
}

// RegisterClick inserts the click record and bumps the matching button
// counter in one transaction. The in-place increment serializes concurrent
// clicks on the row; the unique constraint turns a racing duplicate into
// DuplicateActionError.
func (s *SQLStore) RegisterClick(ctx context.Context, postID, userID int64, buttonType models.ButtonType) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO button_clicks (post_id, user_id, button_type, created_at)
		VALUES ($1, $2, $3, NOW())`,
		postID, userID, string(buttonType))
	if isUniqueViolation(err) {
		return &apperrors.DuplicateActionError{Message: "already clicked on this post"}
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE post_buttons SET click_count = click_count + 1
		WHERE post_id = $1 AND button_type = $2`,
		postID, string(buttonType))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &apperrors.InvalidArgumentError{Message: "this button is not enabled on the post"}
	}

	return tx.Commit()
}

// ---- reports ----

func (s *SQLStore) HasReported(ctx context.Context, postID, userID int64) (bool, error) {
	var reported bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM post_reports WHERE post_id = $1 AND user_id = $2)`,
		postID, userID,
	).Scan(&reported)
	return reported, err
}

// RegisterReport inserts the report record, bumps the advisory cached
// counter and returns the live count of report rows, all in one
// transaction.
func (s *SQLStore) RegisterReport(ctx context.Context, postID, userID int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO post_reports (post_id, user_id, created_at)
		VALUES ($1, $2, NOW())`,
		postID, userID)
	if isUniqueViolation(err) {
		return 0, &apperrors.DuplicateActionError{Message: "already reported this post"}
	}
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE posts SET reported_count = reported_count + 1 WHERE id = $1`, postID)
	if err != nil {
		return 0, err
	}

	var count int64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM post_reports WHERE post_id = $1`, postID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// HidePost performs the monotonic false->true transition. The guarded
// update makes the transition happen exactly once under concurrent
// threshold crossings.
func (s *SQLStore) HidePost(ctx context.Context, postID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET hidden = TRUE WHERE id = $1 AND hidden = FALSE`, postID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ---- stats ----

func (s *SQLStore) EmotionCounts(ctx context.Context) (map[models.Emotion]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT emotion, COUNT(*) FROM posts
		WHERE hidden = FALSE
		GROUP BY emotion`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Emotion]int64)
	for rows.Next() {
		var emotion models.Emotion
		var count int64
		if err := rows.Scan(&emotion, &count); err != nil {
			return nil, err
		}
		counts[emotion] = count
	}
	return counts, rows.Err()
}
