package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"writeflow.com/emotion-board/handlers"
	"writeflow.com/emotion-board/models"
	"writeflow.com/emotion-board/routes"
	"writeflow.com/emotion-board/services"
	"writeflow.com/emotion-board/store"
)

// newTestAPI wires the router exactly like cmd/server does, on an
// in-memory store.
func newTestAPI(t *testing.T) (*mux.Router, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	tokens := services.NewTokenService("test-signing-key", 30*time.Minute, time.Hour)
	auth := services.NewAuthService(st, tokens)
	engine := services.NewPostEngine(st, st, nil)

	router := mux.NewRouter()
	router.Use(handlers.Authenticate(tokens, st))
	routes.CreateAuthRoutes(auth, st, router)
	routes.CreatePostRoutes(engine, router)
	return router, st
}

func doJSON(t *testing.T, router *mux.Router, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func signupAndLogin(t *testing.T, router *mux.Router, username string) string {
	t.Helper()
	rec := doJSON(t, router, "POST", "/api/auth/signup", "", models.SignupRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "correct horse",
		Nickname: username,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, "POST", "/api/auth/login", "", models.LoginRequest{
		Username: username,
		Password: "correct horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair models.TokenPair
	decodeBody(t, rec, &pair)
	require.NotEmpty(t, pair.AccessToken)
	return pair.AccessToken
}

func TestSignupLoginRefreshFlow(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, "POST", "/api/auth/signup", "", models.SignupRequest{
		Email: "mina@example.com", Username: "mina", Password: "correct horse", Nickname: "미나",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.UserView
	decodeBody(t, rec, &view)
	require.Equal(t, "mina", view.Username)

	// A second signup with the same username reports 400, not 409.
	rec = doJSON(t, router, "POST", "/api/auth/signup", "", models.SignupRequest{
		Email: "other@example.com", Username: "mina", Password: "correct horse", Nickname: "다른",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "POST", "/api/auth/login", "", models.LoginRequest{
		Username: "mina", Password: "correct horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var pair models.TokenPair
	decodeBody(t, rec, &pair)

	rec = doJSON(t, router, "POST", "/api/auth/refresh", "", models.RefreshRequest{
		RefreshToken: pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var rotated models.TokenPair
	decodeBody(t, rec, &rotated)
	require.NotEmpty(t, rotated.AccessToken)

	// An access token is not accepted where a refresh token is expected.
	rec = doJSON(t, router, "POST", "/api/auth/refresh", "", models.RefreshRequest{
		RefreshToken: pair.AccessToken,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "POST", "/api/auth/login", "", models.LoginRequest{
		Username: "mina", Password: "wrong",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthenticationIsFailOpen(t *testing.T) {
	router, _ := newTestAPI(t)
	signupAndLogin(t, router, "mina")

	// Public reads work anonymously and with a garbage token alike.
	rec := doJSON(t, router, "GET", "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, "GET", "/api/posts", "garbage.token.here", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Writes still require a verified identity.
	post := models.PostCreateRequest{Content: "x", Emotion: "JOY", Buttons: []string{"좋아요"}}
	rec = doJSON(t, router, "POST", "/api/posts", "", post)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(t, router, "POST", "/api/posts", "garbage.token.here", post)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestAPI(t)
	author := signupAndLogin(t, router, "author")
	reader := signupAndLogin(t, router, "reader")

	rec := doJSON(t, router, "POST", "/api/posts", author, models.PostCreateRequest{
		Content: "오늘은 힘든 하루였다",
		Emotion: "슬픔",
		Buttons: []string{"토닥토닥", "공감해요"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created models.PostView
	decodeBody(t, rec, &created)
	require.Equal(t, "SADNESS", created.Emotion)
	require.Len(t, created.Buttons, 2)

	postPath := fmt.Sprintf("/api/posts/%d", created.ID)

	rec = doJSON(t, router, "GET", postPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	clickPath := fmt.Sprintf("/api/posts/%d/buttons/EMPATHY", created.ID)
	rec = doJSON(t, router, "POST", clickPath, reader, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var click models.ClickResult
	decodeBody(t, rec, &click)
	require.Equal(t, "EMPATHY", click.ClickedButtonType)
	require.Equal(t, 1, click.Buttons[0].ClickCount)

	// Second click by the same reader conflicts.
	rec = doJSON(t, router, "POST", clickPath, reader, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	reportPath := fmt.Sprintf("/api/posts/%d/report", created.ID)
	rec = doJSON(t, router, "POST", reportPath, reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, "POST", reportPath, reader, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Only the author can delete.
	rec = doJSON(t, router, "DELETE", postPath, reader, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(t, router, "DELETE", postPath, author, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The hidden post reads as a conflict, not a 404.
	rec = doJSON(t, router, "GET", postPath, "", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// It stays visible to its author.
	rec = doJSON(t, router, "GET", "/api/posts/me", author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine models.PostPage
	decodeBody(t, rec, &mine)
	require.Len(t, mine.Items, 1)
	require.True(t, mine.Items[0].Hidden)
}

func TestGetPostNotFoundAndBadID(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, "GET", "/api/posts/999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Non-numeric ids never reach the handler.
	rec = doJSON(t, router, "GET", "/api/posts/abc", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetaAndStatsEndpoints(t *testing.T) {
	router, _ := newTestAPI(t)
	author := signupAndLogin(t, router, "author")

	rec := doJSON(t, router, "GET", "/api/posts/meta/emotions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var emotions []string
	decodeBody(t, rec, &emotions)
	require.Equal(t, []string{"JOY", "ANGER", "SADNESS", "PLEASURE", "LOVE", "HATE", "AMBITION"}, emotions)

	rec = doJSON(t, router, "GET", "/api/posts/meta/buttons", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var buttons []string
	decodeBody(t, rec, &buttons)
	require.Len(t, buttons, 7)

	doJSON(t, router, "POST", "/api/posts", author, models.PostCreateRequest{
		Content: "x", Emotion: "JOY", Buttons: []string{"좋아요"},
	})

	rec = doJSON(t, router, "GET", "/api/posts/stats/emotions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats []models.EmotionStat
	decodeBody(t, rec, &stats)
	require.Len(t, stats, 7)
	require.Equal(t, "JOY", stats[0].Emotion)
	require.EqualValues(t, 1, stats[0].Count)
	require.InDelta(t, 1.0, stats[0].Ratio, 1e-9)
}

func TestListPostsFilterOverHTTP(t *testing.T) {
	router, _ := newTestAPI(t)
	author := signupAndLogin(t, router, "author")

	doJSON(t, router, "POST", "/api/posts", author, models.PostCreateRequest{
		Content: "a", Emotion: "JOY", Buttons: []string{"좋아요"},
	})
	doJSON(t, router, "POST", "/api/posts", author, models.PostCreateRequest{
		Content: "b", Emotion: "ANGER", Buttons: []string{"화나요"},
	})

	rec := doJSON(t, router, "GET", "/api/posts?emotion=ANGER", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page models.PostPage
	decodeBody(t, rec, &page)
	require.Len(t, page.Items, 1)
	require.Equal(t, "b", page.Items[0].Content)

	rec = doJSON(t, router, "GET", "/api/posts?emotion=BLISS", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPagingParamsOverHTTP(t *testing.T) {
	router, _ := newTestAPI(t)
	author := signupAndLogin(t, router, "author")

	doJSON(t, router, "POST", "/api/posts", author, models.PostCreateRequest{
		Content: "a", Emotion: "JOY", Buttons: []string{"좋아요"},
	})

	// Unparseable values fall back to the defaults for both params.
	rec := doJSON(t, router, "GET", "/api/posts?page=abc&size=xyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page models.PostPage
	decodeBody(t, rec, &page)
	require.Equal(t, 0, page.Page)
	require.Equal(t, services.DefaultPageSize, page.Size)
	require.Len(t, page.Items, 1)

	// An absurdly large page number is served as an empty page.
	rec = doJSON(t, router, "GET", "/api/posts?page=2305843009213693952&size=100", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &page)
	require.Empty(t, page.Items)
	require.EqualValues(t, 1, page.TotalElements)
}

func TestRegisterDeviceToken(t *testing.T) {
	router, st := newTestAPI(t)
	author := signupAndLogin(t, router, "author")

	rec := doJSON(t, router, "POST", "/api/devices/token", "", map[string]string{"token": "abc"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, "POST", "/api/devices/token", author, map[string]string{"token": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "POST", "/api/devices/token", author, map[string]string{"token": "device-token-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := st.UserByUsername(context.Background(), "author")
	require.NoError(t, err)
	tokens, err := st.DeviceTokens(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"device-token-1"}, tokens)
}
