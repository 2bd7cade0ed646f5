package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"writeflow.com/emotion-board/models"
	"writeflow.com/emotion-board/services"
)

func parsePostID(r *http.Request, key string) (int64, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars[key], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pagingParams reads page and size from the query string. Anything that
// does not parse falls back to the default for that parameter.
func pagingParams(r *http.Request) (page, size int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 0
	}
	size, err = strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil {
		size = services.DefaultPageSize
	}
	return page, size
}

func CreatePost(engine *services.PostEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.PostCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		view, err := engine.CreatePost(r.Context(), user.ID, req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

func GetPost(engine *services.PostEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := parsePostID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, "invalid post id")
			return
		}

		view, err := engine.GetPost(r.Context(), postID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

func ListPosts(engine *services.PostEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size := pagingParams(r)

		result, err := engine.ListPosts(r.Context(), r.URL.Query().Get("emotion"), page, size)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func ListMyPosts(engine *services.PostEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r)
		if !ok {
			return
		}
		page, size := pagingParams(r)

		result, err := engine.ListMyPosts(r.Context(), user.ID, r.URL.Query().Get("emotion"), page, size)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func DeletePost(engine *services.PostEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r)
		if !ok {
			return
		}
		postID, ok := parsePostID(r, "id")
		if !ok {
			writeMessage(w, http.StatusBadRequest, "invalid post id")
			return
		}

		if err := engine.DeletePost(r.Context(), user.ID, postID); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ClickButton(engine *services.PostEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r)
		if !ok {
			return
		}
		postID, ok := parsePostID(r, "postId")
		if !ok {
			writeMessage(w, http.StatusBadRequest, "invalid post id")
			return
		}

		result, err := engine.ClickButton(r.Context(), user.ID, postID, mux.Vars(r)["buttonType"])
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func ReportPost(engine *services.PostEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r)
		if !ok {
			return
		}
		postID, ok := parsePostID(r, "postId")
		if !ok {
			writeMessage(w, http.StatusBadRequest, "invalid post id")
			return
		}

		if err := engine.ReportPost(r.Context(), user.ID, postID); err != nil {
			writeError(w, err)
			return
		}

		writeMessage(w, http.StatusOK, "report received")
	}
}

func EmotionStats(engine *services.PostEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := engine.EmotionStats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

func EmotionCodes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.EmotionCodes())
	}
}

func ButtonCodes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.ButtonCodes())
	}
}
