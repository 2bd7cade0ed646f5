package handlers

import (
	"encoding/json"
	"net/http"

	"writeflow.com/emotion-board/apperrors"
	"writeflow.com/emotion-board/models"
	"writeflow.com/emotion-board/services"
)

func Signup(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := auth.Signup(r.Context(), req)
		if err != nil {
			// The signup API reports taken fields as 400, not 409.
			if apperrors.IsDuplicateAction(err) {
				writeMessage(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func Login(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pair, err := auth.Login(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, pair)
	}
}

func Refresh(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pair, err := auth.Refresh(req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, pair)
	}
}
