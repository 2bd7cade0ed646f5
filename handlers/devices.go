package handlers

import (
	"encoding/json"
	"net/http"

	"writeflow.com/emotion-board/services"
)

type deviceTokenRequest struct {
	Token string `json:"token"`
}

// RegisterDeviceToken stores an FCM device token for the authenticated
// user so moderation notices can reach their devices.
func RegisterDeviceToken(users services.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req deviceTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Token == "" {
			writeMessage(w, http.StatusBadRequest, "token is required")
			return
		}

		if err := users.SaveDeviceToken(r.Context(), user.ID, req.Token); err != nil {
			writeError(w, err)
			return
		}

		writeMessage(w, http.StatusOK, "device token registered")
	}
}
