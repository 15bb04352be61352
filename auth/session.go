package auth

import (
	"net/http"

	"wanderwise/middleware"
	"wanderwise/utils"

	"github.com/julienschmidt/httprouter"
)

// GET /api/auth/session
// Returns the caller's current authentication state. A missing or
// invalid token is not an error; it just means no one is signed in.
func GetSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"isAuthenticated": false})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"isAuthenticated": true,
		"userId":          claims.UserID,
		"username":        claims.Username,
	})
}
