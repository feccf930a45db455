package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"booklog-backend/pkg/auth"
	pkgerrors "booklog-backend/pkg/errors"
	"booklog-backend/pkg/utils"
)

const maxJSONBodyBytes = 1 << 20

// decodeJSON reads a JSON body into v and runs its validate tags
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return pkgerrors.NewValidationError("invalid request body: " + err.Error())
	}
	if err := utils.ValidateStruct(v); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

func currentUser(r *http.Request) (auth.UserContext, error) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return auth.UserContext{}, pkgerrors.NewUnauthorizedError("login required")
	}
	return user, nil
}

// queryInt returns the integer query parameter name, or 0 when it is missing or malformed
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
