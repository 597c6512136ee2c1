/*
Package handler provides HTTP handler functions for user registration, login, and lookup.
*/
package handler

import (
	"net/http"

	"minichat/internal/pkg/errs"
	"minichat/internal/pkg/req"
	"minichat/internal/pkg/resp"
)

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister processes the request to create a new user account.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := deps.Store.Register(input.Username, input.Password); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"success": true,
		})
	}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies user credentials and returns the profile document
// with the user's friend list.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		result, customErr := deps.Store.Login(input.Username, input.Password)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}

// HandleUserLookup is the public existence/profile check.
// It reports whether the queried ID is registered; missing the id parameter
// is the only error case.
func HandleUserLookup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		profile, exists := deps.Store.Lookup(id)
		if !exists {
			resp.RespondSuccess(w, r, map[string]any{
				"exists": false,
			})
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"exists": true,
			"id":     profile.ID,
			"name":   profile.Name,
			"avatar": profile.Avatar,
		})
	}
}
