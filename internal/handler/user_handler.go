/*
Package handler provides HTTP handler functions for user profiles, avatars, and search.
*/
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"uniconnect/internal/app/storage"
	"uniconnect/internal/app/store"
	"uniconnect/internal/pkg/errs"
	"uniconnect/internal/pkg/logx"
	"uniconnect/internal/pkg/req"
	"uniconnect/internal/pkg/resp"
)

// SearchResultLimit caps the number of user-search matches returned.
const SearchResultLimit = 20

// HandleGetProfile returns the authenticated user's own profile.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		dbUser, err := deps.Store.GetUserByID(r.Context(), userID)
		if err != nil {
			logx.Warn("get_profile: user not found", "id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, userJSON(dbUser))
	}
}

type UpdateProfileInput struct {
	Name        *string            `json:"name"`
	Phone       *string            `json:"phone"`
	State       *string            `json:"state"`
	Bio         *string            `json:"bio"`
	SocialMedia []store.SocialLink `json:"socialMedia"`
}

// HandleUpdateProfile applies a partial update to the requester's profile.
// Absent fields are left unchanged; an explicit empty bio clears it.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name != nil && *input.Name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		updated, err := deps.Store.UpdateProfile(r.Context(), store.UpdateProfileParams{
			ID:          userID,
			Name:        input.Name,
			Phone:       input.Phone,
			State:       input.State,
			Bio:         input.Bio,
			SocialMedia: input.SocialMedia,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "update_profile: store update failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, userJSON(updated))
	}
}

// HandleUploadAvatar accepts a multipart avatar image, stores it, and points
// the profile at the new URL. The replaced object is deleted in the background.
func HandleUploadAvatar(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("avatar")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFormParseFailed))
			return
		}
		defer file.Close()

		mimeType := header.Header.Get("Content-Type")

		if customErr := storage.ValidateImageSize(header.Size); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if customErr := storage.ValidateImageType(header.Filename, mimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		fileExt := strings.ToLower(filepath.Ext(header.Filename))
		key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), fileExt)

		avatarURL, err := deps.StorageService.Upload(r.Context(), key, mimeType, file)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		oldURL, err := deps.Store.UpdateAvatar(r.Context(), userID, avatarURL)
		if err != nil {
			logx.Error(err, "upload_avatar: store update failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if oldKey := deps.StorageService.KeyFromURL(oldURL); oldKey != "" {
			go func(k string) {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = deps.StorageService.Delete(ctx, k)
			}(oldKey)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"avatar":  avatarURL,
			"message": "Avatar updated successfully",
		})
	}
}

// HandleGetUserByID returns another user's public profile. No session required.
func HandleGetUserByID(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		dbUser, err := deps.Store.GetUserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "get_user: fetch failed", "id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, publicUserJSON(dbUser))
	}
}

// HandleSearchUsers runs a case-insensitive substring search over names and
// registration numbers. No session required.
func HandleSearchUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrSearchQueryRequired))
			return
		}

		results, err := deps.Store.SearchUsers(r.Context(), query, SearchResultLimit)
		if err != nil {
			logx.Error(err, "search_users: query failed", "q", query)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		users := make([]map[string]any, 0, len(results))
		for _, u := range results {
			users = append(users, userSummaryJSON(u))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"users": users,
		})
	}
}
