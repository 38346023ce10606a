package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"uniconnect/internal/app/storage"
	"uniconnect/internal/app/store"
	"uniconnect/internal/pkg/errs"
	"uniconnect/internal/pkg/logx"
	"uniconnect/internal/pkg/req"
	"uniconnect/internal/pkg/resp"
)

// MaxPostRunes bounds post text length.
const MaxPostRunes = 280

// HandleListFeed returns the global feed, newest post first. No session required.
func HandleListFeed(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed, err := deps.Store.ListFeed(r.Context())
		if err != nil {
			logx.Error(err, "list feed: query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		posts := make([]map[string]any, 0, len(feed))
		for _, p := range feed {
			posts = append(posts, postJSON(p))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"posts": posts,
		})
	}
}

// HandleCreatePost accepts a multipart post: a text field, an image, or both.
// A post with neither is rejected. The image, if present, is uploaded before
// the row is written so the feed never references a missing object.
func HandleCreatePost(deps *AppDeps) http.HandlerFunc {
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

		text := strings.TrimSpace(r.FormValue("text"))
		if utf8.RuneCountInString(text) > MaxPostRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrPostTextTooLong, MaxPostRunes))
			return
		}

		imageURL := ""
		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
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
			key := fmt.Sprintf("posts/%s%s", uuid.New().String(), fileExt)

			imageURL, err = deps.StorageService.Upload(r.Context(), key, mimeType, file)
			if err != nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
				return
			}
		case errors.Is(err, http.ErrMissingFile):
			// text-only post
		default:
			resp.RespondError(w, r, errs.NewError(errs.ErrFormParseFailed))
			return
		}

		if text == "" && imageURL == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrPostContentRequired))
			return
		}

		post, err := deps.Store.CreatePost(r.Context(), userID, text, imageURL)
		if err != nil {
			logx.Error(err, "create post: insert failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, postJSON(post))
	}
}

// HandleListUserPosts returns one user's posts, newest first. No session required.
func HandleListUserPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		userPosts, err := deps.Store.ListUserPosts(r.Context(), authorID)
		if err != nil {
			logx.Error(err, "list user posts: query failed", "author_id", authorID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		posts := make([]map[string]any, 0, len(userPosts))
		for _, p := range userPosts {
			posts = append(posts, postJSON(p))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"posts": posts,
		})
	}
}

// HandleToggleLike flips the requester's like on a post and returns the
// resulting liker list.
func HandleToggleLike(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "postId"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		likes, err := deps.Store.ToggleLike(r.Context(), postID, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "toggle like: update failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"postId": postID.String(),
			"likes":  likesJSON(likes),
		})
	}
}

// HandleDeletePost removes a post the requester authored. The attached image,
// if any, is deleted from storage in the background after the row is gone.
func HandleDeletePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "postId"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		imageURL, err := deps.Store.DeletePost(r.Context(), postID, userID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
			case errors.Is(err, store.ErrNotAuthor):
				resp.RespondError(w, r, errs.NewError(errs.ErrNotPostAuthor))
			default:
				logx.Error(err, "delete post: delete failed", "post_id", postID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			}
			return
		}

		if key := deps.StorageService.KeyFromURL(imageURL); key != "" {
			go func(k string) {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = deps.StorageService.Delete(ctx, k)
			}(key)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message": "Post deleted successfully",
		})
	}
}
