package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"uniconnect/internal/app/store"
	"uniconnect/internal/pkg/errs"
)

func TestHandleSearchUsers(t *testing.T) {
	fake := &fakeStore{
		searchUsers: func(ctx context.Context, query string, limit int) ([]store.UserSummary, error) {
			if limit != SearchResultLimit {
				t.Errorf("limit = %d, want %d", limit, SearchResultLimit)
			}
			return []store.UserSummary{
				{ID: uuid.New(), Name: "Priya Sharma", RegistrationNumber: "REG-001"},
			}, nil
		},
	}
	deps := testDeps(fake, nil)

	w := doRequest(HandleSearchUsers(deps), httptest.NewRequest("GET", "/api/user/search?q=priya", nil))

	response := decodeResponse(t, w)
	if response.Code != 0 {
		t.Fatalf("search failed: %s", w.Body.String())
	}
	users := response.Data.(map[string]any)["users"].([]any)
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
}

func TestHandleSearchUsersRequiresQuery(t *testing.T) {
	deps := testDeps(&fakeStore{}, nil)

	for _, target := range []string{"/api/user/search", "/api/user/search?q=", "/api/user/search?q=%20%20"} {
		w := doRequest(HandleSearchUsers(deps), httptest.NewRequest("GET", target, nil))
		if response := decodeResponse(t, w); response.Code != errs.ErrSearchQueryRequired {
			t.Errorf("%s: code = %d, want %d", target, response.Code, errs.ErrSearchQueryRequired)
		}
	}
}

func TestHandleGetUserByIDHidesContactDetails(t *testing.T) {
	userID := uuid.New()

	fake := &fakeStore{
		getUserByID: func(ctx context.Context, id uuid.UUID) (store.User, error) {
			return store.User{
				ID:     userID,
				Name:   "Priya",
				Email:  "priya@example.com",
				Phone:  "9999999999",
				State:  "Kerala",
				Course: "B.Tech CSE",
			}, nil
		},
	}
	deps := testDeps(fake, nil)

	r := withURLParam(httptest.NewRequest("GET", "/api/user/"+userID.String(), nil), "id", userID.String())
	w := doRequest(HandleGetUserByID(deps), r)

	response := decodeResponse(t, w)
	if response.Code != 0 {
		t.Fatalf("get failed: %s", w.Body.String())
	}

	data := response.Data.(map[string]any)
	if data["name"] != "Priya" {
		t.Errorf("name = %v", data["name"])
	}
	if _, present := data["email"]; present {
		t.Error("public profile must not include email")
	}
	if _, present := data["phone"]; present {
		t.Error("public profile must not include phone")
	}
}

func TestHandleGetUserByIDNotFound(t *testing.T) {
	fake := &fakeStore{
		getUserByID: func(ctx context.Context, id uuid.UUID) (store.User, error) {
			return store.User{}, store.ErrNotFound
		},
	}
	deps := testDeps(fake, nil)

	missing := uuid.New()
	r := withURLParam(httptest.NewRequest("GET", "/api/user/"+missing.String(), nil), "id", missing.String())
	w := doRequest(HandleGetUserByID(deps), r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if response := decodeResponse(t, w); response.Code != errs.ErrUserNotFound {
		t.Errorf("code = %d, want %d", response.Code, errs.ErrUserNotFound)
	}
}

func TestHandleUpdateProfilePartial(t *testing.T) {
	userID := uuid.New()

	fake := &fakeStore{
		updateProfile: func(ctx context.Context, p store.UpdateProfileParams) (store.User, error) {
			if p.Name != nil {
				t.Error("name should be absent from a bio-only update")
			}
			if p.Bio == nil || *p.Bio != "Go enthusiast" {
				t.Errorf("bio = %v", p.Bio)
			}
			return store.User{ID: userID, Name: "Priya", Bio: *p.Bio}, nil
		},
	}
	deps := testDeps(fake, nil)

	r := authedRequest(jsonRequest("PUT", "/api/user/profile", `{"bio":"Go enthusiast"}`), userID, "Priya")
	w := doRequest(HandleUpdateProfile(deps), r)

	response := decodeResponse(t, w)
	if response.Code != 0 {
		t.Fatalf("update failed: %s", w.Body.String())
	}
	data := response.Data.(map[string]any)
	if data["bio"] != "Go enthusiast" {
		t.Errorf("bio = %v", data["bio"])
	}
}

func TestHandleUpdateProfileRejectsBlankName(t *testing.T) {
	deps := testDeps(&fakeStore{}, nil)

	r := authedRequest(jsonRequest("PUT", "/api/user/profile", `{"name":""}`), uuid.New(), "Priya")
	w := doRequest(HandleUpdateProfile(deps), r)

	if response := decodeResponse(t, w); response.Code != errs.ErrInvalidParams {
		t.Errorf("code = %d, want %d", response.Code, errs.ErrInvalidParams)
	}
}

func TestHandleGetProfileRequiresSession(t *testing.T) {
	deps := testDeps(&fakeStore{}, nil)

	w := doRequest(HandleGetProfile(deps), httptest.NewRequest("GET", "/api/user/profile", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
