/*
Package handler provides HTTP handler functions for user authentication and management.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"uniconnect/internal/app/store"
	"uniconnect/internal/pkg/auth/jwt"
	"uniconnect/internal/pkg/errs"
	"uniconnect/internal/pkg/logx"
	"uniconnect/internal/pkg/req"
	"uniconnect/internal/pkg/resp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type RegisterInput struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Password           string `json:"password"`
	State              string `json:"state"`
	Course             string `json:"course"`
	PassingYear        int    `json:"passingYear"`
	RegistrationNumber string `json:"registrationNumber"`
}

// HandleRegister processes the request to create a new account. A successful
// registration also enrolls the user into its four default chats (org-wide,
// course, batch, home state) and issues a session credential.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name == "" || input.Course == "" || input.State == "" || input.PassingYear == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		newUser, err := deps.Store.CreateUser(r.Context(), store.CreateUserParams{
			Name:               input.Name,
			Email:              input.Email,
			Phone:              input.Phone,
			PasswordHash:       string(hashedPassword),
			State:              input.State,
			Course:             input.Course,
			PassingYear:        input.PassingYear,
			RegistrationNumber: input.RegistrationNumber,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				logx.Warn("registration conflict: email already exists", "email", input.Email)
				resp.RespondError(w, r, errs.NewError(errs.ErrEmailAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		keys := store.DefaultChatKeys(deps.Config.OrgName, newUser.Course, newUser.PassingYear, newUser.State)
		chatIDs, err := deps.Store.AssignDefaultChats(r.Context(), newUser.ID, keys)
		if err != nil {
			logx.Error(err, "failed to assign default chats", "user_id", newUser.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		payload := &jwt.Payload{
			ID:   newUser.ID.String(),
			Name: newUser.Name,
		}

		tokenString, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		jwt.SetSessionCookie(w, tokenString, deps.secureCookies())

		chats := make([]string, 0, len(chatIDs))
		for _, id := range chatIDs {
			chats = append(chats, id.String())
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token":  tokenString,
			"userId": newUser.ID.String(),
			"name":   newUser.Name,
			"chats":  chats,
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies user credentials and issues a session credential.
// Unknown email and wrong password produce the same generic error so account
// existence cannot be probed.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		dbUser, err := deps.Store.GetUserByEmail(r.Context(), input.Email)
		if err != nil {
			logx.Warn("login: user fetch failed", "email", input.Email, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		payload := &jwt.Payload{
			ID:   dbUser.ID.String(),
			Name: dbUser.Name,
		}

		token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		jwt.SetSessionCookie(w, token, deps.secureCookies())

		resp.RespondSuccess(w, r, map[string]any{
			"token":  token,
			"userId": dbUser.ID.String(),
			"name":   dbUser.Name,
		})
	}
}

// HandleLogout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side; bearer clients simply drop their copy.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, customErr := requireUser(r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		jwt.ClearSessionCookie(w, deps.secureCookies())

		resp.RespondSuccess(w, r, map[string]any{
			"message": "Logged out successfully",
		})
	}
}
