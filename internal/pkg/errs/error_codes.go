/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Chat and Message Business Logic Errors
const (
	// ErrChatNotFound indicates that the requested chat does not exist.
	ErrChatNotFound = 2101

	// ErrNotChatParticipant indicates that the requester is not a participant of the target chat.
	ErrNotChatParticipant = 2102

	// ErrMessageEmpty indicates that a message was sent with no text content.
	ErrMessageEmpty = 2201

	// ErrMessageContentTooLong indicates that the message text exceeded the maximum length limit.
	ErrMessageContentTooLong = 2202
)

// 23xx: Feed Business Logic Errors
const (
	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = 2301

	// ErrPostContentRequired indicates that a post was submitted with neither text nor an image.
	ErrPostContentRequired = 2302

	// ErrPostTextTooLong indicates that the post text exceeded the maximum length limit.
	ErrPostTextTooLong = 2303

	// ErrNotPostAuthor indicates that the requester attempted to delete a post they do not own.
	ErrNotPostAuthor = 2304

	// ErrSearchQueryRequired indicates that the user search endpoint was called without a query.
	ErrSearchQueryRequired = 2401
)

// 25xx: File Upload Errors
const (
	// ErrFileSizeTooLarge indicates that an uploaded image exceeded the size limit.
	ErrFileSizeTooLarge = 2501

	// ErrFileTypeInvalid indicates that an uploaded file is not an accepted image type.
	ErrFileTypeInvalid = 2502
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrAlreadyLoggedIn indicates the request carried a valid session where none was expected.
	ErrAlreadyLoggedIn = 3001

	// ErrInvalidEmail indicates that the supplied email address failed validation.
	ErrInvalidEmail = 3002

	// ErrInvalidPassword indicates that the supplied password failed validation.
	ErrInvalidPassword = 3003

	// ErrEmailAlreadyExists indicates that registration was attempted with an email already in use.
	ErrEmailAlreadyExists = 3004

	// ErrInvalidCredentials indicates a failed login. It deliberately does not
	// distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = 3005

	// ErrUserNotFound indicates that the requested user account does not exist.
	ErrUserNotFound = 3006

	// ErrUnauthorized indicates a missing or invalid session credential.
	ErrUnauthorized = 3007
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates an object storage operation failed.
	ErrFileStorageFailed = 5001
)
