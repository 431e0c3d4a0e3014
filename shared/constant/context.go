package constant

type contextKey string

// Staff identity stored on the request context by the auth middleware.
const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	RoleManager      = "manager"
	RoleReceptionist = "receptionist"
)

// SystemUser is recorded as modifier for changes made by background jobs and
// API key callers.
const SystemUser = "system"
