package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	userIDKey    ctxKey = "user_id"
	commandIDKey ctxKey = "command_id"
)

// WithUserID stores the signed-in user's ID in the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx extracts the user ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithCommandID tags the context with the ID of the console command that
// started the operation, so log lines of one command can be correlated.
func WithCommandID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, commandIDKey, id)
}

// CommandIDFromCtx returns the command ID or an empty string.
func CommandIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(commandIDKey).(string)
	return id
}

// NewCommandID returns a short random identifier for a console command.
func NewCommandID() string {
	return uuid.NewString()[:8]
}
