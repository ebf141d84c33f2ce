package auth

import "context"

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyUsername
	ctxKeyRemoteToken
)

// WithIdentity attaches the authenticated identity to a context. The
// middleware calls this; background jobs that never pass through it simply
// have no identity and route to the local store.
func WithIdentity(ctx context.Context, userID uint, username, remoteToken string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, userID)
	ctx = context.WithValue(ctx, ctxKeyUsername, username)
	return context.WithValue(ctx, ctxKeyRemoteToken, remoteToken)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(uint)
	return id, ok && id != 0
}

// UsernameFromContext returns the authenticated username, if any.
func UsernameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(ctxKeyUsername).(string)
	return name
}

// RemoteTokenFromContext returns the remote store access token, if any.
func RemoteTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ctxKeyRemoteToken).(string)
	return token
}

// State answers the storage router's per-call routing question and serves as
// the remote client's token source. Both read from the request context, so a
// login mid-sequence takes effect on the very next call.
type State struct {
	remoteConfigured bool
}

// NewState creates the session state. remoteConfigured reflects whether the
// remote record store has a URL and API key at all.
func NewState(remoteConfigured bool) *State {
	return &State{remoteConfigured: remoteConfigured}
}

// UseRemote implements storage.SessionState.
func (s *State) UseRemote(ctx context.Context) bool {
	return s.remoteConfigured && RemoteTokenFromContext(ctx) != ""
}

// AccessToken implements remote.TokenSource.
func (s *State) AccessToken(ctx context.Context) string {
	return RemoteTokenFromContext(ctx)
}
