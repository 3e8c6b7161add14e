package model

import "fmt"

type identityKind int

const (
	anonymousIdentity identityKind = iota + 1
	authenticatedIdentity
)

// Identity is the key a cart or order is scoped to: either an anonymous
// session token or an authenticated user id, never both.
type Identity struct {
	kind      identityKind
	sessionID string
	userID    uint
}

func Anonymous(sessionID string) Identity {
	return Identity{kind: anonymousIdentity, sessionID: sessionID}
}

func Authenticated(userID uint) Identity {
	return Identity{kind: authenticatedIdentity, userID: userID}
}

func (i Identity) IsAuthenticated() bool {
	return i.kind == authenticatedIdentity
}

// IsZero reports an unresolved identity.
func (i Identity) IsZero() bool {
	return i.kind == 0
}

func (i Identity) UserID() (uint, bool) {
	if i.kind != authenticatedIdentity {
		return 0, false
	}
	return i.userID, true
}

func (i Identity) SessionID() (string, bool) {
	if i.kind != anonymousIdentity {
		return "", false
	}
	return i.sessionID, true
}

// LogFields is the identity as structured log fields.
func (i Identity) LogFields() map[string]interface{} {
	switch i.kind {
	case authenticatedIdentity:
		return map[string]interface{}{"user_id": i.userID}
	case anonymousIdentity:
		return map[string]interface{}{"session_id": i.sessionID}
	}
	return map[string]interface{}{"identity": "none"}
}

func (i Identity) String() string {
	switch i.kind {
	case authenticatedIdentity:
		return fmt.Sprintf("user:%d", i.userID)
	case anonymousIdentity:
		return "session:" + i.sessionID
	}
	return "none"
}
