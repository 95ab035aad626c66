package auth

// Policies read the admin flag from the verified token and never from
// storage. Revoking a user's admin rights takes effect only once the tokens
// issued before the change have expired.

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// SelfOrAdmin allows the subject that owns targetID and any administrator.
// An empty targetID never matches a subject.
func SelfOrAdmin(id Identity, targetID string) Decision {
	if id.IsAdmin {
		return Allow
	}
	return Decision(targetID != "" && id.SubjectID == targetID)
}

// AdminOnly allows administrators.
func AdminOnly(id Identity) Decision {
	return Decision(id.IsAdmin)
}
