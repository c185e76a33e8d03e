// Package members exposes the cooperative member directory consumed by the
// loan opening recorder and the audit trail.
package members

// Member is a registered cooperative member.
type Member struct {
	ID   string
	NIK  string
	Nama string
}
