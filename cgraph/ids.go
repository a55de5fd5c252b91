package cgraph

import "github.com/google/uuid"

// NewMethodID returns a fresh unique method id scoped under cid, for
// callers that don't want to hand-roll their own naming scheme for a
// constraint's alternative methods — a method id only needs to be unique,
// never human-chosen.
func NewMethodID(cid string) string {
	return cid + ":" + uuid.NewString()
}
