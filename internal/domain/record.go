package domain

import "time"

// Record is the persisted envelope shared by the local cache and the remote
// store: the whole item list plus the time it was written. Records are
// always replaced wholesale, never patched.
type Record struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}
