package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique id string for database records.
func New() string {
	return ksuid.New().String()
}
