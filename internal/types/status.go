package types

// Status is a type for the lifecycle status of a persisted resource.
// Deleted rows are kept for audit purposes and excluded from queries.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)
