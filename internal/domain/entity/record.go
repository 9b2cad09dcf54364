package entity

// Record is implemented by every content type kept in the portal store.
// RecordID is the backend identifier; PartitionKey is the category the record is
// grouped by, or "" when the type has no partitions.
type Record interface {
	RecordID() string
	PartitionKey() string
}
