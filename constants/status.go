package constants

// ReminderStatus is the outcome of a schedule call.
type ReminderStatus string

const (
	ReminderScheduled ReminderStatus = "SCHEDULED"
	ReminderDisabled  ReminderStatus = "DISABLED" // enabled=false, nothing armed
	ReminderPastDue   ReminderStatus = "PAST_DUE" // fire time already passed, nothing armed
)

// IngestStatus tracks one file through batch ingest.
type IngestStatus string

const (
	IngestQueued    IngestStatus = "QUEUED"
	IngestRunning   IngestStatus = "RUNNING"
	IngestSaved     IngestStatus = "SAVED"
	IngestRejected  IngestStatus = "REJECTED" // extraction ok, completeness gate failed
	IngestDuplicate IngestStatus = "DUPLICATE" // same content already ingested by this process
	IngestFailed    IngestStatus = "FAILED"
)
