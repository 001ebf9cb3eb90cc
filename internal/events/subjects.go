package events

const (
	SubjectSnapshotLoaded = "dinnerclub.snapshot.loaded"
	SubjectSnapshotFailed = "dinnerclub.snapshot.failed"
	SubjectExportCreated  = "dinnerclub.export.created"

	StreamName   = "DINNERCLUB_EVENTS"
	StreamMaxAge = "720h" // 30 days
)
