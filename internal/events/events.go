package events

import "time"

type SnapshotLoadedEvent struct {
	SnapshotID    string    `json:"snapshot_id"`
	Source        string    `json:"source"`
	Responses     int       `json:"responses"`
	Restaurants   int       `json:"restaurants"`
	Respondents   int       `json:"respondents"`
	MissingValues int       `json:"missing_values"`
	WeightSum     float64   `json:"weight_sum"`
	LoadedAt      time.Time `json:"loaded_at"`
}

type SnapshotFailedEvent struct {
	Source    string    `json:"source"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type ExportCreatedEvent struct {
	SnapshotID string    `json:"snapshot_id"`
	Restaurant string    `json:"restaurant"`
	Respondent string    `json:"respondent"`
	Rows       int       `json:"rows"`
	Timestamp  time.Time `json:"timestamp"`
}
