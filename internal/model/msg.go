package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// InfoMsg carries a transient status line.
type InfoMsg struct {
	Text string
}

// UsersLoadedMsg is sent when users are loaded.
type UsersLoadedMsg struct {
	Users []User
}

// FilesLoadedMsg is sent when uploaded file versions are loaded.
type FilesLoadedMsg struct {
	Files []UploadedFile
}

// ConfigsLoadedMsg is sent when config entries are loaded.
type ConfigsLoadedMsg struct {
	Configs []ConfigEntry
}

// ClustersLoadedMsg is sent when cluster summaries are loaded.
type ClustersLoadedMsg struct {
	Clusters []ClusterSummary
}

// ClusterDetailLoadedMsg is sent when a cluster and its partitions are loaded.
type ClusterDetailLoadedMsg struct {
	Cluster    ClusterSummary
	Partitions []PartitionSummary
	Tab        int
}

// FileDetailLoadedMsg is sent when a single file version is loaded.
type FileDetailLoadedMsg struct {
	File UploadedFile
}

// EditRequestedMsg is sent when a record was looked up for editing.
type EditRequestedMsg struct {
	Record Record
}

// SavedMsg is sent when an edit form was saved.
type SavedMsg struct {
	Kind      Kind
	Operation string // insert, update
	Before    Record // nil on insert
	After     Record
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// DeletedMsg is sent after a confirmed delete succeeded.
type DeletedMsg struct {
	Kind    Kind
	ID      string
	Deleted Record
}

// DeleteCancelledMsg is sent when the user declined a delete.
type DeleteCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenUsers Screen = iota
	ScreenFiles
	ScreenConfigs
	ScreenClusters
	ScreenClusterDetail
	ScreenFileDetail
	ScreenForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
	ModeConfirm
)
