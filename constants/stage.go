package constants

// Stage is the canonical state of one extraction request as it moves
// through the pipeline.
type Stage string

// Stable values (these exact strings appear in logs and API payloads).
const (
	StageIdle             Stage = "IDLE"
	StageDocumentReceived Stage = "DOCUMENT_RECEIVED" // loader accepted the upload
	StagePrompted         Stage = "PROMPTED"          // prompt composed
	StageExtracting       Stage = "EXTRACTING"        // waiting on the model
	StageMapped           Stage = "MAPPED"            // rows built
	StageReady            Stage = "READY"             // terminal success
	StageFailed           Stage = "FAILED"            // terminal failure
)

// Terminal reports whether no further transition is possible from s.
func (s Stage) Terminal() bool {
	return s == StageReady || s == StageFailed
}
