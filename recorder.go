package vtcore

import "github.com/google/uuid"

// Recorder pairs a RecordingProvider with a stable session id, so an
// embedder persisting recorded sessions (for replay or support bundles) has
// something to key storage on without inventing its own id scheme.
type Recorder struct {
	SessionID string
	provider  RecordingProvider
}

// NewRecorder wraps provider with a freshly generated session id.
func NewRecorder(provider RecordingProvider) *Recorder {
	if provider == nil {
		provider = NoopRecording{}
	}
	return &Recorder{
		SessionID: uuid.NewString(),
		provider:  provider,
	}
}

// Record appends raw bytes under this session's recording.
func (r *Recorder) Record(data []byte) {
	r.provider.Record(data)
}

// Data returns everything recorded for this session since the last Clear.
func (r *Recorder) Data() []byte {
	return r.provider.Data()
}

// Clear discards the session's recorded bytes but keeps its SessionID.
func (r *Recorder) Clear() {
	r.provider.Clear()
}

// Reset discards the recorded bytes and assigns a new SessionID, starting a
// fresh recording session against the same backing provider.
func (r *Recorder) Reset() {
	r.provider.Clear()
	r.SessionID = uuid.NewString()
}

var _ RecordingProvider = (*Recorder)(nil)
