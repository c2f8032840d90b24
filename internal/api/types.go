package api

// timeFormat is used for RFC3339 timestamps in API payloads.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// SubmitRequest carries a burn job submission.
type SubmitRequest struct {
	VideoPath    string `json:"videoPath"`
	SubtitlePath string `json:"subtitlePath"`
	ScriptTag    string `json:"scriptTag"`
	FontSize     int    `json:"fontSize,omitempty"`
	Alignment    int    `json:"alignment,omitempty"`
	MarginV      int    `json:"marginV,omitempty"`
}

// SubmitResponse acknowledges an accepted job.
type SubmitResponse struct {
	ID string `json:"id"`
}

// Job describes a burn job in a transport-friendly format.
type Job struct {
	ID            string `json:"id"`
	VideoPath     string `json:"videoPath"`
	SubtitlePath  string `json:"subtitlePath"`
	ScriptTag     string `json:"scriptTag"`
	OutputPath    string `json:"outputPath,omitempty"`
	Status        string `json:"status"`
	ErrorKind     string `json:"errorKind,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
	StderrTail    string `json:"stderrTail,omitempty"`
	ExitCode      int    `json:"exitCode"`
	RenderMillis  int64  `json:"renderMillis"`
	CreatedAt     string `json:"createdAt,omitempty"`
	StartedAt     string `json:"startedAt,omitempty"`
	FinishedAt    string `json:"finishedAt,omitempty"`
}

// JobListResponse wraps a collection of jobs for API responses.
type JobListResponse struct {
	Jobs []Job `json:"jobs"`
}

// JobResponse wraps a single job payload.
type JobResponse struct {
	Job Job `json:"job"`
}

// DependencyStatus captures availability of an external binary.
type DependencyStatus struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// HealthResponse aggregates daemon runtime information for API consumers.
type HealthResponse struct {
	Running      bool               `json:"running"`
	Ready        bool               `json:"ready"`
	FontsWarmed  bool               `json:"fontsWarmed"`
	Workers      int                `json:"workers"`
	ScriptTags   []string           `json:"scriptTags"`
	Counts       map[string]int     `json:"counts"`
	Dependencies []DependencyStatus `json:"dependencies"`
	JobDBPath    string             `json:"jobDbPath"`
	LockFilePath string             `json:"lockFilePath"`
}

// ErrorResponse carries a failed request's kind and message.
type ErrorResponse struct {
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error"`
}
