package dashboard

type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionMonitoring SessionStatus = "monitoring"
	SessionTerminated SessionStatus = "terminated"
)

// HoneypotSession is one engagement between a scammer and the decoy agent.
type HoneypotSession struct {
	ID       string        `json:"id"`
	Status   SessionStatus `json:"status"`
	ScamType string        `json:"scam_type"`
	Messages int           `json:"messages"`
	Duration string        `json:"duration"`
	Channel  string        `json:"channel"`
}

type IntelType string

const (
	IntelBank  IntelType = "bank"
	IntelUPI   IntelType = "upi"
	IntelPhone IntelType = "phone"
	IntelLink  IntelType = "link"
)

// IntelItem is an identifier extracted from a conversation.
type IntelItem struct {
	Type      IntelType `json:"type"`
	Value     string    `json:"value"`
	Seen      string    `json:"seen"`
	SessionID string    `json:"session_id"`
}

type ServiceStatus struct {
	Label   string `json:"label"`
	Status  string `json:"status"` // online | degraded | offline
	Latency string `json:"latency"`
}

type Stat struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Change  string `json:"change"`
	Trend   string `json:"trend"`   // up | down | neutral
	Variant string `json:"variant"` // threat | default | safe | warning
}

type Message struct {
	Sender    string `json:"sender"` // scammer | agent
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Flagged   bool   `json:"flagged,omitempty"`
}

type Conversation struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

type Activity struct {
	RequestsPerMinute int `json:"requests_per_minute"`
	QueueDepth        int `json:"queue_depth"`
	MemoryPercent     int `json:"memory_percent"`
	CPUPercent        int `json:"cpu_percent"`
}

type Overview struct {
	Stats    []Stat   `json:"stats"`
	Activity Activity `json:"activity"`
}
