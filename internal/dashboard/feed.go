package dashboard

import "github.com/Gourab-ghosh21/digital-spark/internal/domain"

// Feed serves the dashboard widgets from fixed demo data.
type Feed struct {
	stats        []Stat
	sessions     []HoneypotSession
	intel        []IntelItem
	status       []ServiceStatus
	conversation Conversation
	activity     Activity
}

func NewFeed() *Feed {
	return &Feed{
		stats: []Stat{
			{Title: "Scams Detected", Value: "1,247", Change: "+12% this week", Trend: "up", Variant: "threat"},
			{Title: "Active Sessions", Value: "4", Change: "2 engaging", Trend: "neutral", Variant: "default"},
			{Title: "Avg Engagement", Value: "8m 32s", Change: "+2m 15s", Trend: "up", Variant: "safe"},
			{Title: "Intel Extracted", Value: "342", Change: "+28 today", Trend: "up", Variant: "warning"},
		},
		sessions: []HoneypotSession{
			{ID: "SES-7A3F", Status: SessionActive, ScamType: "UPI Fraud", Messages: 12, Duration: "4m 32s", Channel: "WhatsApp"},
			{ID: "SES-9B2E", Status: SessionActive, ScamType: "Bank Phishing", Messages: 8, Duration: "2m 15s", Channel: "SMS"},
			{ID: "SES-4C1D", Status: SessionMonitoring, ScamType: "KYC Scam", Messages: 23, Duration: "8m 45s", Channel: "Email"},
			{ID: "SES-5E8F", Status: SessionTerminated, ScamType: "Lottery Fraud", Messages: 31, Duration: "12m 08s", Channel: "WhatsApp"},
		},
		intel: []IntelItem{
			{Type: IntelUPI, Value: "fraudster@ybl", Seen: "2 min ago", SessionID: "SES-7A3F"},
			{Type: IntelBank, Value: "XXXX XXXX 4521 7890", Seen: "5 min ago", SessionID: "SES-9B2E"},
			{Type: IntelPhone, Value: "+91 98765 43210", Seen: "8 min ago", SessionID: "SES-4C1D"},
			{Type: IntelLink, Value: "fake-bank-login.xyz", Seen: "12 min ago", SessionID: "SES-5E8F"},
			{Type: IntelUPI, Value: "scammer123@paytm", Seen: "15 min ago", SessionID: "SES-7A3F"},
			{Type: IntelPhone, Value: "+91 87654 32109", Seen: "18 min ago", SessionID: "SES-9B2E"},
		},
		status: []ServiceStatus{
			{Label: "Honeypot API", Status: "online", Latency: "45ms"},
			{Label: "AI Detection Engine", Status: "online", Latency: "120ms"},
			{Label: "Session Manager", Status: "online", Latency: "32ms"},
			{Label: "Callback Service", Status: "online", Latency: "89ms"},
		},
		conversation: Conversation{
			SessionID: "SES-7A3F",
			Messages: []Message{
				{Sender: "scammer", Text: "Congratulations! You have won ₹50,000 in our lucky draw. Please share your bank details to receive the prize.", Timestamp: "14:32:05", Flagged: true},
				{Sender: "agent", Text: "Oh wow, that's amazing! I never win anything. How did I get selected for this?", Timestamp: "14:32:18"},
				{Sender: "scammer", Text: "Your phone number was randomly selected by our computer system. Just share your account number and IFSC code.", Timestamp: "14:32:45", Flagged: true},
				{Sender: "agent", Text: "That sounds great! But which company is this from? And why do you need my bank details?", Timestamp: "14:33:02"},
				{Sender: "scammer", Text: "This is from Jio Lottery. We need bank details to transfer the winning amount. Also share your UPI ID: fraudster@ybl", Timestamp: "14:33:28", Flagged: true},
			},
		},
		activity: Activity{RequestsPerMinute: 847, QueueDepth: 12, MemoryPercent: 68, CPUPercent: 42},
	}
}

func (f *Feed) Overview() Overview {
	return Overview{Stats: append([]Stat(nil), f.stats...), Activity: f.activity}
}

func (f *Feed) Sessions() []HoneypotSession {
	return append([]HoneypotSession(nil), f.sessions...)
}

// Intel returns extracted items, optionally narrowed to one session.
func (f *Feed) Intel(sessionID string) []IntelItem {
	out := make([]IntelItem, 0, len(f.intel))
	for _, it := range f.intel {
		if sessionID == "" || it.SessionID == sessionID {
			out = append(out, it)
		}
	}
	return out
}

func (f *Feed) Status() []ServiceStatus {
	return append([]ServiceStatus(nil), f.status...)
}

// Conversation returns the live transcript. Only the featured session has one.
func (f *Feed) Conversation(sessionID string) (Conversation, error) {
	if sessionID != "" && sessionID != f.conversation.SessionID {
		return Conversation{}, domain.New(domain.KindNotFound, "conversation_not_found", "No transcript for this session.")
	}
	c := f.conversation
	c.Messages = append([]Message(nil), c.Messages...)
	return c, nil
}

// EngagingCount is the number of sessions still in active engagement.
func (f *Feed) EngagingCount() int {
	n := 0
	for _, s := range f.sessions {
		if s.Status == SessionActive {
			n++
		}
	}
	return n
}
