package port

import "time"

// NoticeLevel classifies a transient operator notification.
type NoticeLevel int

const (
	NoticeSuccess NoticeLevel = iota
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	default:
		return "error"
	}
}

// Sink is the rendering boundary. The core produces ready-to-display lines
// and notices; how they are drawn (and when notices expire) is the
// renderer's concern.
type Sink interface {
	// WriteLive overwrites the current dashboard line (no newline).
	WriteLive(line string) error
	// WriteStatus reflects the connection liveness indicator.
	WriteStatus(connected bool) error
	// WriteNotice shows a transient operator notification.
	WriteNotice(ts time.Time, level NoticeLevel, msg string) error
}
