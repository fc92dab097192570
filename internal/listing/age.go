package listing

import (
	"fmt"
	"time"
)

// RelativeAge renders how long ago a posting went up, e.g. "1 hour, 30m ago".
// Timestamps in the future count as zero minutes old.
func RelativeAge(epochSeconds int64, now time.Time) string {
	diff := now.Sub(time.Unix(epochSeconds, 0))
	if diff < 0 {
		diff = 0
	}
	mins := int64(diff / time.Minute)
	hrs := mins / 60
	days := hrs / 24

	switch {
	case days >= 1:
		return fmt.Sprintf("%d day%s, %dh ago", days, plural(days), hrs%24)
	case hrs >= 1:
		return fmt.Sprintf("%d hour%s, %dm ago", hrs, plural(hrs), mins%60)
	default:
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	}
}

func plural(n int64) string {
	if n > 1 {
		return "s"
	}
	return ""
}
