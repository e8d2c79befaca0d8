package descriptor

import (
	"fmt"
	"time"
)

// DecodeSleep parses the control response's "HH:MM:SS" sleep string. It
// must be exactly 8 characters; any other length is rejected (the caller
// logs and ignores it). A value that decodes to zero or a negative
// duration is also rejected, so a non-positive sleep leaves the current
// poll interval unchanged.
func DecodeSleep(s string) (time.Duration, error) {
	if len(s) != 8 {
		return 0, fmt.Errorf("descriptor: sleep %q is not 8 characters", s)
	}

	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%02d:%02d:%02d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("descriptor: sleep %q is not HH:MM:SS: %w", s, err)
	}

	d := time.Duration(h)*3600*time.Second + time.Duration(m)*60*time.Second + time.Duration(sec)*time.Second
	if d <= 0 {
		return 0, fmt.Errorf("descriptor: sleep %q decodes to a non-positive duration", s)
	}
	return d, nil
}
