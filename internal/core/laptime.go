package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidLapTime is returned for lap times not in HH:MM:SS or MM:SS form.
var ErrInvalidLapTime = errors.New("invalid lap time")

// ParseLapTime parses "HH:MM:SS" or "MM:SS" into a duration.
// Minutes and seconds must be below 60 when a larger unit precedes them.
func ParseLapTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLapTime, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLapTime, s)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLapTime, s)
		}
		nums[i] = n
	}

	var d time.Duration
	if len(nums) == 3 {
		d = time.Duration(nums[0])*time.Hour + time.Duration(nums[1])*time.Minute + time.Duration(nums[2])*time.Second
	} else {
		d = time.Duration(nums[0])*time.Minute + time.Duration(nums[1])*time.Second
	}
	return d, nil
}

// FormatLapTime renders d as HH:MM:SS, truncated to whole seconds.
func FormatLapTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
