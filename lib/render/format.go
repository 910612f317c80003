package render

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/c2h5oh/datasize"
)

// TimestampLayout is used for every absolute creation time.
const TimestampLayout = "2006.01.02 15:04:05"

// Time deltas at or below hideDeltaBelow are not shown; deltas of an hour or
// more are replaced by the absolute timestamp.
const (
	hideDeltaBelow = 999999 * time.Microsecond
	secondsBelow   = 60*time.Second + 499999*time.Microsecond
	deltaBelow     = time.Hour + 499999*time.Microsecond
)

var sizeUnits = []struct {
	letter string
	size   datasize.ByteSize
}{
	{"K", datasize.KB},
	{"M", datasize.MB},
	{"G", datasize.GB},
	{"T", datasize.TB},
	{"P", datasize.PB},
}

// FormatTimestamp formats an absolute creation time.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// PrettySize formats a byte count with 1024-based units: one decimal below 10
// (to 0.1) and below 20 (to 0.2), whole numbers above. Counts below 100 are
// printed in bytes.
func PrettySize(n int64) string {
	if n < 100 {
		return strconv.FormatInt(n, 10) + "B"
	}

	b := float64(n)
	for _, u := range sizeUnits {
		unit := float64(u.size)
		switch v := b / unit; {
		case v < 10:
			return strconv.FormatFloat(math.RoundToEven(b/(unit/10))/10, 'f', 1, 64) + u.letter
		case v < 20:
			return strconv.FormatFloat(math.RoundToEven(b/(unit/5))/5, 'f', 1, 64) + u.letter
		case v < 1024:
			return strconv.FormatFloat(math.RoundToEven(v), 'f', 0, 64) + u.letter
		}
	}
	return strconv.FormatFloat(math.RoundToEven(b/float64(datasize.PB)), 'f', 0, 64) + "P"
}

// SizeDelta formats a signed size difference. A zero difference yields "".
func SizeDelta(d int64) string {
	switch {
	case d > 0:
		return "+" + PrettySize(d)
	case d < 0:
		return "-" + PrettySize(-d)
	}
	return ""
}

// TimeDelta formats an elapsed time as "+Ns" under a minute, "+M:SS" under an
// hour and "+H:MM:SS" when it rounds to the hour. It reports false when the
// gap is too large for a delta.
func TimeDelta(d time.Duration) (string, bool) {
	if d >= deltaBelow {
		return "", false
	}
	secs := int64(math.RoundToEven(d.Seconds()))
	if d < secondsBelow {
		return fmt.Sprintf("+%ds", secs), true
	}
	if secs >= 3600 {
		return fmt.Sprintf("+%d:%02d:%02d", secs/3600, secs%3600/60, secs%60), true
	}
	return fmt.Sprintf("+%d:%02d", secs/60, secs%60), true
}
