// Package dates converts between the display format DD/MM/YYYY and the
// storage format YYYY-MM-DD. Malformed input degrades to empty results.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DisplayLayout is the user-facing date format.
	DisplayLayout = "02/01/2006"
	// StorageLayout is the persisted date format.
	StorageLayout = "2006-01-02"

	futureDateMessage = "A data não pode ser posterior a hoje."
)

// Validation is the outcome of a date check.
type Validation struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message,omitempty"`
}

// ToStorage converts DD/MM/YYYY into YYYY-MM-DD. Anything that is not
// exactly ten characters in that shape yields "".
func ToStorage(display string) string {
	if !isDisplayShape(display) {
		return ""
	}
	day, month, year := display[0:2], display[3:5], display[6:10]
	return year + "-" + month + "-" + day
}

// ToDisplay converts YYYY-MM-DD into DD/MM/YYYY. Inputs with fewer than
// three dash-separated parts yield "".
func ToDisplay(storage string) string {
	parts := strings.Split(storage, "-")
	if len(parts) < 3 {
		return ""
	}
	year, month, day := parts[0], parts[1], parts[2]
	return fmt.Sprintf("%s/%s/%s", pad(day, 2), pad(month, 2), pad(year, 4))
}

// Normalize returns value in display format whether it was stored in
// display or storage format.
func Normalize(value string) string {
	switch {
	case value == "":
		return ""
	case isDisplayShape(value):
		return value
	default:
		return ToDisplay(value)
	}
}

// NotInFuture validates that a display date is not after today.
func NotInFuture(display string) Validation {
	return NotInFutureAt(display, time.Now())
}

// NotInFutureAt validates display against the end of the day containing now.
// Unparsable input is treated as valid.
func NotInFutureAt(display string, now time.Time) Validation {
	parsed, err := time.ParseInLocation(DisplayLayout, display, now.Location())
	if err != nil {
		return Validation{IsValid: true}
	}
	y, m, d := now.Date()
	endOfToday := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	if parsed.After(endOfToday) {
		return Validation{IsValid: false, Message: futureDateMessage}
	}
	return Validation{IsValid: true}
}

func isDisplayShape(s string) bool {
	if len(s) != 10 || s[2] != '/' || s[5] != '/' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 2 || i == 5 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
