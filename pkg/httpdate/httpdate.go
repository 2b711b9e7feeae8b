// Package httpdate parses and formats HTTP-date values as defined in
// RFC 9110 section 5.6.7. Recipients must accept the preferred IMF-fixdate
// format as well as the two obsolete formats (RFC 850 and asctime); senders
// must only ever generate IMF-fixdate in GMT.
package httpdate

import (
	"fmt"
	"time"
)

// IMF-fixdate, e.g. "Sun, 06 Nov 1994 08:49:37 GMT".
const imfFixdate = "Mon, 02 Jan 2006 15:04:05 GMT"

// Parse parses an HTTP-date header value. It accepts all three formats
// required of a recipient.
func Parse(value string) (time.Time, error) {
	if date, err := time.Parse(imfFixdate, value); err == nil {
		return date, nil
	}
	if date, err := time.Parse(time.RFC850, value); err == nil {
		return date, nil
	}
	if date, err := time.Parse(time.ANSIC, value); err == nil {
		// asctime dates are assumed to be in UTC
		return date, nil
	}
	return time.Time{}, fmt.Errorf("not a valid HTTP-date: %q", value)
}

// Format formats a timestamp as an IMF-fixdate string in GMT.
// HTTP-date has second resolution, so sub-second precision is truncated.
func Format(t time.Time) string {
	return t.Truncate(time.Second).UTC().Format(imfFixdate)
}
