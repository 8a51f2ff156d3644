// Package dates formats the YYYY-MM-DD identifiers used for daily notes.
package dates

import (
	"fmt"
	"regexp"
	"time"
)

const Layout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Format returns t in local time as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Local().Format(Layout)
}

func Today() string {
	return Format(time.Now())
}

// Match reports whether id has the shape of a daily note id.
func Match(id string) bool {
	return dateRe.MatchString(id)
}

// Pretty turns "2024-04-25" into "Thursday, Apr 25, 2024".
func Pretty(id string) (string, error) {
	if !Match(id) {
		return "", fmt.Errorf("not a date id: %q", id)
	}
	t, err := time.ParseInLocation(Layout, id, time.Local)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", id, err)
	}
	return t.Format("Monday, Jan 2, 2006"), nil
}
