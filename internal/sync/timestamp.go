package sync

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Layouts the source emits for updated_at, most common first. The report
// normally yields MySQL-style datetimes.
var canvassLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CanvassDate converts a source updated_at string to the RFC 3339 form VAN
// requires for dateCanvassed.
func CanvassDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range canvassLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.RFC3339), nil
		}
	}
	return "", eris.Errorf("sync: unparseable updated_at %q", s)
}
