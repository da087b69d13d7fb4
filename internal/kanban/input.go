package kanban

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/datatypes"
)

const MaxLabels = 20

const dateLayout = "2006-01-02"

// ParseID turns a path or body identifier into a uuid. field names the input
// in the validation error.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, invalid("ParseID", field, "malformed identifier")
	}
	return id, nil
}

// NormalizeLabels trims every label, drops empties and exact duplicates,
// and keeps at most MaxLabels. The result is never nil.
func NormalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))

	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
		if len(out) == MaxLabels {
			break
		}
	}

	return out
}

// optional trims s and maps the empty string to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// normalizeLink accepts bare hosts ("example.com/x") as well as full URLs.
func normalizeLink(op, raw string) (*string, error) {
	link := strings.TrimSpace(raw)
	if link == "" {
		return nil, nil
	}

	if !strings.Contains(link, "://") {
		link = "https://" + link
	}

	parsed, err := url.Parse(link)
	if err != nil || parsed.Hostname() == "" {
		return nil, invalid(op, "link", "invalid URL")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, invalid(op, "link", "scheme must be http or https")
	}

	return &link, nil
}

func normalizePriority(op, raw string) (*string, error) {
	p := strings.ToLower(strings.TrimSpace(raw))
	if p == "" {
		return nil, nil
	}
	if !models.ValidPriority(p) {
		return nil, invalid(op, "priority", "must be one of low, medium, high")
	}
	return &p, nil
}

// parseDueDate accepts a calendar date or an RFC 3339 timestamp; the time
// of day is discarded.
func parseDueDate(op, raw string) (*datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, raw)
		if tsErr != nil {
			return nil, invalid(op, "due_date", "expected YYYY-MM-DD")
		}
		t = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}

	d := datatypes.Date(t)
	return &d, nil
}

// FormatDate renders a due date the way the API returns it.
func FormatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format(dateLayout)
}
