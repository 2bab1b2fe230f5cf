package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/intray-live/internal/domain"
)

// VariableContext holds the values a template can reference.
type VariableContext struct {
	Notification domain.Notification
	UnreadCount  int
	Now          time.Time
}

// Variables lists every supported variable name.
var Variables = []string{
	"id", "title", "message", "category", "created-at", "time", "age", "read", "unread-count",
}

// VariableResolver resolves one variable against a context.
type VariableResolver interface {
	Resolve(name string, ctx VariableContext) (string, error)
}

type variableResolver struct{}

// NewVariableResolver creates a variable resolver.
func NewVariableResolver() VariableResolver {
	return variableResolver{}
}

func (variableResolver) Resolve(name string, ctx VariableContext) (string, error) {
	n := ctx.Notification
	switch name {
	case "id":
		return n.ID, nil
	case "title":
		return n.Title, nil
	case "message":
		return n.Message, nil
	case "category":
		return n.Category.String(), nil
	case "created-at":
		if n.CreatedAt.IsZero() {
			return "", nil
		}
		return n.CreatedAt.UTC().Format(time.RFC3339), nil
	case "time":
		if n.CreatedAt.IsZero() {
			return "", nil
		}
		return n.CreatedAt.Local().Format("15:04:05"), nil
	case "age":
		return age(n.CreatedAt, ctx.Now), nil
	case "read":
		return strconv.FormatBool(n.Read), nil
	case "unread-count":
		return strconv.Itoa(ctx.UnreadCount), nil
	}
	return "", fmt.Errorf("unknown variable: %s (available: %s)", name, strings.Join(Variables, ", "))
}

// age renders the time since t in the largest whole unit.
func age(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if now.IsZero() {
		now = time.Now()
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
