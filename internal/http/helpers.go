package http

import (
	"context"
	"strings"
	"time"
)

// sanitizeInput removes control characters except tab, newline and carriage
// return, then trims whitespace.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// withTimeout bounds a store or persistence call made on behalf of a request.
func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.RequestTimeout)
}

// cleanIDs sanitizes a list of ids and drops the empty ones.
func cleanIDs(ids []string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id = sanitizeInput(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func uptime(since time.Time) string {
	return time.Since(since).Round(time.Second).String()
}
