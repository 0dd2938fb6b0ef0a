package logger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/ndkdeps/internal/ui/style"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

type metadataer interface {
	Metadata() map[string]any
}

// errorEntry is one link of an error chain as shown to the user.
type errorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the error chain. zerr errors contribute their own
// message and metadata; joined errors contribute each branch in order; any
// other error contributes its full Error() text and ends the walk.
// Links with an empty message only carry metadata, which is merged into the
// previous entry.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	var pending map[string]any

	var walk func(error)
	walk = func(current error) {
		for current != nil {
			if joined, ok := current.(interface{ Unwrap() []error }); ok {
				for _, branch := range joined.Unwrap() {
					walk(branch)
				}
				return
			}

			m, ok := current.(messager)
			if !ok {
				entries = append(entries, errorEntry{Message: current.Error(), Metadata: pending})
				pending = nil
				return
			}

			var md map[string]any
			if mdr, ok := current.(metadataer); ok {
				md = mdr.Metadata()
			}

			if m.Message() == "" {
				if len(entries) > 0 {
					entries[len(entries)-1].Metadata = mergeMetadata(entries[len(entries)-1].Metadata, md)
				} else {
					pending = mergeMetadata(pending, md)
				}
			} else {
				entries = append(entries, errorEntry{Message: m.Message(), Metadata: mergeMetadata(pending, md)})
				pending = nil
			}

			current = errors.Unwrap(current)
		}
	}
	walk(err)

	return entries
}

func mergeMetadata(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// formatErrorEntries renders entries as:
//
//	Error: <message> (k=v)
//
//	  Caused by:
//	    → <cause>
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, e := range entries {
		msgLines := strings.Split(e.Message, "\n")
		msgLines[0] += formatMetadata(e.Metadata)

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    "+style.Arrow+" "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
	}

	return strings.Join(lines, "\n")
}

func formatMetadata(md map[string]any) string {
	if len(md) == 0 {
		return ""
	}

	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, md[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
