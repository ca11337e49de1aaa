package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/granito-source/concordion/internal/platform"
)

// TreeSnapshot converts a descriptor tree into canonical-JSON-ready maps.
func TreeSnapshot(root platform.Descriptor) map[string]any {
	node := map[string]any{
		"id":   root.UniqueID().String(),
		"name": root.DisplayName(),
		"kind": root.Kind().String(),
	}
	children := root.Children()
	if len(children) > 0 {
		list := make([]any, len(children))
		for i, c := range children {
			list[i] = TreeSnapshot(c)
		}
		node["children"] = list
	}
	return node
}

// TraceSnapshot converts a trace into canonical-JSON-ready maps. Empty
// fields are omitted.
func TraceSnapshot(t *Trace) map[string]any {
	events := t.Events()
	list := make([]any, len(events))
	for i, e := range events {
		m := map[string]any{
			"seq":  e.Seq,
			"type": e.Type,
			"id":   e.ID,
		}
		if e.Status != "" {
			m["status"] = e.Status
		}
		if e.Reason != "" {
			m["reason"] = e.Reason
		}
		if e.Error != "" {
			m["error"] = e.Error
		}
		list[i] = m
	}

	c := t.Counts()
	return map[string]any{
		"events": list,
		"counts": map[string]any{
			"tests":      c.Tests,
			"successful": c.Successful,
			"failed":     c.Failed,
			"aborted":    c.Aborted,
			"skipped":    c.Skipped,
		},
	}
}

// WriteTree prints a tree as an indented outline, one descriptor per
// line.
func WriteTree(w io.Writer, root platform.Descriptor) error {
	return writeTree(w, root, 0)
}

func writeTree(w io.Writer, d platform.Descriptor, depth int) error {
	if _, err := fmt.Fprintf(w, "%s%s [%s]\n", strings.Repeat("  ", depth), d.DisplayName(), d.UniqueID()); err != nil {
		return err
	}
	for _, c := range d.Children() {
		if err := writeTree(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints counts followed by one line per failure.
func WriteSummary(w io.Writer, t *Trace) error {
	c := t.Counts()
	if _, err := fmt.Fprintf(w, "tests: %d, successful: %d, failed: %d, aborted: %d, skipped: %d\n",
		c.Tests, c.Successful, c.Failed, c.Aborted, c.Skipped); err != nil {
		return err
	}
	for _, f := range t.Failures() {
		if _, err := fmt.Fprintf(w, "  %s %s: %s\n", strings.ToUpper(f.Status), f.ID, f.Error); err != nil {
			return err
		}
	}
	return nil
}
