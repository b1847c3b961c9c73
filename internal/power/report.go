package power

import (
	"errors"
	"fmt"
)

// LineKind classifies a transcript line for colouring.
type LineKind int

const (
	LineInfo LineKind = iota
	LineCommand
	LineOK
	LineError
	LineWarn
)

// Line is one line of the apply transcript shown to the user.
type Line struct {
	Kind LineKind
	Text string
}

// Report describes the outcome of a single Apply.
type Report struct {
	Mode     Mode
	Method   Method
	Governor string
	// Command is a shell-style echo of what was run.
	Command string
	// Detail is the tool output or a summary of the write.
	Detail   string
	Hint     string
	CPUs     int
	Warnings []string
	Err      error
}

// OK reports whether the apply succeeded.
func (r *Report) OK() bool {
	return r != nil && r.Err == nil
}

// Lines renders the report as transcript lines.
func (r *Report) Lines() []Line {
	if r == nil {
		return nil
	}
	var lines []Line
	if r.Command != "" {
		lines = append(lines, Line{Kind: LineCommand, Text: "$ " + r.Command})
	}
	if r.Err == nil {
		lines = append(lines, Line{Kind: LineOK, Text: "[OK] " + r.Detail})
	} else {
		msg := r.Detail
		if msg == "" {
			msg = errorText(r.Err)
		}
		lines = append(lines, Line{Kind: LineError, Text: "[ERR] " + msg})
	}
	for _, w := range r.Warnings {
		lines = append(lines, Line{Kind: LineWarn, Text: "[WARN] " + w})
	}
	if r.Hint != "" {
		lines = append(lines, Line{Kind: LineInfo, Text: "Hint: " + r.Hint})
	}
	return lines
}

// errorText strips the ApplyError prefix so the log shows the cause only.
func errorText(err error) string {
	var ae *ApplyError
	if errors.As(err, &ae) && ae.Err != nil {
		return ae.Err.Error()
	}
	return fmt.Sprint(err)
}
