// Package ui implements the cenov2 control panel with Bubble Tea.
//
// Widgets:
//   - Logo: animated spokes beside the title
//   - mode rows: the three power profiles with selection and active badge
//   - LogPane: scrolling transcript of backend commands
//   - footer: governor, battery and CPU readings refreshed on a timer
//
// Blocking work (mode read, apply, status collection) always runs inside
// a tea.Cmd; Update only records results.
package ui
