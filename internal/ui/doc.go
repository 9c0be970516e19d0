// Renders operation results for the terminal.
//
// A [Printer] writes to stdout. Headings and labels are styled with lipgloss
// when the output is a terminal and written plain otherwise, so piped output
// and tests see no escape sequences.
//
// Example usage:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.Summary(info.Summary)
//	p.Transcript(info)
package ui
