// Wraps errors under sentinel categories.
//
// Every package in bifrost declares its failure categories as sentinel
// errors. When a lower-level error crosses a package boundary it is wrapped
// under one of those sentinels so that callers can branch on the category
// with [errors.Is] while the original cause stays reachable for display
// and for more specific checks.
//
// Example usage:
//
//	if err := os.MkdirAll(dir, 0755); err != nil {
//	    return fault.Wrap(ErrSetup, err)
//	}
//
//	return fault.Wrapf(ErrMalformed, "line %d: %w", line, err)
package fault
