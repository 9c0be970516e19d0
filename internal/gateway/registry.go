package gateway

import (
	"slices"
	"strings"
)

// Maps profile names to gateways.
type Registry struct {
	gateways map[string]Gateway
}

// Creates a registry holding the given gateways.
//
// A later gateway with the same profile replaces an earlier one.
func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, gw := range gateways {
		r.Register(gw)
	}
	return r
}

// Adds or replaces the gateway for its profile.
func (r *Registry) Register(gw Gateway) {
	r.gateways[strings.ToLower(gw.Profile())] = gw
}

// Returns the gateway for a profile name, matched case-insensitively.
func (r *Registry) Lookup(profile string) (Gateway, bool) {
	gw, ok := r.gateways[strings.ToLower(strings.TrimSpace(profile))]
	return gw, ok
}

// Returns the registered profile names in sorted order.
func (r *Registry) Profiles() []string {
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
