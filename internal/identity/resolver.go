// Package identity maps Favro usernames to Slack user identities. The hot
// path uses a static mapping table; the directory service talks to the
// Slack API and is only used by offline tooling.
package identity

// Resolver performs exact, case-sensitive lookups against a static mapping
// of Favro username to Slack user ID. The mapping is read-only after
// construction and safe for concurrent reads.
type Resolver struct {
	mapping map[string]string
}

// NewResolver wraps a mapping table. A nil mapping behaves as empty.
func NewResolver(mapping map[string]string) *Resolver {
	if mapping == nil {
		mapping = map[string]string{}
	}
	return &Resolver{mapping: mapping}
}

// Resolve returns the Slack user ID for a Favro username. A miss is not an
// error: callers skip the mention and log it.
func (r *Resolver) Resolve(username string) (string, bool) {
	id, ok := r.mapping[username]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Size returns the number of configured mappings.
func (r *Resolver) Size() int {
	return len(r.mapping)
}
