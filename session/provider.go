package session

// Provider is the process-wide session context, created once at start-up.
// It hands out a Store per browser context.
type Provider struct {
	storage Storage
	prefix  string
	opts    []StoreOption
}

// NewProvider binds a storage medium and the namespace prefix records live under.
func NewProvider(storage Storage, prefix string, opts ...StoreOption) *Provider {
	if prefix == "" {
		prefix = "session"
	}
	return &Provider{storage: storage, prefix: prefix, opts: opts}
}

// For returns the Store of one browser context. An empty id gets a Store
// with no usable storage, which always reads as logged out.
func (p *Provider) For(contextID string) *Store {
	if contextID == "" {
		return NewStore(UnavailableStorage{}, p.prefix, p.opts...)
	}
	return NewStore(p.storage, p.prefix+":"+contextID, p.opts...)
}
