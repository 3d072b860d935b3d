package docconfig

// Scope is an ordered string-keyed mapping. The zero value is not usable;
// create with NewScope. A nil *Scope behaves as an empty mapping for reads.
type Scope struct {
	keys   []string
	values map[string]any
}

// NewScope returns an empty Scope.
func NewScope() *Scope {
	return &Scope{values: make(map[string]any)}
}

// Set binds key to val. A new key is appended to the key order; an existing
// key keeps its position.
func (s *Scope) Set(key string, val any) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}

	s.values[key] = val
}

// Get returns the value bound to key.
func (s *Scope) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}

	val, ok := s.values[key]

	return val, ok
}

// Has reports whether key is bound.
func (s *Scope) Has(key string) bool {
	_, ok := s.Get(key)

	return ok
}

// Keys returns the keys in insertion order.
func (s *Scope) Keys() []string {
	if s == nil {
		return nil
	}

	out := make([]string, len(s.keys))
	copy(out, s.keys)

	return out
}

// Len returns the number of bound keys.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}

	return len(s.keys)
}

// Section returns the nested mapping bound to name, if any.
func (s *Scope) Section(name string) (*Scope, bool) {
	val, ok := s.Get(name)
	if !ok {
		return nil, false
	}

	sub, ok := val.(*Scope)

	return sub, ok && sub != nil
}

// Clone returns a shallow copy: the key order and top-level bindings are
// copied, nested values are shared.
func (s *Scope) Clone() *Scope {
	out := NewScope()

	for _, key := range s.Keys() {
		out.Set(key, s.values[key])
	}

	return out
}
