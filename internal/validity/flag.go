// Package validity holds the observable "current form is valid" flag that gates exports and saves.
package validity

import "sync"

// Flag is a boolean with change notification. The zero value is an invalid flag with no
// subscribers and is ready to use.
type Flag struct {
	mu     sync.Mutex
	valid  bool
	nextID int
	subs   map[int]func(bool)
}

// NewFlag returns a flag with the given initial value.
func NewFlag(valid bool) *Flag {
	return &Flag{valid: valid}
}

// Valid returns the current value.
func (f *Flag) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valid
}

// Set stores v and, when the value changed, calls every subscriber with it before returning.
// Subscribers run outside the lock and may call Valid.
func (f *Flag) Set(v bool) {
	f.mu.Lock()
	if f.valid == v {
		f.mu.Unlock()
		return
	}
	f.valid = v
	subs := make([]func(bool), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn for change notifications and returns a function that removes it.
func (f *Flag) Subscribe(fn func(bool)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subs == nil {
		f.subs = make(map[int]func(bool))
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}
