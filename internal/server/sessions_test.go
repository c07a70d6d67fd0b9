package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(ttl time.Duration) (*SessionStore, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(ttl)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestSessionStore_CreateGet(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	sess := store.Create(editor.New(types.TemplateFreshie, nil), nil)

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, store.Len())

	_, ok = store.Get(uuid.New())
	assert.False(t, ok)
}

func TestSessionStore_GetExpires(t *testing.T) {
	store, now := newTestStore(time.Hour)
	sess := store.Create(editor.New(types.TemplateFreshie, nil), nil)

	*now = now.Add(59 * time.Minute)
	_, ok := store.Get(sess.ID)
	require.True(t, ok, "access within the TTL keeps the session")

	*now = now.Add(59 * time.Minute)
	_, ok = store.Get(sess.ID)
	require.True(t, ok, "the previous access renewed the session")

	*now = now.Add(61 * time.Minute)
	_, ok = store.Get(sess.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_Sweep(t *testing.T) {
	store, now := newTestStore(time.Hour)
	old := store.Create(editor.New(types.TemplateFreshie, nil), nil)

	*now = now.Add(30 * time.Minute)
	fresh := store.Create(editor.New(types.TemplateExperienced, nil), nil)

	*now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, store.Sweep())

	_, ok := store.Get(old.ID)
	assert.False(t, ok)
	_, ok = store.Get(fresh.ID)
	assert.True(t, ok)
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(0)
	assert.Equal(t, DefaultSessionTTL, store.ttl)

	sess := store.Create(editor.New(types.TemplateFreshie, nil), nil)
	assert.True(t, store.Delete(sess.ID))
	assert.False(t, store.Delete(sess.ID))
}

func TestSession_SavedAs(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	sess := store.Create(editor.New(types.TemplateFreshie, nil), nil)

	id, title := sess.SavedAs()
	assert.Equal(t, uuid.Nil, id)
	assert.Empty(t, title)

	saved := uuid.New()
	sess.setSaved(saved, "Backend")
	id, title = sess.SavedAs()
	assert.Equal(t, saved, id)
	assert.Equal(t, "Backend", title)
}
