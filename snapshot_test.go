package formkit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
)

func TestSnapshotStack(t *testing.T) {
	t.Parallel()

	var st formkit.SnapshotStack
	_, ok := st.Pop()
	assert.False(t, ok, "empty pop")
	_, ok = st.Peek()
	assert.False(t, ok)

	files := formkit.Files{{Name: "cv.pdf", Size: 10}}
	first := formkit.Snapshot{"name": "Ada", "cv": files}
	st.Push(first)
	st.Push(formkit.Snapshot{"name": "Grace"})
	require.Equal(t, 2, st.Depth())

	first["name"] = "mutated"
	files[0].Name = "other.pdf"

	top, ok := st.Peek()
	require.True(t, ok)
	top["name"] = "mutated"

	got, ok := st.Pop()
	require.True(t, ok)
	assert.Equal(t, "Grace", got["name"])

	got, ok = st.Pop()
	require.True(t, ok)
	assert.Equal(t, "Ada", got["name"], "push stores a copy")
	assert.Equal(t, "cv.pdf", got["cv"].(formkit.Files)[0].Name)
	assert.Zero(t, st.Depth())
}

func TestSnapshotStackReplace(t *testing.T) {
	t.Parallel()

	var st formkit.SnapshotStack
	frames := []formkit.Snapshot{{"step": 1.0}, {"step": 2.0}}
	st.Replace(frames)
	frames[0]["step"] = 9.0

	out := st.Frames()
	require.Len(t, out, 2)
	assert.True(t, out[0].Equal(formkit.Snapshot{"step": 1.0}))
	assert.False(t, out[1].Equal(formkit.Snapshot{"step": 1.0}))

	st.Clear()
	assert.Empty(t, st.Frames())
}
