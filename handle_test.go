package formkit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
)

func TestFormHandle(t *testing.T) {
	t.Parallel()

	r := formkit.NewRegistry()
	t.Cleanup(func() { _ = r.Close() })

	var submitted map[string]any
	h, err := formkit.Bind(r, "wizard", formkit.Config{
		Schema: formkit.Schema{"name": {Initial: "", Rules: "required"}},
		OnSubmit: func(_ context.Context, values map[string]any) error {
			submitted = values
			return nil
		},
	})
	require.NoError(t, err)

	name, err := h.Form().EnsureField("name")
	require.NoError(t, err)

	assert.False(t, h.Valid())
	assert.False(t, h.Dirty())
	assert.Zero(t, h.Step())

	h.Touch()
	assert.True(t, name.Touched())

	name.OnChange("Ada")
	h.Next()
	assert.Equal(t, 1, h.Step())

	name.OnChange("Grace")
	assert.True(t, h.Previous())
	assert.Equal(t, "Ada", name.Value())
	assert.False(t, h.Previous())

	require.NoError(t, h.Submit(context.Background()))
	assert.Equal(t, map[string]any{"name": "Ada"}, submitted)
	assert.False(t, h.Submitting())
	assert.NoError(t, h.SubmitError())

	h.Reset()
	assert.False(t, h.Dirty())
	assert.Equal(t, "", name.Value())
}

func TestFormHandleDestroy(t *testing.T) {
	t.Parallel()

	r := formkit.NewRegistry()
	t.Cleanup(func() { _ = r.Close() })

	h1, err := formkit.Bind(r, "shared", formkit.Config{})
	require.NoError(t, err)
	h2, err := formkit.Bind(r, "shared", formkit.Config{})
	require.NoError(t, err)
	assert.Same(t, h1.Form(), h2.Form())
	assert.Equal(t, 2, r.Refs("shared"))

	h1.Destroy()
	h1.Destroy()
	assert.Equal(t, 1, r.Refs("shared"), "destroy releases exactly once")

	h2.Destroy()
	assert.Zero(t, r.Len())
	assert.True(t, h2.Form().Disposed())
}

func TestBindConflict(t *testing.T) {
	t.Parallel()

	r := formkit.NewRegistry()
	t.Cleanup(func() { _ = r.Close() })

	_, err := formkit.Bind(r, "f", formkit.Config{Schema: formkit.Schema{"a": {Initial: "x"}}})
	require.NoError(t, err)
	_, err = formkit.Bind(r, "f", formkit.Config{Schema: formkit.Schema{"a": {Initial: "y"}}})
	assert.ErrorIs(t, err, formkit.ErrSchemaConflict)
}
