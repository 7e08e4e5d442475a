package control_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/control"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

func newForm(t *testing.T, schema formkit.Schema, opts ...formkit.Option) (*formkit.Form, *formkit.DiagnosticRecorder) {
	t.Helper()
	rec := &formkit.DiagnosticRecorder{}
	form, err := formkit.NewForm("profile", formkit.Config{Schema: schema}, append(opts, formkit.WithDiagnostics(rec))...)
	require.NoError(t, err)
	t.Cleanup(form.Dispose)
	return form, rec
}

func TestNewControl(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("name is required", func(t *testing.T) {
		form, _ := newForm(t, nil)
		_, err := control.New(ctx, form, control.Props{})
		assert.True(t, formkit.IsConfigurationError(err))
		assert.ErrorIs(t, err, formkit.ErrMissingDefinition)
	})

	t.Run("radio needs a value", func(t *testing.T) {
		form, _ := newForm(t, nil)
		_, err := control.New(ctx, form, control.Props{Name: "plan", Type: control.TypeRadio})
		assert.ErrorIs(t, err, formkit.ErrMissingDefinition)
	})

	t.Run("creates the field from the schema", func(t *testing.T) {
		form, rec := newForm(t, formkit.Schema{"email": {Initial: "me@x.io", Rules: "required|email"}})
		c, err := control.New(ctx, form, control.Props{Name: "email", Rules: "ignored"})
		require.NoError(t, err)

		f, ok := form.Field("email")
		require.True(t, ok)
		assert.Same(t, f, c.Field())
		assert.Equal(t, "required|email", f.Definition().Rules)
		assert.Equal(t, "me@x.io", f.Value())
		assert.Empty(t, rec.Codes())
	})

	t.Run("falls back to type defaults and own rules", func(t *testing.T) {
		form, rec := newForm(t, nil)

		text, err := control.New(ctx, form, control.Props{Name: "nick", Rules: "required"})
		require.NoError(t, err)
		assert.Equal(t, "", text.Field().Value())
		assert.False(t, text.Field().Valid())

		box, err := control.New(ctx, form, control.Props{Name: "agree", Type: control.TypeCheckbox})
		require.NoError(t, err)
		assert.Equal(t, false, box.Field().Value())
		assert.Equal(t, formkit.KindBool, box.Field().Kind())

		assert.Empty(t, rec.Codes())
	})

	t.Run("reports mismatched initial values", func(t *testing.T) {
		form, rec := newForm(t, formkit.Schema{
			"agree": {Initial: "yes"},
			"age":   {Initial: 30},
			"name":  {Initial: 5},
		})
		for _, p := range []control.Props{
			{Name: "agree", Type: control.TypeCheckbox},
			{Name: "age", Type: control.TypeNumber},
			{Name: "name"},
		} {
			_, err := control.New(ctx, form, p)
			require.NoError(t, err)
		}

		all := rec.All()
		require.Len(t, all, 2)
		assert.Equal(t, formkit.DiagInitialValueType, all[0].Code)
		assert.Equal(t, "agree", all[0].Field)
		assert.Equal(t, "boolean", all[0].Attrs["expected"])
		assert.Equal(t, "string", all[0].Attrs["got"])
		assert.Equal(t, "name", all[1].Field)
	})

	t.Run("radios share one field", func(t *testing.T) {
		form, _ := newForm(t, formkit.Schema{"plan": {Initial: "free"}})
		free, err := control.New(ctx, form, control.Props{Name: "plan", Type: control.TypeRadio, Value: "free"})
		require.NoError(t, err)
		pro, err := control.New(ctx, form, control.Props{Name: "plan", Type: control.TypeRadio, Value: "pro"})
		require.NoError(t, err)

		assert.Same(t, free.Field(), pro.Field())
		assert.Len(t, form.Fields(), 1)

		assert.True(t, free.Render().Input.Checked)
		assert.False(t, pro.Render().Input.Checked)

		pro.OnChange(control.Event{Value: "pro"})
		assert.False(t, free.Render().Input.Checked)
		assert.True(t, pro.Render().Input.Checked)
		assert.Equal(t, "pro", pro.Render().Input.Value)
	})
}

func TestControlOnChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("checkbox without value stores the checked state", func(t *testing.T) {
		form, _ := newForm(t, nil)
		c, err := control.New(ctx, form, control.Props{Name: "agree", Type: control.TypeCheckbox, Rules: "accepted"})
		require.NoError(t, err)

		c.OnChange(control.Event{Checked: true})
		assert.Equal(t, true, c.Field().Value())
		assert.True(t, c.Field().Valid())

		b := c.Render()
		assert.True(t, b.Input.Checked)
		assert.True(t, b.Input.HasChecked)
		assert.False(t, b.Input.HasValue, "value-less checkbox has no value attribute")
	})

	t.Run("checked checkbox with value satisfies accepted", func(t *testing.T) {
		form, _ := newForm(t, nil)
		c, err := control.New(ctx, form, control.Props{Name: "terms", Type: control.TypeCheckbox, Value: "subscribe", Rules: "accepted"})
		require.NoError(t, err)
		assert.False(t, c.Field().Valid())

		c.OnChange(control.Event{Checked: true})
		assert.Equal(t, "subscribe", c.Field().Value())
		assert.True(t, c.Field().Valid())

		c.OnChange(control.Event{Checked: false})
		assert.False(t, c.Field().Valid())
	})

	t.Run("checkbox with value stores it when checked", func(t *testing.T) {
		form, _ := newForm(t, nil)
		c, err := control.New(ctx, form, control.Props{Name: "news", Type: control.TypeCheckbox, Value: "weekly"})
		require.NoError(t, err)

		c.OnChange(control.Event{Checked: true, Value: "weekly"})
		assert.Equal(t, "weekly", c.Field().Value())
		assert.True(t, c.Render().Input.Checked)

		c.OnChange(control.Event{Checked: false, Value: "weekly"})
		assert.Equal(t, false, c.Field().Value())
		assert.False(t, c.Render().Input.Checked)
		assert.Equal(t, "weekly", c.Render().Input.Value)
	})

	t.Run("number parses text", func(t *testing.T) {
		form, _ := newForm(t, nil)
		c, err := control.New(ctx, form, control.Props{Name: "age", Type: control.TypeNumber, Rules: "numeric|min:18"})
		require.NoError(t, err)

		c.OnChange(control.Event{Value: "21"})
		assert.Equal(t, 21.0, c.Field().Value())
		assert.True(t, c.Field().Valid())

		c.OnChange(control.Event{Value: "12"})
		assert.True(t, c.Field().Errors().HasRule("min"))

		c.OnChange(control.Event{Value: "abc"})
		assert.Equal(t, "abc", c.Field().Value())
		assert.False(t, c.Field().Valid())
	})

	t.Run("file stores the list and renders no value", func(t *testing.T) {
		form, _ := newForm(t, nil)
		c, err := control.New(ctx, form, control.Props{Name: "cv", Type: control.TypeFile, Rules: "required"})
		require.NoError(t, err)
		assert.False(t, c.Field().Valid())

		files := formkit.Files{{Name: "cv.pdf", Size: 100}}
		c.OnChange(control.Event{Files: files})
		assert.Equal(t, files, c.Field().Value())
		assert.True(t, c.Field().Valid())

		b := c.Render()
		assert.False(t, b.Input.HasValue)
		assert.Nil(t, b.Input.Value)
	})

	t.Run("select stores text", func(t *testing.T) {
		form, _ := newForm(t, nil)
		c, err := control.New(ctx, form, control.Props{Name: "country", Component: control.ComponentSelect, Rules: "in:ua:pl"})
		require.NoError(t, err)

		c.OnChange(control.Event{Value: "pl"})
		b := c.Render()
		assert.Equal(t, "pl", b.Input.Value)
		assert.True(t, b.Meta.Valid)
		assert.True(t, b.Meta.Dirty)
	})
}

func TestControlFocusBlur(t *testing.T) {
	t.Parallel()

	form, _ := newForm(t, nil)
	c, err := control.New(context.Background(), form, control.Props{Name: "nick", Rules: "required"})
	require.NoError(t, err)

	c.OnFocus()
	assert.True(t, c.Render().Meta.Focused)

	c.OnBlur()
	meta := c.Render().Meta
	assert.False(t, meta.Focused)
	assert.True(t, meta.Touched)
	assert.False(t, meta.Valid)
	assert.True(t, meta.Errors.HasRule("required"))
}

func TestControlUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	form, _ := newForm(t, nil)
	c, err := control.New(ctx, form, control.Props{Name: "nick", Rules: "required"})
	require.NoError(t, err)
	c.OnChange(control.Event{Value: "ab"})

	require.NoError(t, c.Update(control.Props{Name: "nick", Rules: "required|min:3"}))
	assert.True(t, c.Field().Errors().HasRule("min"))
	assert.Equal(t, "ab", c.Field().Value())

	require.NoError(t, c.Update(control.Props{Name: "nickname", Rules: "required|min:3"}))
	_, ok := form.Field("nick")
	assert.False(t, ok)
	f, ok := form.Field("nickname")
	require.True(t, ok)
	assert.Same(t, c.Field(), f)

	err = c.Update(control.Props{Name: "nickname", Rules: "what"})
	assert.True(t, formkit.IsConfigurationError(err))
}

func TestControlUnmount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("keeps state by default", func(t *testing.T) {
		form, _ := newForm(t, nil)
		c, err := control.New(ctx, form, control.Props{Name: "nick"})
		require.NoError(t, err)

		assert.False(t, c.Unmount())
		_, ok := form.Field("nick")
		assert.True(t, ok)
	})

	t.Run("removes auto-remove fields", func(t *testing.T) {
		form, _ := newForm(t, nil, formkit.WithDestroyOnUnmount(true))
		c, err := control.New(ctx, form, control.Props{Name: "nick"})
		require.NoError(t, err)
		assert.True(t, c.Field().AutoRemove())

		assert.True(t, c.Unmount())
		_, ok := form.Field("nick")
		assert.False(t, ok)
	})
}

func TestControlRenderLocalized(t *testing.T) {
	t.Parallel()

	tr, err := validator.NewTranslator(nil)
	require.NoError(t, err)
	form, _ := newForm(t, formkit.Schema{"nick": {Initial: "", Rules: "required|min:3"}})

	ctx := i18n.WithLocale(context.Background(), "de")
	c, err := control.New(ctx, form, control.Props{Name: "nick"}, control.WithTranslator(tr))
	require.NoError(t, err)

	c.OnChange(control.Event{Value: "ab"})
	errs := c.Render().Meta.Errors
	require.Len(t, errs, 1)
	assert.Equal(t, "muss mindestens 3 Zeichen lang sein", errs[0].Message)
	assert.Equal(t, "must be at least 3 characters long", c.Field().Errors()[0].Message, "field keeps the source message")

	plain, err := control.New(context.Background(), form, control.Props{Name: "nick"})
	require.NoError(t, err)
	assert.Equal(t, "must be at least 3 characters long", plain.Render().Meta.Errors[0].Message)
}
