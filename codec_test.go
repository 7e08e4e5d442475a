package formkit_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
)

func TestSnapshotCodec(t *testing.T) {
	t.Parallel()

	frames := []formkit.Snapshot{
		{"email": "a@b.com", "age": 21, "terms": true, "note": nil},
		{"docs": formkit.Files{{Name: "cv.pdf", Size: 2048, ContentType: "application/pdf"}}, "empty": formkit.Files{}},
	}

	packed, err := formkit.EncodeSnapshots(frames)
	require.NoError(t, err)

	got, err := formkit.DecodeSnapshots(packed)
	require.NoError(t, err)

	want := []formkit.Snapshot{
		{"email": "a@b.com", "age": float64(21), "terms": true, "note": nil},
		{"docs": formkit.Files{{Name: "cv.pdf", Size: 2048, ContentType: "application/pdf"}}, "empty": formkit.Files{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded snapshots (-want +got):\n%s", diff)
	}
}

func TestSnapshotCodecErrors(t *testing.T) {
	t.Parallel()

	_, err := formkit.EncodeSnapshots([]formkit.Snapshot{{"bad": map[string]int{"x": 1}}})
	assert.ErrorIs(t, err, formkit.ErrUnsupportedValue)

	_, err = formkit.DecodeSnapshots([]byte("not msgpack"))
	assert.ErrorIs(t, err, formkit.ErrSnapshotToken)
}

func TestFormExportImportSnapshots(t *testing.T) {
	t.Parallel()

	src := newSignupForm(t, nil)
	fillSignup(t, src)
	src.TakeSnapshot()
	mustField(t, src, "email").OnChange("second@b.com")
	src.TakeSnapshot()

	token, err := src.ExportSnapshots()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	dst := newSignupForm(t, nil)
	require.NoError(t, dst.ImportSnapshots(token))
	assert.Equal(t, 2, dst.Step())

	require.True(t, dst.RestoreSnapshot())
	assert.Equal(t, "second@b.com", mustField(t, dst, "email").Value())
	require.True(t, dst.RestoreSnapshot())
	assert.Equal(t, "a@b.com", mustField(t, dst, "email").Value())
	assert.True(t, dst.IsValid())

	assert.ErrorIs(t, dst.ImportSnapshots("%%%"), formkit.ErrSnapshotToken)
}
