package imagematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginalName(t *testing.T) {
	cases := []struct {
		stored string
		want   string
	}{
		{"images/550e8400-e29b_0_photo1.jpg", "photo1.jpg"},
		{"550e8400-e29b_12_IraqJobz_9840_20250823_151913.jpg", "IraqJobz_9840_20250823_151913.jpg"},
		{"images/noprefix.jpg", "noprefix.jpg"},
		{"images/abc_x_photo.jpg", "abc_x_photo.jpg"}, // sequence must be digits
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, OriginalName(tc.stored), tc.stored)
	}
}

func TestTargetName(t *testing.T) {
	assert.Equal(t, "photo.jpg", TargetName("messages/images/Group/photo.jpg"))
	assert.Equal(t, "photo.jpg", TargetName(`messages\images\photo.jpg`))
	assert.Equal(t, "photo.jpg", TargetName("a/b\\photo.jpg"))
	assert.Equal(t, "photo.jpg", TargetName("  photo.jpg "))
	assert.Equal(t, "", TargetName("messages/images/"))
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,aGk=", DataURL("x.png", []byte("hi")))
	assert.Equal(t, "data:image/gif;base64,aGk=", DataURL("x.gif", []byte("hi")))
	assert.Equal(t, "data:image/jpeg;base64,aGk=", DataURL("x.jpg", []byte("hi")))
	assert.Equal(t, "data:image/jpeg;base64,aGk=", DataURL("x.webp", []byte("hi")))
}

func TestResolveExactMatch(t *testing.T) {
	lib := NewLibrary()
	lib.Add("images/id_0_photo1.jpg", "url1")
	lib.Add("images/id_1_photo2.jpg", "url2")

	url, ok := lib.Resolve("a/b/photo2.jpg")
	require.True(t, ok)
	assert.Equal(t, "url2", url)
}

func TestResolveSubstringFallback(t *testing.T) {
	lib := NewLibrary()
	lib.Add("images/id_0_photo1_edited.jpg", "url1")

	// target is contained in the stored name
	url, ok := lib.Resolve("photo1")
	require.True(t, ok)
	assert.Equal(t, "url1", url)

	// stored name is contained in the target
	lib2 := NewLibrary()
	lib2.Add("images/id_0_photo.jpg", "url2")
	url, ok = lib2.Resolve("dir/photo.jpg.bak")
	require.True(t, ok)
	assert.Equal(t, "url2", url)
}

func TestResolveFirstHitWins(t *testing.T) {
	lib := NewLibrary()
	lib.Add("images/id_0_report.jpg", "first")
	lib.Add("images/id_1_report_final.jpg", "second")

	// both entries contain "report"; insertion order wins, not best match
	url, ok := lib.Resolve("report")
	require.True(t, ok)
	assert.Equal(t, "first", url)
}

func TestResolveEmptyAndMiss(t *testing.T) {
	lib := NewLibrary()
	lib.Add("images/id_0_photo1.jpg", "url1")

	_, ok := lib.Resolve("")
	assert.False(t, ok)
	_, ok = lib.Resolve("a/b/")
	assert.False(t, ok)
	_, ok = lib.Resolve("unrelated.tiff")
	assert.False(t, ok)
}

func TestResolveEmptyLibrary(t *testing.T) {
	lib := NewLibrary()
	_, ok := lib.Resolve("photo.jpg")
	assert.False(t, ok)
}

func TestAddDuplicateDerivedNameLastWriteWins(t *testing.T) {
	lib := NewLibrary()
	lib.Add("images/idA_0_photo.jpg", "old")
	lib.Add("images/idA_1_photo.jpg", "new")

	assert.Equal(t, 1, lib.Len())
	url, ok := lib.Resolve("photo.jpg")
	require.True(t, ok)
	assert.Equal(t, "new", url)
}
