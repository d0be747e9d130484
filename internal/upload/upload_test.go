package upload

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(name, contentType string) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{Filename: name, Header: h, Size: 42}
}

func TestValidateOrder(t *testing.T) {
	pdf := fileHeader("report.pdf", "application/pdf")
	img := fileHeader("cover.jpg", "image/jpeg")

	cases := []struct {
		name string
		form Form
		want string
	}{
		{"blank title", Form{Title: "   ", PDF: pdf, Preview: img}, "Missing Title"},
		{"no pdf", Form{Title: "Bridge"}, "Missing PDF File"},
		{"no preview", Form{Title: "Bridge", PDF: pdf}, "Missing Preview Image"},
		{"pdf is an image", Form{Title: "Bridge", PDF: img, Preview: img}, "Invalid PDF File"},
		{"preview is a pdf", Form{Title: "Bridge", PDF: pdf, Preview: pdf}, "Invalid Preview Image"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alert := tc.form.Validate()
			require.NotNil(t, alert)
			assert.Equal(t, AlertError, alert.Type)
			assert.Equal(t, tc.want, alert.Title)
		})
	}

	ok := Form{Title: "Bridge", PDF: pdf, Preview: img}
	assert.Nil(t, ok.Validate())
}

func TestContentTypeFallsBackToExtension(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType(fileHeader("Report.PDF", "")))
	assert.Equal(t, "image/png", ContentType(fileHeader("cover.png", "application/octet-stream")))
	assert.Equal(t, "image/jpeg", ContentType(fileHeader("x", "image/jpeg; q=1")))
	assert.Equal(t, "application/octet-stream", ContentType(fileHeader("blob", "")))
}

func TestAddTag(t *testing.T) {
	tags := AddTag(nil, "  IoT ")
	tags = AddTag(tags, "IoT")
	tags = AddTag(tags, "")
	tags = AddTag(tags, "Civil")
	assert.Equal(t, []string{"IoT", "Civil"}, tags)
	assert.Equal(t, []string{"Civil"}, RemoveTag(tags, "IoT"))
}

func TestSuggestTags(t *testing.T) {
	available := []string{"AI", "Machine Learning", "Mail", "IoT"}

	assert.Equal(t, []string{"Machine Learning"}, SuggestTags(available, []string{"Mail"}, "MA"))
	assert.Equal(t, []string{"AI", "Mail"}, SuggestTags(available, []string{"Machine Learning", "IoT"}, ""))
	assert.Empty(t, SuggestTags(available, nil, "zzz"))
}

func TestTrackerLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tr := NewTracker(time.Minute)
	tr.now = func() time.Time { return now }

	id := tr.New()
	p, ok := tr.Get(id)
	require.True(t, ok)
	assert.Zero(t, p.Percent)

	tr.Update(id, 50, 200)
	p, _ = tr.Get(id)
	assert.Equal(t, 25, p.Percent)
	assert.False(t, p.Done)

	tr.Finish(id, nil)
	p, _ = tr.Get(id)
	assert.True(t, p.Done)
	assert.Equal(t, 100, p.Percent)

	failed := tr.New()
	tr.Finish(failed, errors.New("backend down"))
	p, _ = tr.Get(failed)
	assert.True(t, p.Failed)
	assert.Equal(t, "backend down", p.Message)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, tr.Sweep())
	_, ok = tr.Get(id)
	assert.False(t, ok)
}
