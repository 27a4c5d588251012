package scraper

import (
	"html"
	"testing"

	"karaoke/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("decodes escaped payload", func(t *testing.T) {
		page, err := Parse([]byte(pageHTML(t, true, rawSong(5, `Say "Hi" & <Bye>`))))

		require.NoError(t, err)
		require.NotNil(t, page)
		require.Len(t, page.Data, 1)
		assert.Equal(t, `Say "Hi" & <Bye>`, page.Data[0].Title)
		assert.True(t, page.HasNext())
	})

	t.Run("quot entities as served by the site", func(t *testing.T) {
		raw := `<div id="app" data-page="{&quot;props&quot;:{&quot;songs&quot;:{&quot;data&quot;:[{&quot;id&quot;:9,&quot;title&quot;:&quot;Shir&quot;}],&quot;links&quot;:{&quot;next&quot;:null}}}}"></div>`

		page, err := Parse([]byte(raw))

		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, int64(9), *page.Data[0].ID.Value)
		assert.False(t, page.HasNext())
	})

	t.Run("missing marker ends the scrape", func(t *testing.T) {
		page, err := Parse([]byte(`<html><body>nothing here</body></html>`))

		assert.NoError(t, err)
		assert.Nil(t, page)
	})

	t.Run("missing songs listing ends the scrape", func(t *testing.T) {
		page, err := Parse([]byte(`<div data-page="{&quot;props&quot;:{}}"></div>`))

		assert.NoError(t, err)
		assert.Nil(t, page)
	})

	t.Run("undecodable payload", func(t *testing.T) {
		_, err := Parse([]byte(`<div data-page="{&quot;props"></div>`))

		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("empty next link", func(t *testing.T) {
		page, err := Parse([]byte(`<div data-page="{&quot;props&quot;:{&quot;songs&quot;:{&quot;data&quot;:[],&quot;links&quot;:{&quot;next&quot;:&quot;&quot;}}}}"></div>`))

		require.NoError(t, err)
		assert.False(t, page.HasNext())
	})
}

func TestExtract(t *testing.T) {
	hebrew := "שיר"
	artistID := int64(77)

	page := &Page{
		Data: []RawSong{
			{
				ID:          optionalInt{Value: int64Ptr(1)},
				Title:       "Full",
				TitleHebrew: &hebrew,
				Artist:      &RawArtist{ID: optionalInt{Value: &artistID}, Name: "Singer"},
				CollaboratingArtists: []RawArtist{
					{Name: "A"},
					{Name: "B"},
				},
				Album: &RawAlbum{Title: "Record", ReleaseYear: optionalInt{Value: int64Ptr(1999)}},
			},
			{
				ID:    optionalInt{Value: int64Ptr(2)},
				Title: "Bare",
			},
			{
				Title: "No id",
			},
		},
	}

	songs := Extract(page, types.SourceJKaraoke)
	require.Len(t, songs, 2, "record without an id is skipped")

	full := songs[0]
	assert.Equal(t, "שיר", full.TitleHebrew)
	assert.Equal(t, "Singer", full.Artist)
	require.NotNil(t, full.ArtistID)
	assert.Equal(t, int64(77), *full.ArtistID)
	assert.Equal(t, "A, B", full.Collaborators)
	assert.Equal(t, "Record", full.Album)
	require.NotNil(t, full.Year)
	assert.Equal(t, 1999, *full.Year)
	assert.Equal(t, types.SourceJKaraoke, full.Source)

	bare := songs[1]
	assert.Equal(t, "", bare.TitleHebrew)
	assert.Equal(t, "", bare.Artist)
	assert.Nil(t, bare.ArtistID)
	assert.Equal(t, "", bare.Collaborators)
	assert.Equal(t, "", bare.Album)
	assert.Nil(t, bare.Year)
	assert.Equal(t, types.SourceJKaraoke, bare.Source)
}

func TestOptionalInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *int64
	}{
		{name: "number", input: `2004`, expected: int64Ptr(2004)},
		{name: "numeric string", input: `"2004"`, expected: int64Ptr(2004)},
		{name: "whole float", input: `2004.0`, expected: int64Ptr(2004)},
		{name: "null", input: `null`, expected: nil},
		{name: "empty string", input: `""`, expected: nil},
		{name: "full date", input: `"1999-05-01"`, expected: nil},
		{name: "word", input: `"soon"`, expected: nil},
		{name: "object", input: `{"year":1999}`, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o optionalInt
			require.NoError(t, o.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.expected, o.Value)
		})
	}
}

func TestParseToleratesOddFieldTypes(t *testing.T) {
	payload := `{"props":{"songs":{"data":[` +
		`{"id":1,"title":"Dated","artist":{"id":"5","name":"Singer"},"album":{"title":"A","release_year":"1999-05-01"}},` +
		`{"id":"2","title":"Fine","album":{"title":"B","release_year":2001}}` +
		`],"links":{"next":null}}}}`

	page, err := Parse([]byte(`<div data-page="` + html.EscapeString(payload) + `"></div>`))
	require.NoError(t, err)
	require.NotNil(t, page)

	songs := Extract(page, types.SourceJKaraoke)
	require.Len(t, songs, 2)

	assert.Equal(t, int64(1), songs[0].ID)
	assert.Nil(t, songs[0].Year)
	assert.Equal(t, "A", songs[0].Album)
	require.NotNil(t, songs[0].ArtistID)
	assert.Equal(t, int64(5), *songs[0].ArtistID)

	assert.Equal(t, int64(2), songs[1].ID)
	require.NotNil(t, songs[1].Year)
	assert.Equal(t, 2001, *songs[1].Year)
}

func int64Ptr(n int64) *int64 {
	return &n
}
