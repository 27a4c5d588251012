package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"karaoke/types"

	"github.com/PuerkitoBio/goquery"
)

// pageMarker is the attribute carrying the page's escaped JSON state
const pageMarker = "data-page"

// Page is one page of catalogue results
type Page struct {
	Data  []RawSong `json:"data"`
	Links PageLinks `json:"links"`
}

// PageLinks holds the pagination links; Next is null on the last page
type PageLinks struct {
	Next *string `json:"next"`
}

// HasNext reports whether the source advertises another page
func (p *Page) HasNext() bool {
	return p.Links.Next != nil && *p.Links.Next != ""
}

type pagePayload struct {
	Props struct {
		Songs *Page `json:"songs"`
	} `json:"props"`
}

// RawSong is a song as the source site describes it
type RawSong struct {
	ID                   optionalInt `json:"id"`
	Title                string      `json:"title"`
	TitleHebrew          *string     `json:"title_hebrew"`
	Artist               *RawArtist  `json:"artist"`
	CollaboratingArtists []RawArtist `json:"collaborating_artists"`
	Album                *RawAlbum   `json:"album"`
}

// RawArtist is a performer reference inside a RawSong
type RawArtist struct {
	ID   optionalInt `json:"id"`
	Name string      `json:"name"`
}

// RawAlbum is the album a RawSong was released on
type RawAlbum struct {
	Title       string      `json:"title"`
	ReleaseYear optionalInt `json:"release_year"`
}

// optionalInt accepts a number or a numeric string.
// Any other value, such as a full date, decodes as absent instead of failing the page.
type optionalInt struct {
	Value *int64
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	o.Value = types.LenientIntPtr(data)
	return nil
}

func (o optionalInt) int() *int {
	if o.Value == nil {
		return nil
	}
	n := int(*o.Value)
	return &n
}

// Parse finds the data-page payload in a fetched page.
// It returns nil when the marker or the song listing is absent, which ends the scrape.
func Parse(raw []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	encoded, ok := doc.Find("[" + pageMarker + "]").First().Attr(pageMarker)
	if !ok {
		return nil, nil
	}

	var payload pagePayload
	if err := json.Unmarshal([]byte(encoded), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return payload.Props.Songs, nil
}

// Extract maps a page's raw songs onto the catalogue shape
func Extract(page *Page, source string) []types.Song {
	songs := make([]types.Song, 0, len(page.Data))

	for _, raw := range page.Data {
		// a record without an id cannot be told apart from its neighbours
		if raw.ID.Value == nil {
			continue
		}

		song := types.Song{
			ID:     *raw.ID.Value,
			Title:  raw.Title,
			Source: source,
		}

		if raw.TitleHebrew != nil {
			song.TitleHebrew = *raw.TitleHebrew
		}

		if raw.Artist != nil {
			song.Artist = raw.Artist.Name
			song.ArtistID = raw.Artist.ID.Value
		}

		names := make([]string, 0, len(raw.CollaboratingArtists))
		for _, a := range raw.CollaboratingArtists {
			names = append(names, a.Name)
		}
		song.Collaborators = strings.Join(names, ", ")

		if raw.Album != nil {
			song.Album = raw.Album.Title
			song.Year = raw.Album.ReleaseYear.int()
		}

		songs = append(songs, song)
	}

	return songs
}
