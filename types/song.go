package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Catalogue source tags
const (
	SourceKaraFun  = "karafun"
	SourceJKaraoke = "jkaraoke"
)

// Song represents a catalogue record normalized from any source.
// The leading fields are always present; absent values are "" or null.
type Song struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	TitleHebrew   string `json:"title_hebrew"`
	Artist        string `json:"artist"`
	ArtistID      *int64 `json:"artist_id"`
	Collaborators string `json:"collaborators"`
	Album         string `json:"album"`
	Year          *int   `json:"year"`
	Source        string `json:"source"`

	// KaraFun only
	Duo       bool   `json:"duo,omitempty"`
	Explicit  bool   `json:"explicit,omitempty"`
	Styles    string `json:"styles,omitempty"`
	Languages string `json:"languages,omitempty"`

	// JKaraoke only, filled from the artist map
	ArtistImage *string `json:"artistImage,omitempty"`

	// Extra keeps fields of a catalogue file this type does not model
	Extra map[string]json.RawMessage `json:"-"`
}

// songKeys are the JSON keys Song decodes itself
var songKeys = []string{
	"id", "title", "title_hebrew", "artist", "artist_id", "collaborators",
	"album", "year", "source", "duo", "explicit", "styles", "languages", "artistImage",
}

// UnmarshalJSON accepts numeric strings for id, artist_id and year.
// A year or artist_id that is not a number decodes as null.
func (s *Song) UnmarshalJSON(data []byte) error {
	type plain Song
	aux := struct {
		*plain
		ID       json.RawMessage `json:"id"`
		ArtistID json.RawMessage `json:"artist_id"`
		Year     json.RawMessage `json:"year"`
	}{plain: (*plain)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, ok := LenientInt(aux.ID)
	if !ok {
		return fmt.Errorf("song id %s is not a number", bytes.TrimSpace(aux.ID))
	}
	s.ID = id
	s.ArtistID = LenientIntPtr(aux.ArtistID)
	s.Year = nil
	if year := LenientIntPtr(aux.Year); year != nil {
		y := int(*year)
		s.Year = &y
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, key := range songKeys {
		delete(fields, key)
	}
	s.Extra = nil
	if len(fields) > 0 {
		s.Extra = fields
	}

	return nil
}

// MarshalJSON writes the modelled fields in declaration order, then any Extra
// fields sorted by key. HTML characters are left unescaped.
func (s Song) MarshalJSON() ([]byte, error) {
	type plain Song

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plain(s)); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")

	if len(s.Extra) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(s.Extra))
	for key := range s.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out = out[:len(out)-1]
	for _, key := range keys {
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		out = append(out, ',')
		out = append(out, name...)
		out = append(out, ':')
		out = append(out, s.Extra[key]...)
	}
	return append(out, '}'), nil
}
