package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"karaoke/config"
	"karaoke/types"

	"github.com/charmbracelet/log"
)

const (
	// MaxSearchResults caps every search response
	MaxSearchResults = 50
	// MinQueryLength is the shortest query that is searched at all
	MinQueryLength = 2
)

// Catalogue holds the read-only song tables loaded at startup
type Catalogue struct {
	karaFun         []types.Song
	jKaraoke        []types.Song
	jKaraokePopular []types.Song
	karaFunGenres   map[string]json.RawMessage
	logger          *log.Logger
}

// NewCatalogue creates an empty catalogue
func NewCatalogue(logger *log.Logger) *Catalogue {
	return &Catalogue{
		karaFun:         []types.Song{},
		jKaraoke:        []types.Song{},
		jKaraokePopular: []types.Song{},
		karaFunGenres:   map[string]json.RawMessage{},
		logger:          logger,
	}
}

// LoadCatalogue reads every catalogue file named in cfg.
// Missing or broken files leave that table empty.
func LoadCatalogue(cfg config.CatalogueConfig, logger *log.Logger) *Catalogue {
	c := NewCatalogue(logger)

	c.karaFun = c.LoadDelimited(cfg.DataPath(cfg.KaraFunCSV), rune(cfg.KaraFunSeparator[0]))
	logger.Info("loaded KaraFun catalogue", "songs", len(c.karaFun))

	c.jKaraoke = c.LoadJSON(cfg.DataPath(cfg.JKaraokeJSON))
	logger.Info("loaded JKaraoke catalogue", "songs", len(c.jKaraoke))

	c.jKaraokePopular = c.LoadJSON(cfg.DataPath(cfg.JKaraokePopular))
	logger.Info("loaded JKaraoke popular list", "songs", len(c.jKaraokePopular))

	c.karaFunGenres = c.LoadGenres(cfg.DataPath(cfg.KaraFunGenres))

	if applied := c.ApplyArtistImages(cfg.DataPath(cfg.JKaraokeArtists)); applied > 0 {
		logger.Info("artist images applied", "songs", applied)
	}

	return c
}

// LoadDelimited reads a KaraFun export with an Id/Title/Artist/Year/Duo/Explicit/Styles/Languages header
func (c *Catalogue) LoadDelimited(path string, separator rune) []types.Song {
	songs, err := readDelimited(path, separator, c.logger)
	if err != nil {
		c.logger.Error("KaraFun catalogue error", "path", path, "error", err)
		return []types.Song{}
	}
	return songs
}

// LoadJSON reads a JSON array of songs. A record that cannot be read as a
// song is skipped; the rest of the file still loads.
func (c *Catalogue) LoadJSON(path string) []types.Song {
	var records []json.RawMessage
	if err := readJSON(path, &records); err != nil {
		c.logger.Error("JSON catalogue error", "path", path, "error", err)
		return []types.Song{}
	}

	songs := make([]types.Song, 0, len(records))
	for i, record := range records {
		var song types.Song
		if err := json.Unmarshal(record, &song); err != nil {
			c.logger.Warn("skipping unreadable catalogue record", "path", path, "index", i, "error", err)
			continue
		}
		songs = append(songs, song)
	}
	return songs
}

// LoadGenres reads the KaraFun genre listing, kept opaque
func (c *Catalogue) LoadGenres(path string) map[string]json.RawMessage {
	var genres map[string]json.RawMessage
	if err := readJSON(path, &genres); err != nil {
		c.logger.Error("KaraFun genres error", "path", path, "error", err)
		return map[string]json.RawMessage{}
	}
	if genres == nil {
		return map[string]json.RawMessage{}
	}
	return genres
}

// artistInfo is one value of the artist map keyed by artist id
type artistInfo struct {
	Image *string `json:"image"`
}

// ApplyArtistImages sets ArtistImage on JKaraoke songs from the artist map and
// returns how many songs got an image.
func (c *Catalogue) ApplyArtistImages(path string) int {
	var artists map[string]artistInfo
	if err := readJSON(path, &artists); err != nil {
		c.logger.Error("artist image error", "path", path, "error", err)
		return 0
	}

	applied := 0
	for i := range c.jKaraoke {
		song := &c.jKaraoke[i]
		if song.ArtistID == nil {
			continue
		}
		if info, ok := artists[strconv.FormatInt(*song.ArtistID, 10)]; ok && info.Image != nil {
			image := *info.Image
			song.ArtistImage = &image
			applied++
		}
	}
	return applied
}

// KaraFun returns the full KaraFun catalogue
func (c *Catalogue) KaraFun() []types.Song {
	return c.karaFun
}

// JKaraoke returns the full JKaraoke catalogue
func (c *Catalogue) JKaraoke() []types.Song {
	return c.jKaraoke
}

// JKaraokePopular returns the JKaraoke popular list
func (c *Catalogue) JKaraokePopular() []types.Song {
	return c.jKaraokePopular
}

// KaraFunGenres returns the KaraFun genre listing
func (c *Catalogue) KaraFunGenres() map[string]json.RawMessage {
	return c.karaFunGenres
}

// Search matches query against title and artist, ignoring case.
// Queries shorter than MinQueryLength and unknown sources give no results.
func (c *Catalogue) Search(query, source string) []types.Song {
	results := []types.Song{}

	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < MinQueryLength {
		return results
	}

	var songs []types.Song
	switch source {
	case "", types.SourceKaraFun:
		songs = c.karaFun
	case types.SourceJKaraoke:
		songs = c.jKaraoke
	default:
		return results
	}

	for _, song := range songs {
		if strings.Contains(strings.ToLower(song.Title), q) ||
			strings.Contains(strings.ToLower(song.Artist), q) {
			results = append(results, song)
			if len(results) == MaxSearchResults {
				break
			}
		}
	}

	return results
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileRead, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileRead, path, err)
	}
	return nil
}

func readDelimited(path string, separator rune, logger *log.Logger) ([]types.Song, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrFileRead, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	field := func(record []string, name string) string {
		if idx, ok := columns[name]; ok && idx < len(record) {
			return record[idx]
		}
		return ""
	}

	songs := []types.Song{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFileRead, line, err)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(field(record, "Id")), 10, 64)
		if err != nil {
			logger.Warn("skipping KaraFun row without numeric id", "line", line)
			continue
		}

		songs = append(songs, types.Song{
			ID:        id,
			Title:     field(record, "Title"),
			Artist:    field(record, "Artist"),
			Year:      parseYear(field(record, "Year")),
			Duo:       field(record, "Duo") == "1",
			Explicit:  field(record, "Explicit") == "1",
			Styles:    field(record, "Styles"),
			Languages: field(record, "Languages"),
			Source:    types.SourceKaraFun,
		})
	}

	return songs, nil
}

func parseYear(raw string) *int {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || year == 0 {
		return nil
	}
	return &year
}
