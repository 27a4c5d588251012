package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"karaoke/types"
)

// CSVHeader is the first line of every CSV export
const CSVHeader = "id,title,title_hebrew,artist,collaborators,album,year"

// WriteJSON writes songs as a JSON array, indented by two spaces when pretty
func WriteJSON(path string, songs []types.Song, pretty bool) error {
	if songs == nil {
		songs = []types.Song{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(songs); err != nil {
		return fmt.Errorf("failed to encode songs: %w", err)
	}

	return writeFile(path, bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// WriteCSV writes songs in the CSV export layout
func WriteCSV(path string, songs []types.Song) error {
	return writeFile(path, []byte(FormatCSV(songs)))
}

// FormatCSV renders the export: id and year bare, every other field quoted
// with embedded quotes doubled, rows joined by newlines with none trailing.
func FormatCSV(songs []types.Song) string {
	lines := make([]string, 0, len(songs)+1)
	lines = append(lines, CSVHeader)

	for _, s := range songs {
		year := ""
		if s.Year != nil && *s.Year != 0 {
			year = strconv.Itoa(*s.Year)
		}

		lines = append(lines, strings.Join([]string{
			strconv.FormatInt(s.ID, 10),
			quote(s.Title),
			quote(s.TitleHebrew),
			quote(s.Artist),
			quote(s.Collaborators),
			quote(s.Album),
			year,
		}, ","))
	}

	return strings.Join(lines, "\n")
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
