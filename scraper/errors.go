package scraper

import "errors"

var (
	// ErrNetwork covers transport failures, timeouts and non-2xx responses
	ErrNetwork = errors.New("page fetch failed")

	// ErrParse means the page carried a data-page payload that could not be decoded
	ErrParse = errors.New("page payload could not be decoded")
)
