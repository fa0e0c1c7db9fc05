// Song query file reading with charset auto-detection.
package shared

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// ReadSongQueries reads one song query per line from path, decoding the file
// with a sniffed character encoding (UTF-8/16 BOMs and common legacy
// encodings). Lines are trimmed and empty lines dropped.
//
// Returns [ErrEmptyInput] when the file yields no usable queries.
func ReadSongQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open song file: %w", err)
	}
	defer f.Close()

	r, err := charset.NewReader(bufio.NewReader(f), "text/plain")
	if err != nil {
		return nil, fmt.Errorf("failed to detect file encoding: %w", err)
	}

	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read song file: %w", err)
	}

	if len(queries) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyInput, path)
	}

	return queries, nil
}
