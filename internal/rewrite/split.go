package rewrite

import (
	"fmt"

	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
)

// Split partitions the flat resolved-URL list into contiguous per-chapter
// runs. counts must be the per-chapter candidate counts in the exact traversal
// order the candidates were flattened in; relative order within each run is
// preserved.
func Split(urls []string, counts []int) ([][]string, error) {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != len(urls) {
		return nil, serrors.InternalError(
			fmt.Sprintf("url split mismatch: %d urls for %d candidates", len(urls), total))
	}

	out := make([][]string, len(counts))
	rest := urls
	for i, n := range counts {
		out[i], rest = rest[:n], rest[n:]
	}
	return out, nil
}
