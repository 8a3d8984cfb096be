package packager

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/nwaples/rardecode/v2"
)

// ErrVerify is wrapped by every archive verification failure.
var ErrVerify = errors.New("archive verification failed")

// ArchiveEntry is one file found in a volume set.
type ArchiveEntry struct {
	Name string
	Size int64
}

// VerifyArchive reads the whole volume set starting at firstVolume, checking
// every file's data against its stored checksum, and confirms that each name
// in want (base names) is present. It returns the entries found.
func VerifyArchive(firstVolume string, want []string) ([]ArchiveEntry, error) {
	rc, err := rardecode.OpenReader(firstVolume)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrVerify, firstVolume, err)
	}
	defer rc.Close()

	var entries []ArchiveEntry
	for {
		hdr, err := rc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entries, fmt.Errorf("%w: read header: %v", ErrVerify, err)
		}
		if hdr.IsDir {
			continue
		}
		// Reading to the end makes the decoder validate the file checksum.
		n, err := io.Copy(io.Discard, rc)
		if err != nil {
			return entries, fmt.Errorf("%w: %s: %v", ErrVerify, hdr.Name, err)
		}
		entries = append(entries, ArchiveEntry{Name: hdr.Name, Size: n})
	}

	have := make(map[string]bool, len(entries))
	for _, e := range entries {
		have[path.Base(e.Name)] = true
	}
	var missing []string
	for _, w := range want {
		if !have[w] {
			missing = append(missing, w)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return entries, fmt.Errorf("%w: missing %v", ErrVerify, missing)
	}
	return entries, nil
}
