package packager

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var volumeSuffix = regexp.MustCompile(`(?i)^\.(?:rar|r(\d{2,3})|part(\d+)\.rar)$`)

// FirstVolume is the name rar gives the first volume of archive with
// old-style naming.
func FirstVolume(archive string) string {
	return archive + ".rar"
}

// ListVolumes returns the volumes of archive (a path without extension) in
// the order rar wrote them.
func ListVolumes(archive string) ([]string, error) {
	dir := filepath.Dir(archive)
	base := filepath.Base(archive)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type vol struct {
		path string
		idx  int
	}
	var vols []vol
	for _, ent := range entries {
		name := ent.Name()
		if ent.IsDir() || !strings.HasPrefix(name, base) {
			continue
		}
		idx, ok := volumeIndex(name[len(base):])
		if !ok {
			continue
		}
		vols = append(vols, vol{path: filepath.Join(dir, name), idx: idx})
	}
	sort.Slice(vols, func(i, j int) bool { return vols[i].idx < vols[j].idx })

	out := make([]string, len(vols))
	for i, v := range vols {
		out[i] = v.path
	}
	return out, nil
}

// volumeIndex orders ".rar" before ".r00", ".r01", ... and ".partN.rar" by N.
func volumeIndex(suffix string) (int, bool) {
	m := volumeSuffix.FindStringSubmatch(suffix)
	if m == nil {
		return 0, false
	}
	switch {
	case m[1] != "":
		n, _ := strconv.Atoi(m[1])
		return n + 1, true
	case m[2] != "":
		n, _ := strconv.Atoi(m[2])
		return n, true
	default:
		return 0, true
	}
}
