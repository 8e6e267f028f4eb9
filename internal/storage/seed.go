package storage

import (
	"bufio"
	"os"
	"strings"

	"cleanlog/internal/core"
)

// SeedFile is the apartment seed file looked up in the seed directory.
const SeedFile = "seed_apartments.txt"

// ReadSeedApartments parses "code,building,number" lines. Blank lines and
// lines starting with # are skipped, as are repeated codes. A missing file
// yields no apartments.
func ReadSeedApartments(path string) []core.Apartment {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []core.Apartment
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		for len(fields) < 3 {
			fields = append(fields, "")
		}
		a := core.Apartment{
			Code:     strings.TrimSpace(fields[0]),
			Building: strings.TrimSpace(fields[1]),
			Number:   strings.TrimSpace(fields[2]),
		}
		if a.Code == "" {
			continue
		}
		if _, ok := seen[a.Code]; ok {
			continue
		}
		seen[a.Code] = struct{}{}
		out = append(out, a)
	}
	return out
}
