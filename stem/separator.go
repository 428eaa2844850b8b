package stem

import "context"

// Separator splits a mixed WAV file into stems written under outDir and
// returns the path of each stem keyed by stem name.
type Separator interface {
	Separate(ctx context.Context, inputWAV, outDir string) (map[string]string, error)
}
