package stem

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-stemgate/dsp/gate"
)

// GateTrack gates every channel of track with thresholdDB and the given
// smoothing time. Channels are processed concurrently and independently, so
// each channel is referenced to its own loudest frame. opts are applied after
// the smoothing option.
//
// The first channel error cancels the remaining work and is returned.
func GateTrack(ctx context.Context, track Track, thresholdDB, smoothing float64, opts ...gate.Option) (Track, error) {
	if err := track.Validate(); err != nil {
		return Track{}, err
	}

	g, err := gate.New(append([]gate.Option{gate.WithSmoothing(smoothing)}, opts...)...)
	if err != nil {
		return Track{}, err
	}

	out := Track{SampleRate: track.SampleRate, Channels: make([][]float64, len(track.Channels))}

	eg, ctx := errgroup.WithContext(ctx)
	for ch, samples := range track.Channels {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gated, err := g.Process(samples, track.SampleRate, thresholdDB)
			if err != nil {
				return fmt.Errorf("stem: channel %d: %w", ch, err)
			}
			out.Channels[ch] = gated
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return Track{}, err
	}
	return out, nil
}

// GateNamed looks up the threshold for name in thresholds and gates track
// with it.
func GateNamed(ctx context.Context, name string, track Track, thresholds Thresholds, smoothing float64, opts ...gate.Option) (Track, error) {
	thr, err := thresholds.Lookup(name)
	if err != nil {
		return Track{}, err
	}
	out, err := GateTrack(ctx, track, thr, smoothing, opts...)
	if err != nil {
		return Track{}, fmt.Errorf("stem %s: %w", name, err)
	}
	return out, nil
}
