// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audchan/audio"
	"github.com/ik5/audchan/internal/audiotest"
)

func mustClip(t *testing.T, src audio.Source) *audio.Clip {
	t.Helper()

	clip, err := audio.ReadClip(src)
	if err != nil {
		t.Fatalf("ReadClip() error = %v", err)
	}
	return clip
}

func TestRemix_StereoToMono(t *testing.T) {
	t.Parallel()

	clip := mustClip(t, audiotest.NewMockSource(8000, 2, 100, func(_ int, ch int) float32 {
		if ch == 0 {
			return 0.4
		}
		return 0.6
	}))

	mono, err := clip.Remix(1)
	if err != nil {
		t.Fatalf("Remix() error = %v", err)
	}
	if mono.Channels() != 1 || mono.Frames() != 100 {
		t.Fatalf("Remix() = %d ch / %d frames", mono.Channels(), mono.Frames())
	}
	for i, s := range mono.Samples() {
		if math.Abs(float64(s-0.5)) > 1e-6 {
			t.Fatalf("sample %d = %v, want 0.5", i, s)
		}
	}
}

func TestRemix_MonoToStereo(t *testing.T) {
	t.Parallel()

	clip := mustClip(t, audiotest.NewMockSource(8000, 1, 4, func(s int, _ int) float32 {
		return float32(s) / 10
	}))

	stereo, err := clip.Remix(2)
	if err != nil {
		t.Fatalf("Remix() error = %v", err)
	}

	want := []float32{0, 0, 0.1, 0.1, 0.2, 0.2, 0.3, 0.3}
	got := stereo.Samples()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRemix_SameCountReturnsClip(t *testing.T) {
	t.Parallel()

	clip := audiotest.Tone(0)
	same, err := clip.Remix(2)
	if err != nil || same != clip {
		t.Errorf("Remix(2) = %p, %v; want the clip itself", same, err)
	}
	if _, err := clip.Remix(0); !errors.Is(err, audio.ErrInvalidFormat) {
		t.Errorf("Remix(0) error = %v", err)
	}
}

func TestResample_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
	}{
		{"down", 44100, 8000},
		{"up", 8000, 48000},
		{"cd to dvd", 44100, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clip := mustClip(t, audiotest.NewSineSource(tt.from, 1, tt.from, 440))
			out, err := clip.Resample(tt.to)
			if err != nil {
				t.Fatalf("Resample() error = %v", err)
			}

			if out.SampleRate() != tt.to {
				t.Errorf("SampleRate() = %d, want %d", out.SampleRate(), tt.to)
			}
			// one second in, one second out, give or take the last frame
			if diff := out.Frames() - tt.to; diff < -tt.to/100 || diff > tt.to/100 {
				t.Errorf("Frames() = %d, want ≈%d", out.Frames(), tt.to)
			}
		})
	}
}

func TestResample_PreservesDC(t *testing.T) {
	t.Parallel()

	clip := mustClip(t, audiotest.NewConstantSource(44100, 2, 4410, 0.5))

	for _, rate := range []int{8000, 96000} {
		out, err := clip.Resample(rate)
		if err != nil {
			t.Fatalf("Resample(%d) error = %v", rate, err)
		}
		for i, s := range out.Samples() {
			if math.Abs(float64(s-0.5)) > 1e-4 {
				t.Fatalf("Resample(%d) sample %d = %v, want 0.5", rate, i, s)
			}
		}
	}
}

func TestResample_EmptyClip(t *testing.T) {
	t.Parallel()

	clip, err := audio.NewClip([]float32{}, 44100, 2)
	if err != nil {
		t.Fatalf("NewClip() error = %v", err)
	}

	for _, rate := range []int{22050, 96000} {
		out, err := clip.Resample(rate)
		if err != nil {
			t.Fatalf("Resample(%d) error = %v", rate, err)
		}
		if out.Frames() != 0 || out.SampleRate() != rate || out.Channels() != 2 {
			t.Errorf("Resample(%d) = %d frames at %d Hz / %d ch, want 0 frames at %d Hz / 2 ch",
				rate, out.Frames(), out.SampleRate(), out.Channels(), rate)
		}
	}
}

func TestConform(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(22050, 1, 22050, 0.25)
	clip, err := audio.Conform(src, audio.Format{SampleRate: 44100, Channels: 2})
	if err != nil {
		t.Fatalf("Conform() error = %v", err)
	}

	if clip.Format() != (audio.Format{SampleRate: 44100, Channels: 2}) {
		t.Errorf("Format() = %+v", clip.Format())
	}
	if diff := clip.Frames() - 44100; diff < -2 || diff > 2 {
		t.Errorf("Frames() = %d, want ≈44100", clip.Frames())
	}
}

func TestConform_ZeroFormatKeepsLayout(t *testing.T) {
	t.Parallel()

	clip, err := audio.Conform(audiotest.NewConstantSource(11025, 1, 100, 0.1), audio.Format{})
	if err != nil {
		t.Fatalf("Conform() error = %v", err)
	}
	if clip.SampleRate() != 11025 || clip.Channels() != 1 {
		t.Errorf("Format() = %+v, want source layout", clip.Format())
	}

	_, err = audio.Conform(audiotest.NewConstantSource(11025, 1, 100, 0.1), audio.Format{SampleRate: 8000})
	if !errors.Is(err, audio.ErrInvalidFormat) {
		t.Errorf("half format error = %v, want ErrInvalidFormat", err)
	}
}
