// Package ffprobe extracts container and stream metadata using ffprobe.
package ffprobe

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	"github.com/five82/framecheck/internal/errors"
)

// ProbeData is the parsed output of a single ffprobe call. Numeric
// fields arrive from ffprobe as strings and are kept that way; the
// analysis package decides how to interpret missing or malformed
// values.
type ProbeData struct {
	Format  Format   `json:"format"`
	Streams []Stream `json:"streams"`
}

// Format holds container-level metadata from ffprobe's format section.
type Format struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

// Stream holds the raw properties of a single stream.
type Stream struct {
	Index      int    `json:"index"`
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	TimeBase   string `json:"time_base"`
	RFrameRate string `json:"r_frame_rate"`
	BitRate    string `json:"bit_rate"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Duration   string `json:"duration"`
	NbFrames   string `json:"nb_frames"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed result. It fails only when the file cannot be opened or parsed
// as a recognized container; individual missing fields are not errors.
func Probe(ctx context.Context, path string) (*ProbeData, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, errors.NewInspectionError(path, err)
	}

	return ParseJSON(output)
}

// ParseJSON converts raw ffprobe JSON output into ProbeData.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*ProbeData, error) {
	var probe ProbeData
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.NewJSONParseError("failed to parse ffprobe output", err)
	}
	return &probe, nil
}

// FirstVideoStream returns the first video-typed stream, or nil.
func (p *ProbeData) FirstVideoStream() *Stream {
	return p.firstStream("video")
}

// FirstAudioStream returns the first audio-typed stream, or nil.
func (p *ProbeData) FirstAudioStream() *Stream {
	return p.firstStream("audio")
}

func (p *ProbeData) firstStream(codecType string) *Stream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == codecType {
			return &p.Streams[i]
		}
	}
	return nil
}

// FractionDenominator parses the denominator of an "N/D" fraction
// string. Returns 0 and false when the string is not a fraction or the
// denominator is not an integer.
func FractionDenominator(fraction string) (int, bool) {
	_, den, ok := splitFraction(fraction)
	return den, ok
}

// ParseFrameRate parses an "N/D" frame rate string into frames per
// second. Returns 0 when the string is malformed or D is zero.
func ParseFrameRate(fraction string) float64 {
	num, den, ok := splitFraction(fraction)
	if !ok || den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func splitFraction(fraction string) (num, den int, ok bool) {
	parts := strings.SplitN(fraction, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return n, d, true
}
