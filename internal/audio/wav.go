package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// RIFF/WAVE layout.
const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	minFmtChunkSize = 16
	bitsPerByte     = 8
)

var (
	// ErrNotWAV is returned when data does not start with a RIFF/WAVE header.
	ErrNotWAV = errors.New("data is not a WAV file")
	// ErrMalformedWAV is returned when the WAV chunks are truncated or inconsistent.
	ErrMalformedWAV = errors.New("malformed WAV data")
)

// Info describes a decoded WAV header.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	DataBytes  int
	Duration   time.Duration
}

// Inspect reads the fmt and data chunks of a WAV clip.
func Inspect(data []byte) (Info, error) {
	if len(data) < riffHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Info{}, ErrNotWAV
	}

	var (
		info    Info
		haveFmt bool
		offset  = riffHeaderSize
	)

	for offset+chunkHeaderSize <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + chunkHeaderSize

		switch chunkID {
		case "fmt ":
			if chunkSize < minFmtChunkSize || body+minFmtChunkSize > len(data) {
				return Info{}, fmt.Errorf("%w: short fmt chunk", ErrMalformedWAV)
			}

			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return Info{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrMalformedWAV)
			}

			// Streamed WAVs may declare more data than was written.
			info.DataBytes = min(chunkSize, len(data)-body)

			return withDuration(info)
		}

		// Chunks are word aligned.
		offset = body + chunkSize + chunkSize%2
	}

	return Info{}, fmt.Errorf("%w: no data chunk", ErrMalformedWAV)
}

func withDuration(info Info) (Info, error) {
	bytesPerSecond := info.SampleRate * info.Channels * info.BitDepth / bitsPerByte
	if bytesPerSecond <= 0 {
		return Info{}, fmt.Errorf("%w: invalid format %d Hz, %d channels, %d bits",
			ErrMalformedWAV, info.SampleRate, info.Channels, info.BitDepth)
	}

	info.Duration = time.Duration(float64(info.DataBytes) / float64(bytesPerSecond) * float64(time.Second))

	return info, nil
}
