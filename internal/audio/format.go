package audio

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

const kilobyte = 1024

// sizeUnits are the units FormatFileSize scales through after bytes.
var sizeUnits = []string{"KB", "MB", "GB"}

// File extension constants.
const (
	extWAV  = ".wav"
	extMP3  = ".mp3"
	extOGG  = ".ogg"
	extFLAC = ".flac"
	extAAC  = ".aac"
)

// FormatDuration renders d as "45.2s", "5m 30.5s" or "1h 15m".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		minutes := d.Truncate(time.Minute)

		return fmt.Sprintf("%dm %.1fs", int(minutes.Minutes()), (d - minutes).Seconds())
	default:
		hours := d.Truncate(time.Hour)

		return fmt.Sprintf("%dh %dm", int(hours.Hours()), int((d - hours).Minutes()))
	}
}

// FormatFileSize renders size in the largest binary unit that keeps the value
// at or above one, up to GB.
func FormatFileSize(size int64) string {
	if size < kilobyte {
		return fmt.Sprintf("%d B", size)
	}

	value := float64(size) / kilobyte
	unit := 0

	for value >= kilobyte && unit < len(sizeUnits)-1 {
		value /= kilobyte
		unit++
	}

	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}

// ExtensionFor maps an audio MIME type to a file extension, defaulting to .wav.
func ExtensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return extWAV
	}

	switch strings.ToLower(mediaType) {
	case "audio/mpeg", "audio/mp3":
		return extMP3
	case "audio/ogg", "audio/opus":
		return extOGG
	case "audio/flac", "audio/x-flac":
		return extFLAC
	case "audio/aac":
		return extAAC
	default:
		return extWAV
	}
}
