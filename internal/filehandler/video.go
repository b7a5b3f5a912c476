package filehandler

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// VideoMetadata contains metadata extracted from a video file via ffprobe.
//
// ffprobe is used instead of a pure Go parser because GPS location in videos
// is stored differently by each manufacturer (Apple ©xyz atoms, Samsung
// com.android.* tags, and so on); ffprobe normalizes all of them into one
// JSON output.
type VideoMetadata struct {
	// GPS coordinates (parsed from ISO 6709 or vendor-specific atoms)
	Latitude  float64
	Longitude float64
	HasGPS    bool

	// Timestamp
	CreateDate time.Time
	HasDate    bool

	// Video properties (from stream metadata)
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
	Codec     string

	// Device info (from format tags)
	DeviceMake  string
	DeviceModel string
}

// CheckFFprobeAvailable checks if ffprobe is available in the system PATH.
// Called at startup so metadata extraction failures are explainable.
func CheckFFprobeAvailable() error {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		return fmt.Errorf("ffprobe not found in PATH: video metadata extraction will be unavailable. Install FFmpeg with: brew install ffmpeg (macOS) or apt install ffmpeg (Linux)")
	}
	log.Debug().Str("path", path).Msg("ffprobe found")
	return nil
}

// ffprobeOutput represents the JSON structure from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string            `json:"duration"`
	Tags     map[string]string `json:"tags"`
}

type ffprobeStream struct {
	CodecName  string            `json:"codec_name"`
	CodecType  string            `json:"codec_type"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	RFrameRate string            `json:"r_frame_rate"`
	Tags       map[string]string `json:"tags"`
}

// ExtractVideoMetadata extracts metadata from a video file using ffprobe.
// Requires ffprobe (part of FFmpeg) to be installed on the system.
func ExtractVideoMetadata(filePath string) (*VideoMetadata, error) {
	log.Debug().Str("path", filePath).Msg("Extracting video metadata using ffprobe")

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	metadata := &VideoMetadata{}

	if probe.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			metadata.Duration = time.Duration(dur * float64(time.Second))
		}
	}

	// Format tags carry the vendor-specific metadata.
	for key, value := range probe.Format.Tags {
		switch strings.ToLower(key) {
		case "creation_time":
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				metadata.CreateDate = t
				metadata.HasDate = true
			}
		case "location", "location-eng", "com.apple.quicktime.location.iso6709":
			if !metadata.HasGPS {
				lat, lon := parseISO6709Location(value)
				if lat != 0 || lon != 0 {
					metadata.Latitude = lat
					metadata.Longitude = lon
					metadata.HasGPS = true
				}
			}
		case "com.android.manufacturer", "make", "com.apple.quicktime.make":
			if metadata.DeviceMake == "" {
				metadata.DeviceMake = value
			}
		case "com.android.model", "model", "com.apple.quicktime.model":
			if metadata.DeviceModel == "" {
				metadata.DeviceModel = value
			}
		}
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		if metadata.Width == 0 {
			metadata.Width = stream.Width
			metadata.Height = stream.Height
		}
		if metadata.Codec == "" {
			metadata.Codec = stream.CodecName
		}
		if metadata.FrameRate == 0 && stream.RFrameRate != "" {
			metadata.FrameRate = parseFrameRate(stream.RFrameRate)
		}
		if !metadata.HasDate {
			if ct, ok := stream.Tags["creation_time"]; ok {
				if t, err := time.Parse(time.RFC3339, ct); err == nil {
					metadata.CreateDate = t
					metadata.HasDate = true
				}
			}
		}
	}

	log.Info().
		Bool("has_gps", metadata.HasGPS).
		Bool("has_date", metadata.HasDate).
		Dur("duration", metadata.Duration).
		Int("width", metadata.Width).
		Int("height", metadata.Height).
		Float64("frame_rate", metadata.FrameRate).
		Str("codec", metadata.Codec).
		Msg("Video metadata extracted via ffprobe")

	return metadata, nil
}

// parseISO6709Location parses GPS coordinates in ISO 6709 format,
// e.g. "+38.0048-084.4848/" or "+37.7749-122.4194+000.000/" (altitude ignored).
func parseISO6709Location(value string) (lat, lon float64) {
	value = strings.TrimSuffix(value, "/")

	pattern := regexp.MustCompile(`^([+-]\d+\.?\d*)([+-]\d+\.?\d*)(?:[+-]\d+\.?\d*)?$`)
	matches := pattern.FindStringSubmatch(value)

	if len(matches) >= 3 {
		lat, _ = strconv.ParseFloat(matches[1], 64)
		lon, _ = strconv.ParseFloat(matches[2], 64)
	}

	return lat, lon
}

// parseFrameRate parses frame rate from ffprobe format (e.g. "60/1" -> 60.0).
func parseFrameRate(value string) float64 {
	parts := strings.Split(value, "/")
	if len(parts) == 2 {
		num, _ := strconv.ParseFloat(parts[0], 64)
		den, _ := strconv.ParseFloat(parts[1], 64)
		if den != 0 {
			return num / den
		}
	}
	rate, _ := strconv.ParseFloat(value, 64)
	return rate
}

// formatDuration formats a duration as M:SS or H:MM:SS.
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatMetadataContext formats the video metadata as a text block for
// inclusion in the feedback prompt.
func (m *VideoMetadata) FormatMetadataContext() string {
	var sb strings.Builder

	sb.WriteString("### Extracted Video Metadata\n\n")

	if m.Duration > 0 {
		sb.WriteString(fmt.Sprintf("- Duration: %s\n", formatDuration(m.Duration)))
	}
	if m.Width > 0 && m.Height > 0 {
		sb.WriteString(fmt.Sprintf("- Resolution: %dx%d\n", m.Width, m.Height))
	}
	if m.FrameRate > 0 {
		sb.WriteString(fmt.Sprintf("- Frame Rate: %.2f fps\n", m.FrameRate))
	}
	if m.Codec != "" {
		sb.WriteString(fmt.Sprintf("- Codec: %s\n", m.Codec))
	}
	if m.HasDate {
		sb.WriteString(fmt.Sprintf("- Recorded: %s\n", m.CreateDate.Format("Monday, January 2, 2006 3:04 PM")))
	}
	if m.HasGPS {
		sb.WriteString(fmt.Sprintf("- GPS: %.6f, %.6f\n", m.Latitude, m.Longitude))
	}
	if m.DeviceMake != "" || m.DeviceModel != "" {
		sb.WriteString(fmt.Sprintf("- Device: %s %s\n", m.DeviceMake, m.DeviceModel))
	}

	return sb.String()
}
