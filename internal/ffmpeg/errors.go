package ffmpeg

import "fmt"

type (
	// ProbeError is returned when ffprobe could not be used to determine
	// the geometry of a media file. Output contains the diagnostic output
	// of the command (if it ran at all).
	ProbeError struct {
		Path   string
		Output string
		Err    error
	}

	// RemuxError is returned when ffmpeg failed to remux a media file, or
	// when it reported success but left no usable output behind.
	RemuxError struct {
		Path     string
		ExitCode int
		Output   string
		Err      error
	}
)

func (err *ProbeError) Error() string {
	if err.Output == "" {
		return fmt.Sprintf("failed to probe %s: %v", err.Path, err.Err)
	}

	return fmt.Sprintf("failed to probe %s: %v: %s", err.Path, err.Err, err.Output)
}

func (err *ProbeError) Unwrap() error { return err.Err }

func (err *RemuxError) Error() string {
	if err.Output == "" {
		return fmt.Sprintf("failed to remux %s (exit code %d): %v", err.Path, err.ExitCode, err.Err)
	}

	return fmt.Sprintf("failed to remux %s (exit code %d): %v: %s", err.Path, err.ExitCode, err.Err, err.Output)
}

func (err *RemuxError) Unwrap() error { return err.Err }
