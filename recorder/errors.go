package recorder

// PermissionError is returned when the microphone cannot be opened.
type PermissionError struct {
	Err error
}

func (e *PermissionError) Error() string {
	return "Failed to start recording. Please check your microphone permissions."
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// RecorderInitError is returned when no capture path could be set up.
type RecorderInitError struct {
	Err error
}

func (e *RecorderInitError) Error() string {
	return "Failed to initialize recording. Please try using Chrome or Safari."
}

func (e *RecorderInitError) Unwrap() error {
	return e.Err
}

// SaveError is surfaced when a finished recording could not be transcribed
// or stored. The recording is lost; the user may record again.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return "Failed to save recording. Please try again."
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
