package models

// MediaType constants used when presenting engine output.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// EngineOutput is the raw engine response: an output byte sequence plus
// the mode tag the encoder actually produced.
type EngineOutput struct {
	OutMode OutputMode
	Bytes   []byte
}

// CompressionResult is the presentable artifact built from engine output
// and the original file metadata.
type CompressionResult struct {
	Bytes         []byte
	MediaType     string
	SuggestedName string
	OriginalSize  int64
	OutputSize    int64
}

// SavedPercent reports the size reduction relative to the original.
// Negative when the output grew.
func (r CompressionResult) SavedPercent() float64 {
	if r.OriginalSize <= 0 {
		return 0
	}
	return (1 - float64(r.OutputSize)/float64(r.OriginalSize)) * 100
}

// IsImage reports whether the result can back an image preview.
func (r CompressionResult) IsImage() bool {
	return r.MediaType == MediaTypePNG || r.MediaType == MediaTypeJPEG
}
