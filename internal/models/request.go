package models

// OutputMode selects the encoded output format. OutputAuto defers the
// choice to the input classification.
type OutputMode string

const (
	OutputAuto OutputMode = "auto"
	OutputPNG  OutputMode = "png"
	OutputJPEG OutputMode = "jpeg"
	OutputPDF  OutputMode = "pdf"
)

// PNGMode selects how PNG output is encoded.
type PNGMode string

const (
	// PNGAuto derives palette size, dithering and quantization pressure
	// from the quality slider.
	PNGAuto PNGMode = "auto"
	// PNGLossless keeps full RGBA and only applies lossless optimizations.
	PNGLossless PNGMode = "lossless"
	// PNGPalette quantizes to the user-selected palette size.
	PNGPalette PNGMode = "palette"
)

// FileKind classifies the selected input file.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindJPEG
	KindPNG
	KindPDF
)

func (k FileKind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// IsImage reports whether the kind can be decoded into pixels.
func (k FileKind) IsImage() bool {
	return k == KindJPEG || k == KindPNG
}

// RGB is a background color used when flattening transparency.
type RGB struct {
	R, G, B int
}

// White is the default flatten background.
var White = RGB{R: 255, G: 255, B: 255}

// FileMeta describes the selected file as reported by the picker.
type FileMeta struct {
	Name      string
	MediaType string
	Size      int64
}

// RawOptions is an untrusted snapshot of the option panel. Values arrive
// exactly as the widgets produced them; the request builder clamps and
// derives everything before the engine ever sees them.
type RawOptions struct {
	OutputMode            OutputMode
	Quality               int
	Preset                int
	MaxSide               int
	TargetKB              int
	Background            RGB
	PNGMode               PNGMode
	PaletteColors         int
	Dithering             bool
	ForceQuantization     bool
	TransparentBackground bool
}

// CompressionRequest is the validated, normalized input to one engine
// invocation. Built once per run; never mutated afterwards.
type CompressionRequest struct {
	SourceBytes     []byte
	SourceMediaType string
	SourceExt       string
	Kind            FileKind

	OutputMode OutputMode
	Quality    int // 1..100
	Preset     int // 0..2
	MaxSide    int // 0 means no resize
	TargetKB   int // 0 means no target-size search

	Background            RGB
	PNGMode               PNGMode
	PaletteColors         int // 1..256
	Dithering             bool
	ForceQuantization     bool
	TransparentBackground bool
}
