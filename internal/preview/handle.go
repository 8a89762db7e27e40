// Package preview owns the transient handles backing the before/after
// previews. A handle pins the decoded pixels and raw bytes of one
// preview role; the manager guarantees at most one live handle per role
// so repeated runs cannot accumulate pinned memory.
package preview

import (
	"bytes"
	"image"
	"sync/atomic"

	_ "image/jpeg"
	_ "image/png"
)

// Handle is a revocable reference to binary content, decoded into an
// image when the content is displayable. Only the manager creates and
// revokes handles; everything else just reads them.
type Handle struct {
	id        uint64
	mediaType string
	data      []byte
	img       image.Image
	width     int
	height    int
	valid     int32
}

var nextHandleID uint64

func newHandle(data []byte, mediaType string) *Handle {
	h := &Handle{
		id:        atomic.AddUint64(&nextHandleID, 1),
		mediaType: mediaType,
		data:      data,
		valid:     1,
	}

	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		h.img = img
		b := img.Bounds()
		h.width = b.Dx()
		h.height = b.Dy()
	}

	return h
}

// ID identifies the handle; stable for its lifetime.
func (h *Handle) ID() uint64 { return h.id }

// Valid reports whether the handle has not been revoked.
func (h *Handle) Valid() bool { return atomic.LoadInt32(&h.valid) == 1 }

// IsImage reports whether the content decoded into displayable pixels.
func (h *Handle) IsImage() bool { return h.Valid() && h.img != nil }

// Image returns the decoded pixels, or nil for revoked or non-image
// content.
func (h *Handle) Image() image.Image {
	if !h.Valid() {
		return nil
	}
	return h.img
}

// Bytes returns the raw content, or nil once revoked.
func (h *Handle) Bytes() []byte {
	if !h.Valid() {
		return nil
	}
	return h.data
}

// MediaType returns the declared media type of the content.
func (h *Handle) MediaType() string { return h.mediaType }

// Size returns the natural pixel dimensions, zero for non-image content.
func (h *Handle) Size() (int, int) {
	if !h.Valid() {
		return 0, 0
	}
	return h.width, h.height
}

// revoke releases the pinned content. Idempotent.
func (h *Handle) revoke() {
	if atomic.CompareAndSwapInt32(&h.valid, 1, 0) {
		h.img = nil
		h.data = nil
	}
}
