package preview

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/christiandoxa/kompresin/internal/logger"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 200
		img.Pix[i+3] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestHandleDecodesImages(t *testing.T) {
	m := NewManager(logger.Nop{})

	h := m.SetBefore(pngBytes(t, 8, 6), "image/png")
	if !h.Valid() {
		t.Fatal("new handle not valid")
	}
	if !h.IsImage() {
		t.Fatal("png handle should be displayable")
	}
	if w, ht := h.Size(); w != 8 || ht != 6 {
		t.Errorf("Size = %dx%d, want 8x6", w, ht)
	}
	if h.MediaType() != "image/png" {
		t.Errorf("MediaType = %q", h.MediaType())
	}
}

func TestHandleNonImageContent(t *testing.T) {
	m := NewManager(logger.Nop{})

	h := m.SetBefore([]byte("%PDF-1.4 not pixels"), "application/pdf")
	if !h.Valid() {
		t.Fatal("handle should be valid even for non-images")
	}
	if h.IsImage() {
		t.Error("pdf handle must not report as image")
	}
	if h.Image() != nil {
		t.Error("Image() must be nil for non-image content")
	}
	if w, ht := h.Size(); w != 0 || ht != 0 {
		t.Errorf("Size = %dx%d, want 0x0", w, ht)
	}
}

func TestReplaceRevokesPrevious(t *testing.T) {
	m := NewManager(logger.Nop{})
	data := pngBytes(t, 4, 4)

	var handles []*Handle
	for i := 0; i < 5; i++ {
		handles = append(handles, m.SetAfter(data, "image/png"))
	}

	live := 0
	for _, h := range handles {
		if h.Valid() {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("%d live handles after 5 replacements, want 1", live)
	}
	if !handles[len(handles)-1].Valid() {
		t.Fatal("latest handle must be the live one")
	}
}

func TestRevokedHandleReturnsNothing(t *testing.T) {
	m := NewManager(logger.Nop{})
	h := m.SetBefore(pngBytes(t, 4, 4), "image/png")

	m.Revoke(RoleBefore)

	if h.Valid() {
		t.Fatal("handle still valid after revoke")
	}
	if h.Bytes() != nil || h.Image() != nil {
		t.Error("revoked handle must return nil content")
	}
	if m.Before() != nil {
		t.Error("manager must forget the revoked role")
	}
}

func TestRolesAreIndependent(t *testing.T) {
	m := NewManager(logger.Nop{})
	data := pngBytes(t, 4, 4)

	before := m.SetBefore(data, "image/png")
	after := m.SetAfter(data, "image/png")

	m.Revoke(RoleAfter)

	if !before.Valid() {
		t.Error("revoking after must not touch before")
	}
	if after.Valid() {
		t.Error("after handle should be revoked")
	}
}

func TestResetIsIdempotent(t *testing.T) {
	m := NewManager(logger.Nop{})
	data := pngBytes(t, 4, 4)

	before := m.SetBefore(data, "image/png")
	after := m.SetAfter(data, "image/png")

	m.Reset()
	m.Reset()
	m.Reset()

	if before.Valid() || after.Valid() {
		t.Error("handles must be revoked after Reset")
	}
	if m.Before() != nil || m.After() != nil {
		t.Error("manager must hold no handles after Reset")
	}
}

func TestHandleIDsAreUnique(t *testing.T) {
	m := NewManager(logger.Nop{})
	data := pngBytes(t, 2, 2)

	seen := map[uint64]bool{}
	for i := 0; i < 10; i++ {
		h := m.SetBefore(data, "image/png")
		if seen[h.ID()] {
			t.Fatalf("duplicate handle id %d", h.ID())
		}
		seen[h.ID()] = true
	}
}
