package engine

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// optimizePNG re-deflates the IDAT stream at an effort chosen by preset
// and drops ancillary metadata chunks. The input is returned untouched
// whenever parsing fails or the rewrite is not smaller. Preset 0 skips
// the pass entirely.
func optimizePNG(data []byte, preset int) []byte {
	if preset <= 0 {
		return data
	}
	if !bytes.HasPrefix(data, pngSig) {
		return data
	}

	chunks, err := parsePNGChunks(data[len(pngSig):])
	if err != nil {
		return data
	}

	var idat []byte
	for _, c := range chunks {
		if c.name == "IDAT" {
			idat = append(idat, c.data...)
		}
	}
	if len(idat) == 0 {
		return data
	}

	recompressed, err := redeflate(idat, zlibLevel(preset))
	if err != nil {
		return data
	}

	var out bytes.Buffer
	out.Write(pngSig)
	idatWritten := false
	for _, c := range chunks {
		switch {
		case c.name == "IDAT":
			if !idatWritten {
				writePNGChunk(&out, "IDAT", recompressed)
				idatWritten = true
			}
		case droppablePNGChunk(c.name):
			// metadata only, safe to omit
		default:
			writePNGChunk(&out, c.name, c.data)
		}
	}

	if out.Len() >= len(data) {
		return data
	}
	return out.Bytes()
}

type pngChunk struct {
	name string
	data []byte
}

func parsePNGChunks(data []byte) ([]pngChunk, error) {
	var chunks []pngChunk
	for len(data) > 0 {
		if len(data) < 8 {
			return nil, io.ErrUnexpectedEOF
		}
		length := binary.BigEndian.Uint32(data[:4])
		name := string(data[4:8])

		end := 8 + int(length) + 4
		if end > len(data) {
			return nil, io.ErrUnexpectedEOF
		}

		chunks = append(chunks, pngChunk{name: name, data: data[8 : 8+int(length)]})
		data = data[end:]

		if name == "IEND" {
			break
		}
	}
	return chunks, nil
}

func writePNGChunk(w *bytes.Buffer, name string, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	w.Write(lenBuf[:])
	w.WriteString(name)
	w.Write(data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(name))
	crc.Write(data)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc.Sum32())
	w.Write(crcBuf[:])
}

func droppablePNGChunk(name string) bool {
	switch name {
	case "tEXt", "zTXt", "iTXt", "eXIf", "tIME":
		return true
	default:
		return false
	}
}

func redeflate(idat []byte, level int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(zr)
	zr.Close()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func zlibLevel(preset int) int {
	if preset >= 2 {
		return zlib.BestCompression
	}
	return zlib.DefaultCompression
}
