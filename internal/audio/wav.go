// Package audio converts between raw PCM sample buffers and a minimal
// WAV container. Only canonical PCM mono 16-bit files are produced.
package audio

import (
	"encoding/binary"
	"errors"

	"github.com/secularbird/assidenter/domain"
)

const headerSize = 44

// Format describes the PCM layout recovered from a WAV header.
type Format struct {
	SampleRate    uint32
	NumChannels   uint16
	BitsPerSample uint16
	DataSize      uint32
}

// EncodeWAV synthesizes a canonical WAV container around the given
// 16-bit mono samples: RIFF header, "fmt " subchunk, "data" subchunk
// with little-endian samples. Chunk sizes are computed so downstream
// consumers accept the file unmodified.
func EncodeWAV(samples []int16, sampleRate uint32) []byte {
	dataSize := uint32(len(samples) * 2)
	buf := make([]byte, 0, headerSize+int(dataSize))

	// RIFF header
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, dataSize+36)
	buf = append(buf, "WAVE"...)

	// fmt subchunk: PCM, mono, 16-bit
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, sampleRate)
	buf = binary.LittleEndian.AppendUint32(buf, sampleRate*2)
	buf = binary.LittleEndian.AppendUint16(buf, 2)
	buf = binary.LittleEndian.AppendUint16(buf, 16)

	// data subchunk
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, dataSize)
	for _, sample := range samples {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(sample))
	}

	return buf
}

// DecodeWAVHeader parses the canonical 44-byte header produced by
// EncodeWAV and returns the PCM format it declares.
func DecodeWAVHeader(data []byte) (Format, error) {
	if len(data) < headerSize {
		return Format{}, domain.DecodeError("wav header", errTooShort)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Format{}, domain.DecodeError("wav header", errNotRIFF)
	}
	if string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		return Format{}, domain.DecodeError("wav header", errBadChunks)
	}

	return Format{
		SampleRate:    binary.LittleEndian.Uint32(data[24:28]),
		NumChannels:   binary.LittleEndian.Uint16(data[22:24]),
		BitsPerSample: binary.LittleEndian.Uint16(data[34:36]),
		DataSize:      binary.LittleEndian.Uint32(data[40:44]),
	}, nil
}

var (
	errTooShort  = errors.New("container shorter than a WAV header")
	errNotRIFF   = errors.New("missing RIFF/WAVE markers")
	errBadChunks = errors.New("missing fmt/data subchunks")
)
