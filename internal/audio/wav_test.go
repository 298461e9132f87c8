package audio

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/secularbird/assidenter/domain"
)

func TestEncodeWAVRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		samples    []int16
		sampleRate uint32
	}{
		{
			name:       "typical speech buffer",
			samples:    []int16{0, 100, -100, 32767, -32768, 42},
			sampleRate: 16000,
		},
		{
			name:       "single sample",
			samples:    []int16{-1},
			sampleRate: 22050,
		},
		{
			name:       "high sample rate",
			samples:    []int16{1, 2, 3, 4},
			sampleRate: 48000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wav := EncodeWAV(tt.samples, tt.sampleRate)

			format, err := DecodeWAVHeader(wav)
			if err != nil {
				t.Fatalf("DecodeWAVHeader() error = %v", err)
			}

			if format.SampleRate != tt.sampleRate {
				t.Errorf("sample rate = %d, want %d", format.SampleRate, tt.sampleRate)
			}
			if format.NumChannels != 1 {
				t.Errorf("channels = %d, want 1", format.NumChannels)
			}
			if format.BitsPerSample != 16 {
				t.Errorf("bit depth = %d, want 16", format.BitsPerSample)
			}
			wantData := uint32(2 * len(tt.samples))
			if format.DataSize != wantData {
				t.Errorf("data size = %d, want %d", format.DataSize, wantData)
			}
			if len(wav) != 44+int(wantData) {
				t.Errorf("container length = %d, want %d", len(wav), 44+int(wantData))
			}
		})
	}
}

func TestEncodeWAVEmptyBuffer(t *testing.T) {
	wav := EncodeWAV(nil, 16000)

	if len(wav) != 44 {
		t.Fatalf("header-only container length = %d, want 44", len(wav))
	}

	format, err := DecodeWAVHeader(wav)
	if err != nil {
		t.Fatalf("DecodeWAVHeader() error = %v", err)
	}
	if format.DataSize != 0 {
		t.Errorf("data size = %d, want 0", format.DataSize)
	}

	riffSize := binary.LittleEndian.Uint32(wav[4:8])
	if riffSize != 36 {
		t.Errorf("RIFF size = %d, want 36", riffSize)
	}
}

func TestEncodeWAVSampleBytes(t *testing.T) {
	wav := EncodeWAV([]int16{0x0102, -2}, 8000)

	data := wav[44:]
	want := []byte{0x02, 0x01, 0xFE, 0xFF}
	if len(data) != len(want) {
		t.Fatalf("data length = %d, want %d", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("data[%d] = %#x, want %#x", i, data[i], want[i])
		}
	}
}

func TestDecodeWAVHeaderInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated", data: []byte("RIFF")},
		{name: "not riff", data: make([]byte, 44)},
		{
			name: "riff without fmt",
			data: append([]byte("RIFF\x00\x00\x00\x00WAVEjunk"), make([]byte, 32)...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWAVHeader(tt.data)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, domain.ErrDecode) {
				t.Errorf("error = %v, want ErrDecode kind", err)
			}
		})
	}
}
