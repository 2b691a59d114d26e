// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/utils"
)

const bitDepth = 16

// WriteBuffer encodes b as 16-bit PCM into a seekable writer, e.g. a file.
func WriteBuffer(w io.WriteSeeker, b *audio.Buffer) error {
	if b.Frames() == 0 {
		return ErrEmptyBuffer
	}

	enc := wav.NewEncoder(w, b.Rate, bitDepth, b.Channels, formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: b.Channels, SampleRate: b.Rate},
		Data:           make([]int, len(b.Data)),
		SourceBitDepth: bitDepth,
	}
	for i, v := range b.Data {
		buf.Data[i] = int(utils.Float32ToInt16(v))
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav: %w", err)
	}
	return nil
}

// WriteStream writes b as a 16-bit PCM WAV to any writer. The header is
// complete up front, so the output can go to a pipe.
func WriteStream(w io.Writer, b *audio.Buffer) error {
	if b.Frames() == 0 {
		return ErrEmptyBuffer
	}

	channels := uint16(b.Channels)
	blockAlign := channels * bitDepth / 8
	dataSize := uint32(len(b.Data) * 2)

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], channels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(b.Rate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(b.Rate)*uint32(blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitDepth)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if err := write(w, header); err != nil {
		return err
	}

	const chunk = 8192
	buf := make([]byte, 2*min(chunk, len(b.Data)))
	for i := 0; i < len(b.Data); i += chunk {
		samples := b.Data[i:min(i+chunk, len(b.Data))]
		n := utils.PutInt16LE(buf, samples)
		if err := write(w, buf[:n]); err != nil {
			return err
		}
	}

	return nil
}

func write(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	if n != len(p) {
		return ErrWriteIncomplete
	}
	return nil
}
