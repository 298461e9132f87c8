package llm

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/secularbird/assidenter/domain"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"

	// SSE frames carrying long deltas can exceed bufio's default line
	// buffer.
	maxLineSize = 1024 * 1024
)

// StreamDecoder incrementally consumes a server-sent-event token
// stream. Only lines with the "data: " prefix carry payload; a payload
// of "[DONE]" terminates the whole stream. Each payload's delta content
// is folded into the accumulator and passed to OnDelta.
type StreamDecoder struct {
	// OnDelta, when set, receives each non-empty text delta in arrival
	// order.
	OnDelta func(string)
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Decode reads the stream to the [DONE] sentinel or EOF and returns the
// accumulated text. Data lines that are not valid JSON are skipped;
// a read failure mid-stream is a transport error.
func (d *StreamDecoder) Decode(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var accumulated strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		data := line[len(dataPrefix):]
		if data == doneSentinel {
			return accumulated.String(), nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == nil {
			continue
		}

		content := *chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		accumulated.WriteString(content)
		if d.OnDelta != nil {
			d.OnDelta(content)
		}
	}

	if err := scanner.Err(); err != nil {
		return "", domain.TransportError("chat stream", err)
	}

	// EOF without [DONE]: the server closed the stream, accept what we
	// have.
	return accumulated.String(), nil
}
