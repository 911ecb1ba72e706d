package wire

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/canvas"
)

// StreamDecoder decodes operations from an io.Reader as they are pulled.
type StreamDecoder struct {
	r      *bufio.Reader
	dec    Decoder
	failed bool
}

// NewStreamDecoder returns a decoder that reads encoded operations from r.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	return &StreamDecoder{r: bufio.NewReader(r)}
}

// Next returns the next operation from the stream. At a clean end of input
// it returns io.EOF; if input ends part-way through an operation it returns
// io.ErrUnexpectedEOF. A decode failure is returned once, after which the
// stream is exhausted and Next returns io.EOF.
func (s *StreamDecoder) Next() (canvas.Draw, error) {
	if s.failed {
		return nil, io.EOF
	}
	for {
		c, err := s.r.ReadByte()
		if err == io.EOF {
			if s.dec.Pending() {
				s.failed = true
				return nil, io.ErrUnexpectedEOF
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("wire: read: %w", err)
		}

		op, ok, err := s.dec.Feed(c)
		if err != nil {
			s.failed = true
			return nil, err
		}
		if ok {
			return op, nil
		}
	}
}

// Decode reads a whole drawing from r. On error the operations decoded so
// far are returned along with it.
func Decode(r io.Reader) ([]canvas.Draw, error) {
	var ops []canvas.Draw
	stream := NewStreamDecoder(r)
	for {
		op, err := stream.Next()
		if err == io.EOF {
			return ops, nil
		}
		if err != nil {
			return ops, err
		}
		ops = append(ops, op)
	}
}

// DecodeString decodes a whole drawing from its string encoding.
func DecodeString(s string) ([]canvas.Draw, error) {
	return Decode(strings.NewReader(s))
}

// StreamResult is one decoded operation, or the error that ended decoding.
type StreamResult struct {
	Op  canvas.Draw
	Err error
}

// DecodeChannel decodes chunks arriving on in, delivering operations as
// their final characters arrive. Chunk boundaries carry no meaning: an
// operation may span any number of chunks.
//
// The returned channel is closed when in closes. A decode failure or a
// cancelled context is delivered as a final StreamResult carrying the
// error, then the channel closes.
func DecodeChannel(ctx context.Context, in <-chan []byte) <-chan StreamResult {
	out := make(chan StreamResult)

	go func() {
		defer close(out)
		var dec Decoder
		for {
			select {
			case <-ctx.Done():
				select {
				case out <- StreamResult{Err: ctx.Err()}:
				default:
				}
				return

			case chunk, ok := <-in:
				if !ok {
					return
				}
				for _, c := range chunk {
					op, done, err := dec.Feed(c)
					if err != nil {
						select {
						case out <- StreamResult{Err: err}:
						case <-ctx.Done():
						}
						return
					}
					if !done {
						continue
					}
					select {
					case out <- StreamResult{Op: op}:
					case <-ctx.Done():
						select {
						case out <- StreamResult{Err: ctx.Err()}:
						default:
						}
						return
					}
				}
			}
		}
	}()

	return out
}
