// Package wire implements the canvas stream encoding, a compact text
// form for canvas.Draw operations that can be sent over any byte
// transport.
//
// Every operation encodes to a short string drawn from the base64
// alphabet (A-Z, a-z, 0-9, + and /), so streams survive line-oriented
// protocols and are easy to paste into a terminal. Numbers are fixed
// width: a u32 is six characters, an f32 its IEEE-754 bit pattern in the
// same form. Identifiers use a variable-length form, five value bits per
// character, so small ids stay short. Newlines between operations are
// permitted and ignored.
//
// Decoding is incremental. A Decoder accepts one character at a time and
// returns each operation as its final character arrives, which makes it
// suitable for transports that deliver arbitrary chunks. StreamDecoder
// adapts it to an io.Reader, and DecodeChannel to a channel of byte
// chunks. Any malformed input puts the decoder into a permanent error
// state; errors are reported as *DecodeError values.
package wire
