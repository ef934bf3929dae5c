// Package buffer holds the typed vertex and index data model: raw Buffers, BufferViews
// that own GPU buffer handles and upload them on demand, and Accessors that interpret a
// view's bytes as typed vertex attributes.
package buffer

// Buffer is a block of raw bytes, either built in memory or resolved by the asset fetcher.
type Buffer struct {
	data []byte
	uri  string
}

// NewBuffer wraps raw bytes. The slice is retained, not copied.
//
// Parameters:
//   - data: the buffer contents
//
// Returns:
//   - *Buffer: the new buffer
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NewBufferFromURI wraps bytes fetched from uri and remembers the source for diagnostics.
func NewBufferFromURI(uri string, data []byte) *Buffer {
	return &Buffer{data: data, uri: uri}
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// URI returns the source the buffer was fetched from, or "" for in-memory buffers.
func (b *Buffer) URI() string {
	return b.uri
}
