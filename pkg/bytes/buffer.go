// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytes

import (
	"fmt"
	"os"
)

// Buffer is a named window [offset, offset+size) over a backing array.
//
// Several buffers may share one backing array (see Splice). Methods which
// change the length of the data (Pad, Resize, Clone) never touch the
// shared array: they return a buffer with a backing array of its own.
type Buffer struct {
	name    string
	backing []byte
	offset  int
	size    int
}

// NewBuffer allocates a zero-filled buffer of the given size.
func NewBuffer(name string, size int) *Buffer {
	return &Buffer{
		name:    name,
		backing: make([]byte, size),
		size:    size,
	}
}

// NewBufferFilled allocates a buffer of the given size with every byte
// set to fill.
func NewBufferFilled(name string, size int, fill byte) *Buffer {
	b := NewBuffer(name, size)
	Fill(b.Bytes(), fill)
	return b
}

// BufferFrom wraps data. The buffer takes ownership of data, the caller
// should not modify it afterwards.
func BufferFrom(name string, data []byte) *Buffer {
	return &Buffer{
		name:    name,
		backing: data,
		size:    len(data),
	}
}

// ReadFile reads the whole file into a new buffer named after the path.
func ReadFile(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read file '%s': %w", path, err)
	}
	return BufferFrom(path, data), nil
}

// Name returns the name of the buffer.
func (b *Buffer) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// SetName renames the buffer.
func (b *Buffer) SetName(name string) {
	b.name = name
}

// Len returns the size of the window. A nil buffer has length zero.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.size
}

// Offset returns the position of the window within the backing array.
func (b *Buffer) Offset() int {
	return b.offset
}

// Bytes returns the window. The capacity is limited to the window, so
// appending to the result never writes into memory of other views.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.backing[b.offset : b.offset+b.size : b.offset+b.size]
}

// Splice returns a view of [offset, offset+size) of this buffer. The view
// shares the backing array, so writes through one are visible in the
// other. The caller is responsible for the bounds.
func (b *Buffer) Splice(offset, size int) *Buffer {
	if offset < 0 || size < 0 || offset+size > b.size {
		panic(fmt.Sprintf("splice [%d:%d] is outside of buffer '%s' of size %d", offset, offset+size, b.name, b.size))
	}
	return &Buffer{
		name:    b.name,
		backing: b.backing,
		offset:  b.offset + offset,
		size:    size,
	}
}

// Seek drops n bytes from the start of the window.
func (b *Buffer) Seek(n int) {
	if n < 0 || n > b.size {
		panic(fmt.Sprintf("cannot seek %d bytes in buffer '%s' of size %d", n, b.name, b.size))
	}
	b.offset += n
	b.size -= n
}

// SetSize shrinks the window toward its start.
func (b *Buffer) SetSize(size int) {
	if size < 0 || size > b.size {
		panic(fmt.Sprintf("cannot set size %d of buffer '%s' of size %d", size, b.name, b.size))
	}
	b.size = size
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	return b.Resize(b.Len())
}

// Resize returns an independent copy of size bytes: the data is truncated
// or extended with zeros.
func (b *Buffer) Resize(size int) *Buffer {
	result := NewBuffer(b.Name(), size)
	copy(result.Bytes(), b.Bytes())
	return result
}

// Pad returns an independent copy of size bytes with the tail after the
// current data set to fill. Padding to a smaller size is a programming
// error.
func (b *Buffer) Pad(size int, fill byte) *Buffer {
	if size < b.Len() {
		panic(fmt.Sprintf("cannot pad buffer '%s' of size %d to %d", b.Name(), b.Len(), size))
	}
	result := b.Resize(size)
	Fill(result.Bytes()[b.Len():], fill)
	return result
}

// WriteFile writes the window to the file at path.
func (b *Buffer) WriteFile(path string) error {
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("unable to write file '%s': %w", path, err)
	}
	return nil
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%s[0x%x:0x%x]", b.Name(), b.offset, b.offset+b.size)
}

// Fill sets every byte of b to v.
func Fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
