// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
)

func fixedNow() time.Time {
	return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
}

func pattern(size int, seed byte) []byte {
	b := make([]byte, size)
	for idx := range b {
		b[idx] = seed + byte(idx)
	}
	return b
}

func newTestImage(t *testing.T, payloads map[SubPartitionType][]byte) *Image {
	img := NewImage()
	img.Now = fixedNow
	for typ, data := range payloads {
		_, err := img.Add(typ, pkgbytes.BufferFrom("test", data))
		require.NoError(t, err)
	}
	return img
}

func repackAndParse(t *testing.T, img *Image) (*pkgbytes.Buffer, *Image) {
	out, err := img.Repack()
	require.NoError(t, err)
	parsed, err := Parse(out)
	require.NoError(t, err)
	parsed.Now = fixedNow
	return out, parsed
}

func entryOf(t *testing.T, img *Image, typ SubPartitionType) BPDTEntry {
	if e := img.BPDT.Find(typ); e != nil {
		return *e
	}
	e := img.SBPDT.Find(typ)
	require.NotNil(t, e, "no entry for %s", typ)
	return *e
}
