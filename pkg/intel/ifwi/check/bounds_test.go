// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesRange(t *testing.T) {
	require.NoError(t, BytesRange(10, 0, 10))
	require.NoError(t, BytesRange(10, 10, 10))

	err := BytesRange(10, 4, 11)
	var errEnd *ErrEndGreaterThanLength
	require.True(t, errors.As(err, &errEnd))
	require.Equal(t, 11, errEnd.EndIdx)

	err = BytesRange(10, -1, -2)
	var errStart *ErrStartLessThanZero
	require.True(t, errors.As(err, &errStart))
	var errOrder *ErrEndLessThanStart
	require.True(t, errors.As(err, &errOrder))
}

func TestRegion(t *testing.T) {
	require.NoError(t, Region(0x2000, 0x1000, 0x1000))
	require.Error(t, Region(0x2000, 0x1000, 0x1001))
}
