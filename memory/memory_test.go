package memory_test

import (
	"testing"

	"github.com/lookbusy1344/riscv-hart/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeRoundedUpToPage(t *testing.T) {
	r := memory.New(1)
	assert.Equal(t, uint64(4096), r.Size())
	r = memory.New(4096)
	assert.Equal(t, uint64(4096), r.Size())
	r = memory.New(4097)
	assert.Equal(t, uint64(8192), r.Size())
}

func TestWriteReadRoundTripAllSizes(t *testing.T) {
	r := memory.New(64)
	for _, size := range []int{1, 2, 4, 8} {
		require.NoError(t, r.Write(0, 0x1122334455667788, size))
		got, err := r.Read(0, size)
		require.NoError(t, err)
		want := uint64(0x1122334455667788)
		if size < 8 {
			want &= (uint64(1) << (8 * size)) - 1
		}
		assert.Equal(t, want, got)
	}
}

func TestLittleEndianEncoding(t *testing.T) {
	r := memory.New(64)
	require.NoError(t, r.Write(0, 0xAABBCCDD, 4))
	b0, _ := r.Read(0, 1)
	b1, _ := r.Read(1, 1)
	b2, _ := r.Read(2, 1)
	b3, _ := r.Read(3, 1)
	assert.Equal(t, uint64(0xDD), b0)
	assert.Equal(t, uint64(0xCC), b1)
	assert.Equal(t, uint64(0xBB), b2)
	assert.Equal(t, uint64(0xAA), b3)
}

func TestOutOfBoundsAccess(t *testing.T) {
	r := memory.New(4096)
	_, err := r.Read(4093, 4)
	require.Error(t, err)
	var oob *memory.ErrAddressOutOfBounds
	assert.ErrorAs(t, err, &oob)
}

func TestNewFromImageZeroFillsTail(t *testing.T) {
	r := memory.NewFromImage([]byte{1, 2, 3, 4})
	assert.Equal(t, uint64(4096), r.Size())
	v, err := r.Read(0, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x04030201), v)
	v, err = r.Read(4092, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}
