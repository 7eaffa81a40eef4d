package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lookbusy1344/riscv-hart/bus"
	"github.com/lookbusy1344/riscv-hart/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadImagePlacesBytesAtBase(t *testing.T) {
	b := bus.New()
	image := []byte{0x13, 0x00, 0x00, 0x00} // ADDI x0, x0, 0 (NOP)

	ram, err := loader.LoadImage(b, image, 0x8000_0000)
	require.NoError(t, err)

	v, err := b.Read(0x8000_0000, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x00000013), v)
	assert.GreaterOrEqual(t, ram.Size(), uint64(len(image)))
}

func TestLoadFileReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xEF, 0xBE, 0xAD, 0xDE}, 0644))

	b := bus.New()
	_, err := loader.LoadFile(b, path, 0x8000_0000)
	require.NoError(t, err)

	v, err := b.Read(0x8000_0000, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEF), v)
}

func TestLoadFileMissingPathErrors(t *testing.T) {
	b := bus.New()
	_, err := loader.LoadFile(b, "/nonexistent/path/does-not-exist.bin", 0x8000_0000)
	assert.Error(t, err)
}

