package filecache

import (
	"errors"
	"os"

	"github.com/zynqcloud/filecache/internal/metafile"
)

var errBoom = errors.New("boom")

func readValueMeta(path string) (metafile.ValueMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return metafile.ValueMeta{}, err
	}
	return metafile.DecodeValueMeta(data)
}

func osStat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
