// Package filex reads local files for the command-line tools.
package filex

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// MaxImageSize bounds the files ReadImage accepts.
const MaxImageSize = 10 << 20

// ReadImage loads an image file and reports its content type, taken from
// the extension when known and sniffed from the content otherwise.
func ReadImage(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > MaxImageSize {
		return nil, "", fmt.Errorf("%s is larger than %d bytes", path, MaxImageSize)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%s is empty", path)
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return data, ct, nil
}
