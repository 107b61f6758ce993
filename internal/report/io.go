package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WriteOutcome records the result of writing one output file.
type WriteOutcome struct {
	Path string
	Err  error
}

func (o WriteOutcome) OK() bool { return o.Err == nil }

func Save(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveWith creates path and hands the open file to write. The file is closed
// before SaveWith returns; a close error is reported when write succeeded.
func SaveWith(path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// NewTextReader decodes r as UTF-8, dropping a leading byte order mark and
// replacing invalid byte sequences with U+FFFD.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
}

// ReadText loads the whole file at path through NewTextReader.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := io.ReadAll(NewTextReader(f))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
