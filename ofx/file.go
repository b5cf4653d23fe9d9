package ofx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// FileStore loads and saves documents on the local file system.
type FileStore struct {
	Writer Writer
}

// NewFileStore returns a FileStore writing indented documents.
func NewFileStore() *FileStore {
	return &FileStore{Writer: Writer{Indent: DefaultIndent}}
}

// Load parses the OFX file at path.
func (s *FileStore) Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	glog.V(1).Infof("loaded %s: version %q, %d transactions", path, doc.Header.Version(), doc.TransactionCount)
	return doc, nil
}

// Save writes doc to path. The document is written to a temporary file that is
// renamed over path once complete, so path is never left partially written.
func (s *FileStore) Save(doc *Document, path string) error {
	var buf bytes.Buffer
	if err := s.Writer.Write(&buf, doc); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	glog.V(1).Infof("saved %s (%d bytes)", path, buf.Len())
	return nil
}
