package store

import (
	"os"

	"github.com/mrlokans/printingpress/internal/utils"
)

// Document is a single persisted blob. Load reports a document that was
// never saved with an error wrapping fs.ErrNotExist.
type Document interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileDocument stores a document as a file, replaced atomically on save.
type FileDocument struct {
	path string
}

func NewFileDocument(path string) *FileDocument {
	return &FileDocument{path: path}
}

func (d *FileDocument) Load() ([]byte, error) {
	return os.ReadFile(d.path)
}

func (d *FileDocument) Save(data []byte) error {
	return utils.WriteFileAtomic(d.path, data, 0644)
}

// Path returns the file location.
func (d *FileDocument) Path() string {
	return d.path
}
