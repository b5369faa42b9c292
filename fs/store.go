package fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/fwojciec/refbook"
	"gopkg.in/yaml.v3"
)

// Ensure DocumentStore implements refbook.DocumentStore at compile time.
var _ refbook.DocumentStore = (*DocumentStore)(nil)

// DocumentStore keeps one HTML file per identifier in a directory. Each file
// starts with a YAML front matter header describing the document.
type DocumentStore struct {
	dir string
}

// NewDocumentStore creates a DocumentStore rooted at dir.
// The directory is created on first save.
func NewDocumentStore(dir string) *DocumentStore {
	return &DocumentStore{dir: dir}
}

// header is the front matter written ahead of the stored markup.
type header struct {
	Identifier string `yaml:"identifier"`
	Source     string `yaml:"source"`
	Hash       string `yaml:"hash,omitempty"`
	Fetched    string `yaml:"fetched,omitempty"`
}

// Path returns the file that holds the document for identifier.
func (s *DocumentStore) Path(identifier string) string {
	return filepath.Join(s.dir, refbook.StorageKey(identifier)+".html")
}

func (s *DocumentStore) Exists(ctx context.Context, identifier string) (bool, error) {
	_, err := os.Stat(s.Path(identifier))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *DocumentStore) Load(ctx context.Context, identifier string) (*refbook.Document, error) {
	data, err := os.ReadFile(s.Path(identifier))
	if errors.Is(err, os.ErrNotExist) {
		return nil, refbook.Errorf(refbook.ENOTFOUND, "document not found: %s", identifier)
	}
	if err != nil {
		return nil, err
	}

	var h header
	content, err := frontmatter.Parse(bytes.NewReader(data), &h, frontmatter.NewFormat("---", "---", yaml.Unmarshal))
	if err != nil {
		return nil, refbook.Errorf(refbook.EINTERNAL, "corrupt document file for %s: %v", identifier, err)
	}
	if h.Identifier != identifier {
		return nil, refbook.Errorf(refbook.EINTERNAL, "document file for %s holds %q", identifier, h.Identifier)
	}

	doc := &refbook.Document{
		Identifier:  h.Identifier,
		SourceURL:   h.Source,
		Content:     string(content),
		ContentHash: h.Hash,
	}
	if h.Fetched != "" {
		if doc.FetchedAt, err = time.Parse(time.RFC3339Nano, h.Fetched); err != nil {
			return nil, refbook.Errorf(refbook.EINTERNAL, "invalid fetch time for %s: %v", identifier, err)
		}
	}
	return doc, nil
}

// Save writes the document to a temporary file and renames it into place,
// so readers never observe a partial document.
func (s *DocumentStore) Save(ctx context.Context, doc *refbook.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	h := header{
		Identifier: doc.Identifier,
		Source:     doc.SourceURL,
		Hash:       doc.ContentHash,
	}
	if !doc.FetchedAt.IsZero() {
		h.Fetched = doc.FetchedAt.UTC().Format(time.RFC3339Nano)
	}
	meta, err := yaml.Marshal(&h)
	if err != nil {
		return err
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n")
	b.WriteString(doc.Content)

	tmp, err := os.CreateTemp(s.dir, ".refbook-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path(doc.Identifier))
}
