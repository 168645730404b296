package pomxml

import (
	"errors"
	"io"
	"os"

	"github.com/beevik/etree"
)

// ErrNoProject indicates the document has no <project> root element.
var ErrNoProject = errors.New("pom has no project root")

// Document is one parsed pom.xml. A Document is not safe for concurrent
// mutation; each resolution session owns its document exclusively.
type Document struct {
	tree *etree.Document
}

// Parse reads a pom.xml document from r.
func Parse(r io.Reader) (*Document, error) {
	tree := etree.NewDocument()
	if _, err := tree.ReadFrom(r); err != nil {
		return nil, err
	}
	return fromTree(tree)
}

// ParseBytes reads a pom.xml document from raw bytes.
func ParseBytes(b []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(b); err != nil {
		return nil, err
	}
	return fromTree(tree)
}

// Load reads a pom.xml document from a file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func fromTree(tree *etree.Document) (*Document, error) {
	if tree.SelectElement("project") == nil {
		return nil, ErrNoProject
	}
	return &Document{tree: tree}, nil
}

// WriteTo serializes the document to w.
func (d *Document) WriteTo(w io.Writer) error {
	_, err := d.tree.WriteTo(w)
	return err
}

// WriteFile serializes the document to path.
func (d *Document) WriteFile(path string) error {
	return d.tree.WriteToFile(path)
}

// String returns the serialized document. Serialization failures collapse to
// an empty string; String exists for tests and diagnostics.
func (d *Document) String() string {
	s, err := d.tree.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// Indent reformats the whole document with the given indent width.
func (d *Document) Indent(spaces int) {
	d.tree.Indent(spaces)
}

// Project returns the <project> root element.
func (d *Document) Project() *etree.Element {
	return d.tree.SelectElement("project")
}

// Parent returns the <parent> element, or nil when the project declares no
// parent reference.
func (d *Document) Parent() *etree.Element {
	return d.Project().SelectElement("parent")
}
