package pomxml

import "github.com/beevik/etree"

// RenameTag renames every element matching the given etree path expression
// and returns the number of elements renamed. The path is validated before
// any element is touched, so a malformed expression leaves the document
// unmodified.
func (d *Document) RenameTag(path, newName string) (int, error) {
	compiled, err := etree.CompilePath(path)
	if err != nil {
		return 0, err
	}
	matched := d.tree.FindElementsPath(compiled)
	for _, el := range matched {
		el.Tag = newName
	}
	return len(matched), nil
}
