package pomxml

import (
	"strings"

	"github.com/beevik/etree"
)

// parentChildOrder is the schema-canonical ordering of <parent> children.
// Newly inserted fields must land at this position among their siblings,
// not simply at the end of the element.
var parentChildOrder = []string{"groupId", "artifactId", "version", "relativePath"}

// ParentChildRank returns the canonical position of a <parent> child field.
// Unknown fields rank after all known ones.
func ParentChildRank(name string) int {
	for i, n := range parentChildOrder {
		if n == name {
			return i
		}
	}
	return len(parentChildOrder)
}

// ChildValue returns the trimmed text of the named child element. The
// boolean result distinguishes an absent child from one with empty text: an
// empty or self-closing child yields ("", true).
func ChildValue(el *etree.Element, name string) (string, bool) {
	child := el.SelectElement(name)
	if child == nil {
		return "", false
	}
	return strings.TrimSpace(child.Text()), true
}

// Child returns the named child element, or nil.
func Child(el *etree.Element, name string) *etree.Element {
	return el.SelectElement(name)
}

// SetChildValue replaces the text of the named child element. It reports
// whether the child existed.
func SetChildValue(el *etree.Element, name, value string) bool {
	child := el.SelectElement(name)
	if child == nil {
		return false
	}
	child.SetText(value)
	return true
}

// NewLeaf builds a detached leaf element. An empty value produces an empty
// element, which serializes self-closed rather than being dropped.
func NewLeaf(name, value string) *etree.Element {
	leaf := etree.NewElement(name)
	if value != "" {
		leaf.SetText(value)
	}
	return leaf
}

// InsertCanonical inserts leaf among el's children at the position dictated
// by the canonical <parent> field ordering: immediately before the first
// sibling that ranks after it, or at the end when no such sibling exists.
func InsertCanonical(el *etree.Element, leaf *etree.Element) {
	rank := ParentChildRank(leaf.Tag)
	for _, sibling := range el.ChildElements() {
		if ParentChildRank(sibling.Tag) > rank {
			el.InsertChildAt(sibling.Index(), leaf)
			return
		}
	}
	el.AddChild(leaf)
}

// RemoveChild removes the named child element, reporting whether it existed.
func RemoveChild(el *etree.Element, name string) bool {
	child := el.SelectElement(name)
	if child == nil {
		return false
	}
	el.RemoveChild(child)
	return true
}
