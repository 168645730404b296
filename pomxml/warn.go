package pomxml

import (
	"strings"

	"github.com/beevik/etree"
)

// Warning markers follow the rewrite-style "~~(message)~~>" comment form so
// they survive serialization and stand out in a diff.
const (
	warnPrefix = "~~("
	warnSuffix = ")~~>"
)

// Warn annotates el with a warning marker comment inserted directly before
// it. The document itself stays otherwise untouched; annotating never fails.
func Warn(el *etree.Element, message string) {
	parent := el.Parent()
	if parent == nil {
		return
	}
	comment := etree.NewComment(warnPrefix + message + warnSuffix)
	parent.InsertChildAt(el.Index(), comment)
}

// Warnings returns the messages of all warning marker comments in the
// document, in document order.
func (d *Document) Warnings() []string {
	var messages []string
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, token := range el.Child {
			switch t := token.(type) {
			case *etree.Comment:
				data := strings.TrimSpace(t.Data)
				if strings.HasPrefix(data, warnPrefix) && strings.HasSuffix(data, warnSuffix) {
					messages = append(messages, data[len(warnPrefix):len(data)-len(warnSuffix)])
				}
			case *etree.Element:
				walk(t)
			}
		}
	}
	if root := d.Project(); root != nil {
		walk(root)
	}
	return messages
}
