// Package pomxml provides a mutable document model for Maven pom.xml files.
//
// The model is a thin layer over an ordered XML element tree. It exposes the
// accessors the upgrade planner needs (child lookup, leaf construction,
// position-aware insertion), the canonical child ordering of the <parent>
// element, dependency and dependency-management views used by the cleanup
// passes, and warning annotations rendered as marker comments so that a
// failed resolution stays visible in the written document.
//
// Path expressions used by the tag rename utility follow the etree path
// syntax, a restricted subset of XPath.
package pomxml
