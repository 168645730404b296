package metadata

import "encoding/xml"

// Metadata represents a maven-metadata.xml document for one
// group/artifact coordinate.
type Metadata struct {
	XMLName    xml.Name   `xml:"metadata"`
	GroupID    string     `xml:"groupId"`
	ArtifactID string     `xml:"artifactId"`
	Versioning Versioning `xml:"versioning"`
}

// Versioning holds the version listing of a metadata document.
type Versioning struct {
	// Latest is the most recently deployed version, including snapshots.
	Latest string `xml:"latest"`

	// Release is the most recently deployed non-snapshot version.
	Release string `xml:"release"`

	// Versions lists every published version, oldest first.
	Versions []string `xml:"versions>version"`

	// LastUpdated is the deployment timestamp in yyyyMMddHHmmss form.
	LastUpdated string `xml:"lastUpdated"`
}
