package pomparent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pomtools/go-pomparent/metadata"
	"github.com/pomtools/go-pomparent/pomxml"
)

const basePom = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <parent>
    <groupId>com.example</groupId>
    <artifactId>example-parent</artifactId>
    <version>1.2.0</version>
  </parent>
  <groupId>com.example</groupId>
  <artifactId>demo</artifactId>
  <version>0.1.0</version>
</project>`

// metadataServer serves maven-metadata.xml for a fixed set of coordinates
// and counts requests so tests can assert the session cache bound.
func metadataServer(t *testing.T, listings map[string][]string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		for key, vers := range listings {
			groupID, artifactID, _ := strings.Cut(key, ":")
			path := "/" + strings.ReplaceAll(groupID, ".", "/") + "/" + artifactID + "/maven-metadata.xml"
			if r.URL.Path != path {
				continue
			}
			var b strings.Builder
			b.WriteString("<metadata><groupId>" + groupID + "</groupId><artifactId>" + artifactID + "</artifactId><versioning><versions>")
			for _, v := range vers {
				b.WriteString("<version>" + v + "</version>")
			}
			b.WriteString("</versions></versioning></metadata>")
			fmt.Fprint(w, b.String())
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func mustParse(t *testing.T, xml string) *pomxml.Document {
	t.Helper()
	doc, err := pomxml.ParseBytes([]byte(xml))
	if err != nil {
		t.Fatalf("parse pom: %v", err)
	}
	return doc
}

func TestUpgradeSelectsHighestEligibleVersion(t *testing.T) {
	srv, _ := metadataServer(t, map[string][]string{
		"com.example:example-parent": {"1.2.0", "1.3.0", "1.4.0", "2.0.0"},
	})

	doc := mustParse(t, basePom)
	empty := ""
	res, err := Upgrade(context.Background(), doc, UpgradeSpec{
		OldGroupID:      "com.example",
		OldArtifactID:   "example-parent",
		NewVersion:      "1.x",
		NewRelativePath: &empty,
	}, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}

	if res.Outcome != OutcomeApplied {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeApplied)
	}
	if res.ResolvedVersion != "1.4.0" {
		t.Errorf("ResolvedVersion = %q, want %q", res.ResolvedVersion, "1.4.0")
	}

	parent := doc.Parent()
	if got, _ := pomxml.ChildValue(parent, "version"); got != "1.4.0" {
		t.Errorf("parent version = %q, want %q", got, "1.4.0")
	}
	rel, present := pomxml.ChildValue(parent, "relativePath")
	if !present {
		t.Fatal("relativePath element was not inserted")
	}
	if rel != "" {
		t.Errorf("relativePath = %q, want empty", rel)
	}
	if !strings.Contains(doc.String(), "<relativePath/>") {
		t.Errorf("serialized document lacks self-closing relativePath:\n%s", doc.String())
	}
}

func TestUpgradeNoEligibleVersionLeavesDocumentUntouched(t *testing.T) {
	srv, _ := metadataServer(t, map[string][]string{
		"com.example:example-parent": {"1.2.0"},
	})

	doc := mustParse(t, basePom)
	before := doc.String()
	res, err := Upgrade(context.Background(), doc, UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "example-parent",
		NewVersion:    "1.x",
	}, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}

	if res.Outcome != OutcomeNoChange {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeNoChange)
	}
	if res.Changed() {
		t.Error("Changed() = true, want false")
	}
	if doc.String() != before {
		t.Errorf("document mutated:\nbefore: %s\nafter:  %s", before, doc.String())
	}
}

func TestUpgradeIsIdempotent(t *testing.T) {
	srv, _ := metadataServer(t, map[string][]string{
		"com.example:example-parent": {"1.2.0", "1.4.0"},
	})

	spec := UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "example-parent",
		NewVersion:    "1.x",
	}

	doc := mustParse(t, basePom)
	first, err := Upgrade(context.Background(), doc, spec, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("first Upgrade() error = %v", err)
	}
	if first.Outcome != OutcomeApplied {
		t.Fatalf("first Outcome = %v, want %v", first.Outcome, OutcomeApplied)
	}

	after := doc.String()
	second, err := Upgrade(context.Background(), doc, spec, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("second Upgrade() error = %v", err)
	}
	if second.Outcome != OutcomeNoChange {
		t.Errorf("second Outcome = %v, want %v", second.Outcome, OutcomeNoChange)
	}
	if doc.String() != after {
		t.Error("second run mutated an already-upgraded document")
	}
}

func TestUpgradeUnmatchedSkipsNetwork(t *testing.T) {
	srv, requests := metadataServer(t, nil)

	tests := []struct {
		name string
		spec UpgradeSpec
	}{
		{
			name: "group mismatch",
			spec: UpgradeSpec{OldGroupID: "org.other", OldArtifactID: "example-parent", NewVersion: "1.x"},
		},
		{
			name: "artifact mismatch",
			spec: UpgradeSpec{OldGroupID: "com.example", OldArtifactID: "different-parent", NewVersion: "1.x"},
		},
		{
			name: "relative path mismatch",
			spec: func() UpgradeSpec {
				rel := "../platform"
				return UpgradeSpec{OldGroupID: "com.example", OldArtifactID: "example-parent", OldRelativePath: &rel, NewVersion: "1.x"}
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, basePom)
			res, err := Upgrade(context.Background(), doc, tt.spec, WithRepositories(srv.URL))
			if err != nil {
				t.Fatalf("Upgrade() error = %v", err)
			}
			if res.Outcome != OutcomeUnmatched {
				t.Errorf("Outcome = %v, want %v", res.Outcome, OutcomeUnmatched)
			}
		})
	}

	if n := requests.Load(); n != 0 {
		t.Errorf("unmatched documents triggered %d metadata requests, want 0", n)
	}
}

func TestUpgradeNoParentElement(t *testing.T) {
	srv, requests := metadataServer(t, nil)

	doc := mustParse(t, `<project><groupId>com.example</groupId><artifactId>standalone</artifactId></project>`)
	res, err := Upgrade(context.Background(), doc, UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "*",
		NewVersion:    "1.x",
	}, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if res.Outcome != OutcomeUnmatched {
		t.Errorf("Outcome = %v, want %v", res.Outcome, OutcomeUnmatched)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("parentless document triggered %d metadata requests, want 0", n)
	}
}

func TestUpgradeGlobPatternsMatch(t *testing.T) {
	srv, _ := metadataServer(t, map[string][]string{
		"com.example:example-parent": {"1.2.0", "1.4.0"},
	})

	doc := mustParse(t, basePom)
	res, err := Upgrade(context.Background(), doc, UpgradeSpec{
		OldGroupID:    "com.*",
		OldArtifactID: "*-parent",
		NewVersion:    "1.x",
	}, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if res.Outcome != OutcomeApplied {
		t.Errorf("Outcome = %v, want %v", res.Outcome, OutcomeApplied)
	}
}

func TestUpgradeCachesMetadataPerSession(t *testing.T) {
	srv, requests := metadataServer(t, map[string][]string{
		"com.example:example-parent": {"1.2.0", "1.4.0"},
	})

	doc := mustParse(t, basePom)
	if _, err := Upgrade(context.Background(), doc, UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "example-parent",
		NewVersion:    "1.x",
	}, WithRepositories(srv.URL)); err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}

	if n := requests.Load(); n != 1 {
		t.Errorf("session made %d metadata requests, want 1", n)
	}
}

func TestUpgradeIdentityChange(t *testing.T) {
	srv, _ := metadataServer(t, map[string][]string{
		"org.adopted:new-parent": {"3.0.0", "3.1.0"},
	})

	doc := mustParse(t, basePom)
	res, err := Upgrade(context.Background(), doc, UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "example-parent",
		NewGroupID:    "org.adopted",
		NewArtifactID: "new-parent",
		NewVersion:    "3.x",
	}, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if res.Outcome != OutcomeApplied {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeApplied)
	}

	parent := doc.Parent()
	if got, _ := pomxml.ChildValue(parent, "groupId"); got != "org.adopted" {
		t.Errorf("groupId = %q, want %q", got, "org.adopted")
	}
	if got, _ := pomxml.ChildValue(parent, "artifactId"); got != "new-parent" {
		t.Errorf("artifactId = %q, want %q", got, "new-parent")
	}
	if got, _ := pomxml.ChildValue(parent, "version"); got != "3.1.0" {
		t.Errorf("version = %q, want %q", got, "3.1.0")
	}
}

func TestUpgradeDowngradeGating(t *testing.T) {
	pom := strings.Replace(basePom, "<version>1.2.0</version>", "<version>2.0.0</version>", 1)
	spec := UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "example-parent",
		NewVersion:    "1.x",
	}

	t.Run("refused by default", func(t *testing.T) {
		srv, _ := metadataServer(t, map[string][]string{
			"com.example:example-parent": {"1.2.0", "1.4.0", "2.0.0"},
		})
		doc := mustParse(t, pom)
		res, err := Upgrade(context.Background(), doc, spec, WithRepositories(srv.URL))
		if err != nil {
			t.Fatalf("Upgrade() error = %v", err)
		}
		if res.Outcome != OutcomeNoChange {
			t.Errorf("Outcome = %v, want %v", res.Outcome, OutcomeNoChange)
		}
	})

	t.Run("allowed when opted in", func(t *testing.T) {
		srv, _ := metadataServer(t, map[string][]string{
			"com.example:example-parent": {"1.2.0", "1.4.0", "2.0.0"},
		})
		doc := mustParse(t, pom)
		downgrade := spec
		downgrade.AllowDowngrades = true
		res, err := Upgrade(context.Background(), doc, downgrade, WithRepositories(srv.URL))
		if err != nil {
			t.Fatalf("Upgrade() error = %v", err)
		}
		if res.Outcome != OutcomeApplied {
			t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeApplied)
		}
		if res.ResolvedVersion != "1.4.0" {
			t.Errorf("ResolvedVersion = %q, want %q", res.ResolvedVersion, "1.4.0")
		}
	})
}

func TestUpgradeMetadataUnavailableAnnotatesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ledger := metadata.NewFailures()
	doc := mustParse(t, basePom)
	res, err := Upgrade(context.Background(), doc, UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "example-parent",
		NewVersion:    "1.x",
	}, WithRepositories(srv.URL), WithFailures(ledger))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}

	if res.Outcome != OutcomeWarned {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeWarned)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %d, want 1", len(res.Warnings))
	}
	if got := doc.Warnings(); len(got) != 1 || got[0] != res.Warnings[0] {
		t.Errorf("document warnings = %v, want %v", got, res.Warnings)
	}
	if got, _ := pomxml.ChildValue(doc.Parent(), "version"); got != "1.2.0" {
		t.Errorf("version = %q, want untouched %q", got, "1.2.0")
	}
	if ledger.Len() != 1 {
		t.Errorf("failure ledger has %d rows, want 1", ledger.Len())
	}
}

func TestUpgradeMetadataFailureCachedForSession(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := metadata.NewClient(srv.URL)
	sess, err := newSession(UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "example-parent",
		NewVersion:    "1.x",
	}, WithMetadataFetcher(client))
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, _, err := sess.resolver.resolve(context.Background(), "com.example", "example-parent", "1.2.0"); err == nil {
			t.Fatal("resolve() succeeded against a 404 repository")
		}
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("failed coordinate fetched %d times in one session, want 1", n)
	}
}

func TestUpgradeStripsRedundantDependencyVersions(t *testing.T) {
	pom := `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <parent>
    <groupId>com.example</groupId>
    <artifactId>example-parent</artifactId>
    <version>1.2.0</version>
  </parent>
  <artifactId>demo</artifactId>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>org.lib</groupId>
        <artifactId>core</artifactId>
        <version>5.0.0</version>
      </dependency>
      <dependency>
        <groupId>org.lib</groupId>
        <artifactId>extras</artifactId>
        <version>5.0.0</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
  <dependencies>
    <dependency>
      <groupId>org.lib</groupId>
      <artifactId>core</artifactId>
      <version>5.0.0</version>
    </dependency>
    <dependency>
      <groupId>org.lib</groupId>
      <artifactId>extras</artifactId>
      <version>5.0.0</version>
    </dependency>
  </dependencies>
</project>`

	srv, _ := metadataServer(t, map[string][]string{
		"com.example:example-parent": {"1.2.0", "1.4.0"},
	})

	doc := mustParse(t, pom)
	res, err := Upgrade(context.Background(), doc, UpgradeSpec{
		OldGroupID:     "com.example",
		OldArtifactID:  "example-parent",
		NewVersion:     "1.x",
		RetainVersions: []string{"org.lib:extras"},
	}, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if res.Outcome != OutcomeApplied {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeApplied)
	}

	byKey := make(map[string]pomxml.Dependency)
	for _, dep := range doc.Dependencies() {
		byKey[dep.Key()] = dep
	}
	if dep := byKey["org.lib:core"]; dep.Version != "" {
		t.Errorf("org.lib:core kept explicit version %q, want it stripped", dep.Version)
	}
	if dep := byKey["org.lib:extras"]; dep.Version != "5.0.0" {
		t.Errorf("org.lib:extras version = %q, want retained %q", dep.Version, "5.0.0")
	}
}

func TestUpgradeInvalidSpec(t *testing.T) {
	doc := mustParse(t, basePom)
	_, err := Upgrade(context.Background(), doc, UpgradeSpec{
		NewVersion:     "not a constraint [",
		RetainVersions: []string{"missing-colon", "org.ok:fine"},
	})
	if err == nil {
		t.Fatal("Upgrade() accepted an invalid spec")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	// Missing group, missing artifact, bad constraint, bad retain entry.
	if len(verr.Issues) != 4 {
		t.Errorf("collected %d issues, want 4: %v", len(verr.Issues), verr.Issues)
	}
}

func TestUpgradeFileWritesBackOnlyOnChange(t *testing.T) {
	srv, _ := metadataServer(t, map[string][]string{
		"com.example:example-parent": {"1.2.0", "1.4.0"},
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	if err := os.WriteFile(path, []byte(basePom), 0o644); err != nil {
		t.Fatal(err)
	}

	spec := UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "example-parent",
		NewVersion:    "1.x",
	}

	res, err := UpgradeFile(context.Background(), path, spec, WithRepositories(srv.URL), WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("UpgradeFile() error = %v", err)
	}
	if res.Outcome != OutcomeApplied {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeApplied)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<version>1.4.0</version>") {
		t.Errorf("file not rewritten with upgraded version:\n%s", data)
	}

	// Second run resolves to the same version; the file must not change.
	res, err = UpgradeFile(context.Background(), path, spec, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("second UpgradeFile() error = %v", err)
	}
	if res.Outcome != OutcomeNoChange {
		t.Errorf("second Outcome = %v, want %v", res.Outcome, OutcomeNoChange)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(data) {
		t.Error("second run rewrote an unchanged file")
	}
}

func TestUpgradeVersionProperty(t *testing.T) {
	// A property placeholder is not a comparable version; resolution treats
	// it as a zero baseline and still selects the constraint's best match.
	pom := strings.Replace(basePom, "<version>1.2.0</version>", "<version>${revision}</version>", 1)
	srv, _ := metadataServer(t, map[string][]string{
		"com.example:example-parent": {"1.2.0", "1.4.0"},
	})

	doc := mustParse(t, pom)
	res, err := Upgrade(context.Background(), doc, UpgradeSpec{
		OldGroupID:    "com.example",
		OldArtifactID: "example-parent",
		NewVersion:    "1.x",
	}, WithRepositories(srv.URL))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if res.Outcome != OutcomeApplied {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, OutcomeApplied)
	}
	if got, _ := pomxml.ChildValue(doc.Parent(), "version"); got != "1.4.0" {
		t.Errorf("version = %q, want %q", got, "1.4.0")
	}
}
