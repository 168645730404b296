// Command pomparent rewrites the parent reference of Maven pom.xml files.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	pomparent "github.com/pomtools/go-pomparent"
)

type flags struct {
	oldGroupID      string
	newGroupID      string
	oldArtifactID   string
	newArtifactID   string
	newVersion      string
	versionPattern  string
	oldRelativePath string
	newRelativePath string
	allowDowngrades bool
	retainVersions  []string
	repositories    []string
	timeout         time.Duration
	verbose         bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "pomparent [flags] pom.xml...",
		Short: "Upgrade the parent reference of Maven pom.xml files",
		Long: `pomparent matches the <parent> element of each given pom.xml against
the old group and artifact patterns, resolves the version constraint
against repository metadata, and rewrites only the fields that differ.
Files that do not match, or are already current, are left untouched.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := pomparent.UpgradeSpec{
				OldGroupID:      f.oldGroupID,
				NewGroupID:      f.newGroupID,
				OldArtifactID:   f.oldArtifactID,
				NewArtifactID:   f.newArtifactID,
				NewVersion:      f.newVersion,
				VersionPattern:  f.versionPattern,
				AllowDowngrades: f.allowDowngrades,
				RetainVersions:  f.retainVersions,
			}
			// Pointer fields distinguish "flag not given" from an explicit
			// empty value, so Changed() has to be consulted.
			if cmd.Flags().Changed("old-relative-path") {
				spec.OldRelativePath = &f.oldRelativePath
			}
			if cmd.Flags().Changed("new-relative-path") {
				spec.NewRelativePath = &f.newRelativePath
			}

			opts := []pomparent.Option{
				pomparent.WithRepositories(f.repositories...),
				pomparent.WithTimeout(f.timeout),
			}
			if f.verbose {
				logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
				opts = append(opts, pomparent.WithLogger(logger))
			}

			for _, path := range args {
				res, err := pomparent.UpgradeFile(cmd.Context(), path, spec, opts...)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				line := res.Outcome.String()
				if res.ResolvedVersion != "" {
					line += " " + res.ResolvedVersion
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, line)
				for _, warning := range res.Warnings {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: warning: %s\n", path, warning)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.oldGroupID, "old-group-id", "", "group id pattern of the parent to replace (required)")
	cmd.Flags().StringVar(&f.newGroupID, "new-group-id", "", "group id to adopt (defaults to the current one)")
	cmd.Flags().StringVar(&f.oldArtifactID, "old-artifact-id", "", "artifact id pattern of the parent to replace (required)")
	cmd.Flags().StringVar(&f.newArtifactID, "new-artifact-id", "", "artifact id to adopt (defaults to the current one)")
	cmd.Flags().StringVar(&f.newVersion, "new-version", "", "exact version or version selector, e.g. 1.4.0 or 1.x (required)")
	cmd.Flags().StringVar(&f.versionPattern, "version-pattern", "", "version suffix pattern, e.g. -jre")
	cmd.Flags().StringVar(&f.oldRelativePath, "old-relative-path", "", "additional pattern the current relativePath must match")
	cmd.Flags().StringVar(&f.newRelativePath, "new-relative-path", "", "relativePath to adopt (empty inserts an empty element)")
	cmd.Flags().BoolVar(&f.allowDowngrades, "allow-downgrades", false, "permit selecting a version older than the current one")
	cmd.Flags().StringSliceVar(&f.retainVersions, "retain-versions", nil, "group:artifact[:version] coordinates whose explicit versions must survive")
	cmd.Flags().StringSliceVar(&f.repositories, "repository", nil, "repository base URL, repeatable, in priority order (default Maven Central)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 15*time.Second, "HTTP request timeout for metadata fetches")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log resolution details to stderr")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pomparent:", err)
		os.Exit(1)
	}
}
