package pomparent

// buildPlan computes the minimal edit sequence that moves the current
// parent reference to the target identity at the resolved version. Each
// field is compared independently; only differing fields produce edits, so
// re-planning an already-upgraded reference yields an empty plan.
func buildPlan(ref ParentReference, target TargetIdentity, resolvedVersion string) EditPlan {
	var plan EditPlan

	if target.GroupID != ref.GroupID {
		plan.Fields = append(plan.Fields, FieldEdit{Field: FieldGroupID, NewValue: target.GroupID})
	}
	if target.ArtifactID != ref.ArtifactID {
		plan.Fields = append(plan.Fields, FieldEdit{Field: FieldArtifactID, NewValue: target.ArtifactID})
	}
	// The comparison is against the resolved version, never the raw
	// constraint expression.
	if resolvedVersion != ref.Version {
		plan.Fields = append(plan.Fields, FieldEdit{Field: FieldVersion, NewValue: resolvedVersion})
	}

	switch {
	case ref.HasRelativePath:
		if target.HasRelativePath && target.RelativePath != ref.RelativePath {
			plan.Fields = append(plan.Fields, FieldEdit{Field: FieldRelativePath, NewValue: target.RelativePath})
		}
	case target.HasRelativePath:
		// An explicitly empty target value still inserts: it becomes an
		// empty element, which is not the same as no element.
		plan.Insert = &InsertEdit{Field: FieldRelativePath, NewValue: target.RelativePath}
	}

	return plan
}
