// Package skills merges new skill names into a CV document's skill groups.
package skills

import (
	"strings"

	"github.com/noor/cv-tailor/internal/document"
)

// defaultCategory is the preferred target group when the caller does not
// name one.
const defaultCategory = "Technical Skills"

// Merge adds the given skill names to one of the document's skill groups and
// returns the names that were actually added. The target group is chosen in
// order of preference:
//
//  1. the first group whose category contains preferredCategory
//     (case-insensitive substring match),
//  2. the first group whose category contains "technical",
//  3. the first group.
//
// Names are trimmed before insertion; empty names and names already present
// in the target group (exact match) are skipped, including duplicates within
// the same call. If the document has no skill groups at all, nothing is
// added.
func Merge(d *document.Document, names []string, preferredCategory string) []string {
	if len(d.Skills) == 0 {
		return nil
	}
	if preferredCategory == "" {
		preferredCategory = defaultCategory
	}

	group := selectGroup(d.Skills, preferredCategory)

	existing := make(map[string]struct{}, len(group.Items))
	for _, item := range group.Items {
		existing[item] = struct{}{}
	}

	var added []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := existing[name]; ok {
			continue
		}
		group.Items = append(group.Items, name)
		existing[name] = struct{}{}
		added = append(added, name)
	}
	return added
}

// selectGroup picks the group that should receive new skills.
func selectGroup(groups []document.SkillGroup, preferred string) *document.SkillGroup {
	preferred = strings.ToLower(preferred)
	for i := range groups {
		if strings.Contains(strings.ToLower(groups[i].Category), preferred) {
			return &groups[i]
		}
	}
	for i := range groups {
		if strings.Contains(strings.ToLower(groups[i].Category), "technical") {
			return &groups[i]
		}
	}
	return &groups[0]
}
