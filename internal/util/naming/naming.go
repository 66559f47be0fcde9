package naming

import (
	"fmt"
	"strings"
	"time"
)

// maxNameLength is the CloudFormation stack name limit.
const maxNameLength = 128

// labPrefix is prepended when a generated name would not start with a letter.
const labPrefix = "lab-"

// LabName generates a lab name from the owner's email address, the
// template name and the current time.
//
// The email local part loses its dots and the template contributes its
// first word, lowercased. Characters that stack services reject become "-",
// runs of "-" collapse to one, and the name always starts with a letter.
func LabName(ownerEmail, templateName string, now time.Time) string {
	owner := strings.ReplaceAll(strings.SplitN(ownerEmail, "@", 2)[0], ".", "")

	var part string
	if fields := strings.Fields(templateName); len(fields) > 0 {
		part = fields[0]
	}

	name := fmt.Sprintf("%s-%s-%d", sanitize(owner), sanitize(part), now.Unix())
	name = strings.Trim(collapseDashes(name), "-")
	if !startsWithLetter(name) {
		name = labPrefix + name
	}
	if len(name) > maxNameLength {
		name = strings.TrimLeft(name[len(name)-maxNameLength:], "-")
		if !startsWithLetter(name) {
			name = labPrefix + strings.TrimLeft(name[len(labPrefix):], "-")
		}
	}
	return name
}

// WorkspaceGroup returns the workspace group name for a lab.
func WorkspaceGroup(lab string) string {
	return lab
}

// Stack returns the infrastructure stack name for a lab.
func Stack(lab string) string {
	return lab
}

// sanitize lowercases s and keeps only [a-z0-9-].
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func collapseDashes(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

func startsWithLetter(s string) bool {
	return s != "" && s[0] >= 'a' && s[0] <= 'z'
}
