// Package analyzer classifies a bounty issue by complexity, effort, risks and dependencies.
//
// Everything here is a deterministic keyword heuristic over the issue title and body.
package analyzer

import "strings"

var bulletMarkers = []string{"- ", "* ", "1. "}

var obligationMarkers = []string{"should", "must", "need to"}

// ExtractRequirements pulls requirement statements out of an issue body.
//
// Bulleted lines contribute their text without the marker. Any line that uses
// "should", "must" or "need to" is added as a whole as well, so a bulleted
// line with one of those words is counted twice.
func ExtractRequirements(body string) []string {
	var requirements []string

	for _, raw := range strings.Split(body, "\n") {
		line := strings.ToLower(strings.TrimSpace(raw))

		for _, marker := range bulletMarkers {
			if strings.HasPrefix(line, marker) {
				req := strings.TrimPrefix(line, marker)
				if len(req) > 3 {
					requirements = append(requirements, req)
				}
				break
			}
		}

		for _, marker := range obligationMarkers {
			if strings.Contains(line, marker) {
				requirements = append(requirements, line)
				break
			}
		}
	}

	return requirements
}
