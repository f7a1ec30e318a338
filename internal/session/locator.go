package session

import (
	"fmt"
	"sort"
	"strings"

	"appdriver/internal/entity"
	"appdriver/pkg/logg"

	"go.uber.org/zap"
)

const fullPhraseScore = 10

// GenerateLocator scores every element in the current snapshot against a
// free-text description and returns ranked candidates, best first. Ties keep
// snapshot discovery order. Callers try each candidate's selectors top-down.
func (s *Session) GenerateLocator(description string) ([]entity.LocatorCandidate, error) {
	const op = "GenerateLocator"
	logger := s.logger.With(zap.String(logg.Operation, op))

	snap, err := s.ensureSnapshot(op)
	if err != nil {
		return nil, err
	}

	phrase := strings.ToLower(strings.TrimSpace(description))
	tokens := strings.Fields(phrase)

	candidates := make([]entity.LocatorCandidate, 0, len(snap.Refs))

	for _, ref := range snap.Refs {
		desc := snap.Elements[ref]

		score := scoreElement(desc, phrase, tokens)
		if score == 0 {
			continue
		}

		candidates = append(candidates, entity.LocatorCandidate{
			Reference: ref,
			Score:     score,
			Selectors: s.buildSelectors(desc),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	logger.Debug("Locator candidates ranked", zap.Int("candidates", len(candidates)))

	return candidates, nil
}

func scoreElement(desc entity.ElementDescriptor, phrase string, tokens []string) int {
	text := strings.ToLower(desc.Text)
	id := strings.ToLower(desc.Attributes["id"])
	name := strings.ToLower(desc.Attributes["name"])
	ariaLabel := strings.ToLower(desc.AriaLabel)
	role := strings.ToLower(desc.Role)

	score := 0

	if phrase != "" && text != "" && strings.Contains(text, phrase) {
		score += fullPhraseScore
	}

	for _, token := range tokens {
		if text != "" && strings.Contains(text, token) {
			score += 2
		}

		if id != "" && strings.Contains(id, token) {
			score += 2
		}

		if name != "" && strings.Contains(name, token) {
			score += 2
		}

		if ariaLabel != "" && strings.Contains(ariaLabel, token) {
			score += 3
		}

		if role != "" && strings.Contains(role, token) {
			score += 3
		}
	}

	return score
}

// buildSelectors emits candidate selectors in fixed preference order,
// omitting any strategy whose underlying attribute is absent.
func (s *Session) buildSelectors(desc entity.ElementDescriptor) []string {
	selectors := make([]string, 0, 7)

	if testID := desc.Attributes["data-testid"]; testID != "" {
		selectors = append(selectors, fmt.Sprintf(`[data-testid=%q]`, testID))
	}

	if desc.AriaLabel != "" {
		selectors = append(selectors, fmt.Sprintf(`[aria-label=%q]`, desc.AriaLabel))
	}

	if id := desc.Attributes["id"]; id != "" {
		selectors = append(selectors, "#"+id)
	}

	if name := desc.Attributes["name"]; name != "" {
		selectors = append(selectors, fmt.Sprintf(`[name=%q]`, name))
	}

	if desc.Role != "" {
		selectors = append(selectors, fmt.Sprintf(`[role=%q]`, desc.Role))
	}

	if desc.Text != "" {
		selectors = append(selectors, fmt.Sprintf(`%s:has-text(%q)`, desc.TagName, truncate(desc.Text, s.config.SessionConfig.ResolveTextLimit)))
	}

	if class := desc.Attributes["class"]; class != "" {
		if fields := strings.Fields(class); len(fields) > 0 {
			selectors = append(selectors, desc.TagName+"."+fields[0])
		}
	}

	return selectors
}
