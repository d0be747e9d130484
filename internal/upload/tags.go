package upload

import "strings"

// AddTag appends the trimmed input unless it is blank or already present.
func AddTag(tags []string, input string) []string {
	tag := strings.TrimSpace(input)
	if tag == "" {
		return tags
	}
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}

func RemoveTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

// SuggestionLimit caps how many suggestions the form shows.
const SuggestionLimit = 15

// SuggestTags lists the available tag names containing input, ignoring
// case, that are not selected yet. An empty input matches every name.
func SuggestTags(available, selected []string, input string) []string {
	needle := strings.ToLower(strings.TrimSpace(input))
	taken := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		taken[s] = struct{}{}
	}

	out := []string{}
	for _, name := range available {
		if _, ok := taken[name]; ok {
			continue
		}
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
		}
		if len(out) == SuggestionLimit {
			break
		}
	}
	return out
}
