package settings

import (
	"sort"
	"strings"
	"unicode"

	"github.com/GoMLSettings/GoMLSettings/internal/config"
)

const (
	defaultPageIcon = "cog"
	defaultPageSort = 99
)

// PageDescriptor describes one settings page for a UI collaborator. The
// per-group differences are pure data, so pages come out of the config
// registry instead of generated code.
type PageDescriptor struct {
	Group string
	Label string
	Icon  string
	Slug  string
	Sort  int
}

// BuildPages turns the configured group registry into a stable, sorted
// list of page descriptors. Missing labels fall back to a title-cased
// group name, missing icons and sort weights to defaults.
func BuildPages(groups map[string]config.Group) []PageDescriptor {
	pages := make([]PageDescriptor, 0, len(groups))

	for group, desc := range groups {
		label := desc.Label
		if label == "" {
			label = titleCase(group)
		}

		icon := desc.Icon
		if icon == "" {
			icon = defaultPageIcon
		}

		sortWeight := desc.Sort
		if sortWeight == 0 {
			sortWeight = defaultPageSort
		}

		pages = append(pages, PageDescriptor{
			Group: group,
			Label: label,
			Icon:  icon,
			Slug:  "manage-settings/" + group,
			Sort:  sortWeight,
		})
	}

	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Sort != pages[j].Sort {
			return pages[i].Sort < pages[j].Sort
		}

		return pages[i].Group < pages[j].Group
	})

	return pages
}

func titleCase(group string) string {
	label := strings.NewReplacer("_", " ", "-", " ").Replace(group)
	runes := []rune(label)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}

	return string(runes)
}
