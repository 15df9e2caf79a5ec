package inspect

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"seehuhn.de/go/sfnt/name"
)

// LocalizedName is a name table string and the language it is tagged with.
type LocalizedName struct {
	Value    string
	Language string
}

// fullNames returns the Windows Unicode full names, one per language, ordered
// by language tag.
func fullNames(data []byte) ([]LocalizedName, error) {
	info, err := name.Decode(data)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(info.Windows))
	for tag, table := range info.Windows {
		if table != nil && table.FullName != "" {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)

	names := make([]LocalizedName, 0, len(tags))
	for _, tag := range tags {
		names = append(names, LocalizedName{
			Value:    info.Windows[tag].FullName,
			Language: languageLabel(tag),
		})
	}
	return names, nil
}

// languageLabel renders a BCP 47 tag as "Language, Region" in English.
func languageLabel(bcp string) string {
	tag, err := language.Parse(bcp)
	if err != nil {
		return bcp
	}
	base, _ := tag.Base()
	label := display.English.Languages().Name(base)
	if label == "" {
		label = base.String()
	}
	if region, conf := tag.Region(); conf == language.Exact {
		if r := display.English.Regions().Name(region); r != "" {
			label += ", " + r
		}
	}
	return label
}
