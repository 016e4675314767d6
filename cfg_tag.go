package cfgtree

import "strings"

// cfgTag holds the parsed information from a `cfg` struct tag.
type cfgTag struct {
	Name   string
	Named  bool // Name came from the tag rather than the Go field name.
	NoRepr bool
}

// parseCfgTag parses a raw struct tag string into a cfgTag struct.
// If the tag string is empty, it uses the provided fieldName as the default.
// A tag of "-" excludes the field, as does the norepr option.
func parseCfgTag(tagStr, fieldName string) cfgTag {
	if tagStr == "" {
		return cfgTag{Name: fieldName}
	}
	if tagStr == "-" {
		return cfgTag{Name: fieldName, NoRepr: true}
	}
	parts := strings.Split(tagStr, ",")
	tag := cfgTag{Name: strings.TrimSpace(parts[0]), Named: true}
	if tag.Name == "" {
		tag.Name = fieldName
		tag.Named = false
	}
	for _, part := range parts[1:] {
		switch strings.TrimSpace(part) {
		case "norepr":
			tag.NoRepr = true
		}
	}
	return tag
}
