package catalog

// builtin holds the curated Unicode coverage of each named subset.
var builtin = map[string][]string{
	"latin": {
		"U+0-FF",
		"U+131",
		"U+152",
		"U+153",
		"U+2BB",
		"U+2BC",
		"U+2C6",
		"U+2DA",
		"U+2DC",
		"U+300",
		"U+301",
		"U+303",
		"U+304",
		"U+308",
		"U+309",
		"U+323",
		"U+329",
		"U+2000-206F",
		"U+2074",
		"U+20AC",
		"U+2122",
		"U+2190-2193",
		"U+2212",
		"U+2215",
		"U+FEFF",
		"U+FFFD",
	},
	"latin-extended": {
		"U+0100-02AF",
		"U+0300-0301",
		"U+0303-0304",
		"U+0308-0309",
		"U+0323",
		"U+0329",
		"U+1E00-1EFF",
		"U+2020",
		"U+20A0-20AB",
		"U+20AD-20CF",
		"U+2113",
		"U+2C60-2C7F",
		"U+A720-A7FF",
	},
	"greek": {
		"U+0-FF",
		"U+0370-03FF",
		"U+2000-206F",
		"U+20AC",
		"U+2122",
		"U+2190-2193",
		"U+2212",
		"U+2215",
		"U+FEFF",
		"U+FFFD",
	},
	"greek-extended": {
		"U+0-FF",
		"U+1F00-1FFF",
		"U+2000-206F",
		"U+20AC",
		"U+2122",
		"U+2190-2193",
		"U+2212",
		"U+2215",
		"U+FEFF",
		"U+FFFD",
	},
	"cyrillic": {
		"U+0301",
		"U+0400-045F",
		"U+0490-0491",
		"U+04B0-04B1",
		"U+2116",
	},
	"cyrillic-extended": {
		"U+0460-052F",
		"U+1C80-1C88",
		"U+20B4",
		"U+2DE0-2DFF",
		"U+A640-A69F",
		"U+FE2E-FE2F",
	},
	"vietnamese": {
		"U+0102-0103",
		"U+0110-0111",
		"U+0128-0129",
		"U+0168-0169",
		"U+01A0-01A1",
		"U+01AF-01B0",
		"U+0300-0301",
		"U+0303-0304",
		"U+0308-0309",
		"U+0323",
		"U+0329",
		"U+1EA0-1EF9",
		"U+20AB",
	},
}

// builtinAliases maps the short Google Fonts style names onto catalog
// entries.
var builtinAliases = map[string]string{
	"latin-ext":    "latin-extended",
	"greek-ext":    "greek-extended",
	"cyrillic-ext": "cyrillic-extended",
}
