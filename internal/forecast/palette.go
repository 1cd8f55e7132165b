package forecast

// Palette defines the color scheme for a weather condition + time of day.
type Palette struct {
	// Background is the main page background color
	Background string
	// Card is the background for cards/panels
	Card string
	// CardBorder is the border/highlight for cards
	CardBorder string
	Text       string
	TextMuted  string
	// Accent colours the chart line and links
	Accent string
	// AccentAlt highlights the current temperature
	AccentAlt string
}

// DefaultPalette is the fallback dark theme.
var DefaultPalette = Palette{
	Background: "#10121c",
	Card:       "#1b1e2e",
	CardBorder: "#2c3050",
	Text:       "#ececf2",
	TextMuted:  "#7a7f96",
	Accent:     "#4fb3e8",
	AccentAlt:  "#f2784b",
}

// nightPalette is shared by every condition after dark.
var nightPalette = Palette{
	Background: "#080a12",
	Card:       "#121522",
	CardBorder: "#222638",
	Text:       "#d8dce8",
	TextMuted:  "#586078",
	Accent:     "#7a9ad0",
	AccentAlt:  "#d88060",
}

// palettes maps condition+time keys to curated color schemes. Missing
// combinations fall back to the condition's day palette, then the default.
var palettes = map[string]Palette{
	"clear_warm_day": {
		Background: "#f6efe2", // sand
		Card:       "#ffffff",
		CardBorder: "#e4d6bc",
		Text:       "#2b241a",
		TextMuted:  "#76664e",
		Accent:     "#d2731c",
		AccentAlt:  "#b8401a",
	},
	"clear_warm_dawn": {
		Background: "#2c231c",
		Card:       "#3b3128",
		CardBorder: "#56473a",
		Text:       "#fff6ec",
		TextMuted:  "#a8937c",
		Accent:     "#ffad66",
		AccentAlt:  "#ff6a46",
	},
	"clear_warm_dusk": {
		Background: "#33241c",
		Card:       "#44342a",
		CardBorder: "#604536",
		Text:       "#fff0e2",
		TextMuted:  "#a88466",
		Accent:     "#ff8a48",
		AccentAlt:  "#e85a26",
	},
	"clear_cool_day": {
		Background: "#e9f1f8", // pale sky
		Card:       "#ffffff",
		CardBorder: "#c8d8e8",
		Text:       "#16222e",
		TextMuted:  "#50667c",
		Accent:     "#2a7fc0",
		AccentAlt:  "#d06030",
	},
	"clear_cool_dawn": {
		Background: "#1c1a24",
		Card:       "#2a2834",
		CardBorder: "#3c3a4c",
		Text:       "#f2f0fa",
		TextMuted:  "#8a88a4",
		Accent:     "#8aaede",
		AccentAlt:  "#e89a7a",
	},
	"partly_cloudy_day": {
		Background: "#e6ebf0",
		Card:       "#f8fafc",
		CardBorder: "#cdd6e0",
		Text:       "#1c242c",
		TextMuted:  "#5a6878",
		Accent:     "#3a84b8",
		AccentAlt:  "#c86a3a",
	},
	"mostly_cloudy_day": {
		Background: "#d4d9de", // overcast grey
		Card:       "#e6eaee",
		CardBorder: "#b8c0c8",
		Text:       "#1e2328",
		TextMuted:  "#56606a",
		Accent:     "#4a7494",
		AccentAlt:  "#b06a4a",
	},
	"rain_day": {
		Background: "#3a4654", // slate
		Card:       "#485666",
		CardBorder: "#5a6a7c",
		Text:       "#eef2f6",
		TextMuted:  "#a4b2c2",
		Accent:     "#7cc0ec",
		AccentAlt:  "#f0a070",
	},
	"storm_day": {
		Background: "#22262e",
		Card:       "#30353f",
		CardBorder: "#444a58",
		Text:       "#eceef2",
		TextMuted:  "#8c94a4",
		Accent:     "#f0c850", // lightning
		AccentAlt:  "#e86a4a",
	},
	"snow_day": {
		Background: "#f2f5f8",
		Card:       "#ffffff",
		CardBorder: "#d8e0e8",
		Text:       "#18202a",
		TextMuted:  "#5a6878",
		Accent:     "#3a8ad0",
		AccentAlt:  "#c05a4a",
	},
	"fog_day": {
		Background: "#c8ccc8", // haze
		Card:       "#dcdfdc",
		CardBorder: "#b4b8b4",
		Text:       "#222622",
		TextMuted:  "#5e645e",
		Accent:     "#5a7a8a",
		AccentAlt:  "#a86a50",
	},
	"hot_day": {
		Background: "#fbe8d2",
		Card:       "#fff7ee",
		CardBorder: "#f0ccaa",
		Text:       "#301c0e",
		TextMuted:  "#80583a",
		Accent:     "#e0621a",
		AccentAlt:  "#c42a12",
	},
	"frost_day": {
		Background: "#e4ecf4", // ice
		Card:       "#f4f8fc",
		CardBorder: "#c4d4e4",
		Text:       "#102030",
		TextMuted:  "#406080",
		Accent:     "#2080b8",
		AccentAlt:  "#c06040",
	},
}

// GetPalette returns the color palette for a weather condition and time of day.
func GetPalette(condition WeatherCondition, tod TimeOfDay) Palette {
	if tod == TimeNight {
		return nightPalette
	}
	if p, ok := palettes[ConditionWithTime(condition, tod)]; ok {
		return p
	}
	if p, ok := palettes[ConditionWithTime(condition, TimeDay)]; ok {
		return p
	}
	return DefaultPalette
}
