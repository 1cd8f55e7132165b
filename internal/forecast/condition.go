package forecast

import (
	"strings"
	"time"
)

// WeatherCondition is a coarse weather state used to pick a colour scheme.
type WeatherCondition string

const (
	ConditionClearWarm    WeatherCondition = "clear_warm"
	ConditionClearCool    WeatherCondition = "clear_cool"
	ConditionPartlyCloudy WeatherCondition = "partly_cloudy"
	ConditionMostlyCloudy WeatherCondition = "mostly_cloudy"
	ConditionRain         WeatherCondition = "rain"
	ConditionStorm        WeatherCondition = "storm"
	ConditionSnow         WeatherCondition = "snow"
	ConditionFog          WeatherCondition = "fog"
	ConditionHot          WeatherCondition = "hot"
	ConditionFrost        WeatherCondition = "frost"
)

// TimeOfDay is the lighting period.
type TimeOfDay string

const (
	TimeDay   TimeOfDay = "day"
	TimeDusk  TimeOfDay = "dusk"
	TimeNight TimeOfDay = "night"
	TimeDawn  TimeOfDay = "dawn"
)

// twilight is how long either side of sunrise or sunset counts as dawn or dusk.
const twilight = 45 * time.Minute

// ConditionFromIcon maps an OpenWeatherMap icon code ("01d", "10n", ...) and
// the current temperature to a condition.
func ConditionFromIcon(icon string, tempC float64) WeatherCondition {
	// Temperature extremes take priority
	if tempC >= 35 {
		return ConditionHot
	}
	if tempC <= 2 && !strings.HasPrefix(icon, "13") {
		return ConditionFrost
	}

	switch iconGroup(icon) {
	case "02", "03":
		return ConditionPartlyCloudy
	case "04":
		return ConditionMostlyCloudy
	case "09", "10":
		return ConditionRain
	case "11":
		return ConditionStorm
	case "13":
		return ConditionSnow
	case "50":
		return ConditionFog
	}

	if tempC >= 25 {
		return ConditionClearWarm
	}
	return ConditionClearCool
}

func iconGroup(icon string) string {
	if len(icon) < 2 {
		return ""
	}
	return icon[:2]
}

// TimeOfDayFromIcon reads the day/night suffix of an icon code. Codes
// without a recognised suffix count as day.
func TimeOfDayFromIcon(icon string) TimeOfDay {
	if strings.HasSuffix(icon, "n") {
		return TimeNight
	}
	return TimeDay
}

// TimeOfDayAt places now relative to the day's sunrise and sunset. When
// either is unknown it falls back to the icon suffix.
func TimeOfDayAt(now, sunrise, sunset time.Time, icon string) TimeOfDay {
	if sunrise.IsZero() || sunset.IsZero() || !sunset.After(sunrise) {
		return TimeOfDayFromIcon(icon)
	}

	switch {
	case absDuration(now.Sub(sunrise)) <= twilight:
		return TimeDawn
	case absDuration(now.Sub(sunset)) <= twilight:
		return TimeDusk
	case now.After(sunrise) && now.Before(sunset):
		return TimeDay
	}
	// sunrise/sunset come from one day; outside that window the
	// upstream's own day/night flag is more reliable than our clock.
	if icon != "" {
		return TimeOfDayFromIcon(icon)
	}
	return TimeNight
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// ConditionWithTime combines a weather condition with time of day for palette keys.
func ConditionWithTime(condition WeatherCondition, tod TimeOfDay) string {
	return string(condition) + "_" + string(tod)
}
