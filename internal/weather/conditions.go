package weather

// ConditionUnknown is returned for weather codes outside the table.
const ConditionUnknown = "Unknown"

var conditionLabels = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	51: "Light drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow fall",
	95: "Thunderstorm",
}

// DecodeCondition maps an Open-Meteo (WMO) weather code to a label.
func DecodeCondition(code int) string {
	if label, ok := conditionLabels[code]; ok {
		return label
	}
	return ConditionUnknown
}
