package travel

import "strings"

// airlineCodes maps common airline names to IATA carrier codes for the
// include/exclude filters. Unrecognized names pass through uppercased, so
// codes given directly ("UA") work unchanged.
var airlineCodes = map[string]string{
	"american":    "AA",
	"united":      "UA",
	"delta":       "DL",
	"southwest":   "WN",
	"jetblue":     "B6",
	"alaska":      "AS",
	"frontier":    "F9",
	"spirit":      "NK",
	"hawaiian":    "HA",
	"westjet":     "WS",
	"air canada":  "AC",
	"air transat": "TS",

	"lufthansa":       "LH",
	"british airways": "BA",
	"air france":      "AF",
	"klm":             "KL",
	"swiss":           "LX",
	"austrian":        "OS",
	"iberia":          "IB",
	"tap portugal":    "TP",
	"finnair":         "AY",
	"sas":             "SK",
	"norwegian":       "DY",
	"icelandair":      "FI",
	"vueling":         "VY",
	"easyjet":         "U2",
	"ryanair":         "FR",
	"wizz air":        "W6",
	"pegasus":         "PC",
	"lot":             "LO",
	"aeroflot":        "SU",
	"turkish":         "TK",

	"emirates":       "EK",
	"qatar":          "QR",
	"qatar airways":  "QR",
	"etihad":         "EY",
	"saudia":         "SV",
	"oman air":       "WY",
	"kuwait airways": "KU",
	"el al":          "LY",
	"egyptair":       "MS",
	"ethiopian":      "ET",
	"kenya airways":  "KQ",
	"south african":  "SA",

	"aeromexico": "AM",
	"latam":      "LA",
	"avianca":    "AV",
	"copa":       "CM",
	"azul":       "AD",
	"gol":        "G3",

	"qantas":           "QF",
	"virgin atlantic":  "VS",
	"virgin australia": "VA",
	"air new zealand":  "NZ",
	"fiji airways":     "FJ",

	"japan airlines":      "JL",
	"ana":                 "NH",
	"korean air":          "KE",
	"asiana":              "OZ",
	"singapore":           "SQ",
	"cathay pacific":      "CX",
	"eva air":             "BR",
	"china airlines":      "CI",
	"air china":           "CA",
	"china southern":      "CZ",
	"china eastern":       "MU",
	"hainan":              "HU",
	"air india":           "AI",
	"indigo":              "6E",
	"thai":                "TG",
	"malaysia":            "MH",
	"philippine airlines": "PR",
	"garuda indonesia":    "GA",
	"vietjet":             "VJ",
	"air asia":            "AK",
	"bangkok airways":     "PG",
	"scoot":               "TR",
	"jetstar":             "JQ",
}

// AirlineCode resolves a common airline name to its IATA code, or returns
// the input uppercased when the name is unknown.
func AirlineCode(name string) string {
	if code, ok := airlineCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(name))
}

// AirlineCodes resolves a list of airline names or codes.
func AirlineCodes(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	codes := make([]string, 0, len(names))
	for _, name := range names {
		if code := AirlineCode(name); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
