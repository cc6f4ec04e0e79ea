package storage

import "time"

// Plant identifiers as stored in STOP_TIME_TAB.NPLANTTYPE.
const (
	PlantPL    = 1
	PlantTCM   = 2
	PlantPLTCM = 3
)

type StopTime struct {
	Plant        int       `json:"PLANT"`
	Start        time.Time `json:"DTSTART"`
	End          time.Time `json:"DTEND"`
	DelayCode    *int64    `json:"NDELAYCODE"`
	DelayComment string    `json:"DELAYCOMMENT"`
	CoilID       string    `json:"COILID1"`
	Stored       time.Time `json:"DTSTORE"`

	// Date is the calendar day of Start in the display location (YYYY-MM-DD).
	Date string `json:"DATE"`
	// Duration of the stop in minutes.
	Duration float64 `json:"DURATION"`
}

func PlantName(plant int) string {
	switch plant {
	case PlantPL:
		return "PL"
	case PlantTCM:
		return "TCM"
	case PlantPLTCM:
		return "PLTCM"
	default:
		return "unknown"
	}
}
