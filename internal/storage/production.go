package storage

import "time"

// Coil is one row of the production report. Json names follow the
// database column aliases the dashboard has always exposed.
type Coil struct {
	CoilIDOut       string     `json:"COILIDOUT"`
	CoilIDIn        string     `json:"COILIDIN"`
	AlloyCode       string     `json:"ALLOYCODE"`
	EntryThick      float64    `json:"ENTRYTHICK"`
	ExitThick       float64    `json:"EXITTHICK"`
	EntryWidth      float64    `json:"ENTRYWIDTH"`
	EntryDiameter   float64    `json:"ENTRYDIAMPDI"`
	ExitWeight      float64    `json:"EXITWEIGHTMEAS"`
	StartRoll       *time.Time `json:"DTSTARTROLL"`
	Departure       *time.Time `json:"DTDEPARTURE"`
	EndRolling      *time.Time `json:"DTENDROLLING"`
	LengthPhaseExit *float64   `json:"LENGTHPHASEEXIT"`
	LengthThickTol  *float64   `json:"LENGTHTHICKTOL"`
}
