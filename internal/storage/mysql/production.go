package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pltcm-dashboard/internal/report"
	"pltcm-dashboard/internal/storage"
)

const productionQuery = `
	SELECT PT.COILIDOUT, PT.COILIDIN_1, PT.ALLOYCODE, PT.ENTRYTHICK,
	       ROUND(PT.EXITTHICK, 2), OT.ENTRYWIDTH, PT.ENTRYDIAMPDI, PT.EXITWEIGHTCALC,
	       PT.DTWELDED, PT.DTDEPARTURE, PT.DTENDROLLING,
	       (SELECT MAX(RZT.LENGTHPHASEEXIT) FROM RESULT_ZONE_TAB RZT
	         WHERE RZT.COILIDOUT = PT.COILIDOUT AND RZT.NZONE = 1),
	       (SELECT MAX(RZT.LENGTHTHICKTOL) FROM RESULT_ZONE_TAB RZT
	         WHERE RZT.COILIDOUT = PT.COILIDOUT AND RZT.NZONE = 1)
	FROM PRODUCTION_TAB PT
	JOIN ORDER_TAB OT ON PT.COILIDIN_1 = OT.COILID AND PT.ALLOYCODE = OT.ALLOYCODE
	ORDER BY PT.DTENDROLLING
`

func (s *Storage) GetProduction(ctx context.Context) ([]storage.Coil, error) {
	const op = "storage.mysql.GetProduction"

	rows, err := s.db.QueryContext(ctx, productionQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: query production: %w", op, err)
	}
	defer rows.Close()

	var (
		coils   []storage.Coil
		weights []sql.NullFloat64
	)
	for rows.Next() {
		var (
			c                                   storage.Coil
			coilIn, alloy                       sql.NullString
			entryThick, exitThick, width, diam  sql.NullFloat64
			weight, lengthPhase, lengthThickTol sql.NullFloat64
			welded, departure, endRolling       sql.NullTime
		)

		err := rows.Scan(&c.CoilIDOut, &coilIn, &alloy, &entryThick,
			&exitThick, &width, &diam, &weight,
			&welded, &departure, &endRolling,
			&lengthPhase, &lengthThickTol)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		c.CoilIDIn = coilIn.String
		c.AlloyCode = alloy.String
		c.EntryThick = entryThick.Float64
		c.ExitThick = exitThick.Float64
		c.EntryWidth = width.Float64
		c.EntryDiameter = diam.Float64
		c.StartRoll = s.timePtr(welded)
		c.Departure = s.timePtr(departure)
		c.EndRolling = s.timePtr(endRolling)
		c.LengthPhaseExit = floatPtr(lengthPhase)
		c.LengthThickTol = floatPtr(lengthThickTol)

		coils = append(coils, c)
		weights = append(weights, weight)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	cleanProduction(coils, weights)

	return coils, nil
}

// cleanProduction fills missing, zero or negative exit weights with the mean of
// the valid ones and rounds thickness and weight to two decimals.
func cleanProduction(coils []storage.Coil, weights []sql.NullFloat64) {
	var sum float64
	var n int
	for _, w := range weights {
		if w.Valid && w.Float64 >= 0 {
			sum += w.Float64
			n++
		}
	}

	var mean float64
	if n > 0 {
		mean = sum / float64(n)
	}

	for i := range coils {
		w := weights[i]
		if !w.Valid || w.Float64 <= 0 {
			coils[i].ExitWeight = report.Round2(mean)
		} else {
			coils[i].ExitWeight = report.Round2(w.Float64)
		}
		coils[i].ExitThick = report.Round2(coils[i].ExitThick)
	}
}

func (s *Storage) timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := s.inLoc(t.Time)
	return &v
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
