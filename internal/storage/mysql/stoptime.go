package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"pltcm-dashboard/internal/report"
	"pltcm-dashboard/internal/storage"
)

const stopTimeQuery = `
	SELECT NPLANTTYPE, DTSTART, DTEND, NDELAYCODE, DELAYCOMMENT, COILID1, DTSTORE
	FROM STOP_TIME_TAB
	WHERE DTEND IS NOT NULL
	ORDER BY DTSTORE
`

func (s *Storage) GetStopTimes(ctx context.Context) ([]storage.StopTime, error) {
	const op = "storage.mysql.GetStopTimes"

	rows, err := s.db.QueryContext(ctx, stopTimeQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: query stop times: %w", op, err)
	}
	defer rows.Close()

	var stops []storage.StopTime
	for rows.Next() {
		var (
			st            storage.StopTime
			plant         sql.NullInt64
			start, end    sql.NullTime
			delayCode     sql.NullInt64
			comment, coil sql.NullString
			stored        sql.NullTime
		)

		if err := rows.Scan(&plant, &start, &end, &delayCode, &comment, &coil, &stored); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		// unknown plant stays 0
		st.Plant = int(plant.Int64)
		st.End = s.inLoc(end.Time)
		st.Stored = s.inLoc(stored.Time)
		if start.Valid {
			st.Start = s.inLoc(start.Time)
		} else {
			st.Start = st.Stored
		}
		if delayCode.Valid {
			code := delayCode.Int64
			st.DelayCode = &code
		}
		st.DelayComment = comment.String
		st.CoilID = coil.String

		st.Date = st.Start.Format("2006-01-02")
		if d := st.End.Sub(st.Start).Minutes(); d > 0 {
			st.Duration = report.Round2(d)
		}

		stops = append(stops, st)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return stops, nil
}
