package generate_excel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"pltcm-dashboard/internal/report"
	"pltcm-dashboard/internal/storage"
)

var ErrBadFilter = errors.New("invalid report filter")

type ReportSource interface {
	Production() ([]storage.Coil, error)
	StopTimes() ([]storage.StopTime, error)
}

// ReportFilter holds the raw date picker values; production uses the
// half-open range on end of rolling, stop times the inclusive day slice.
type ReportFilter struct {
	Start string
	End   string
	Loc   *time.Location
}

type GenerateExcelService struct {
	source ReportSource
}

func NewGenerateService(source ReportSource) *GenerateExcelService {
	return &GenerateExcelService{source: source}
}

const (
	sheetProduction = "Production"
	sheetAlloy      = "Alloy"
	sheetStops      = "Stop Times"
	sheetPlants     = "Plants"
)

var productionHeaders = []string{
	"COILIDOUT", "COILIDIN", "ALLOYCODE", "ENTRYTHICK", "EXITTHICK", "ENTRYWIDTH",
	"ENTRYDIAMPDI", "EXITWEIGHTMEAS", "DTSTARTROLL", "DTDEPARTURE", "DTENDROLLING",
	"LENGTHPHASEEXIT", "LENGTHTHICKTOL",
}

var statsHeaders = []string{"", "count", "mean", "min", "max", "sum"}

func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter ReportFilter) ([]byte, error) {
	const op = "service.generate-excel.GenerateExcel"

	rng, err := report.ParseRange(filter.Start, filter.End, filter.Loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrBadFilter, err)
	}

	coils, err := g.source.Production()
	if err != nil {
		return nil, fmt.Errorf("%s: production: %w", op, err)
	}
	stops, err := g.source.StopTimes()
	if err != nil {
		return nil, fmt.Errorf("%s: stop times: %w", op, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	coils = report.FilterCoils(coils, rng)
	stops = report.FilterStopDays(stops, filter.Start, filter.End)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	if err := f.SetSheetName("Sheet1", sheetProduction); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, name := range []string{sheetAlloy, sheetStops, sheetPlants} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("%s: new sheet %s: %w", op, name, err)
		}
	}

	writeHeader(f, sheetProduction, productionHeaders, headerStyle)
	for i, c := range coils {
		row := i + 2
		f.SetCellValue(sheetProduction, cellName(1, row), c.CoilIDOut)
		f.SetCellValue(sheetProduction, cellName(2, row), c.CoilIDIn)
		f.SetCellValue(sheetProduction, cellName(3, row), c.AlloyCode)
		f.SetCellValue(sheetProduction, cellName(4, row), c.EntryThick)
		f.SetCellValue(sheetProduction, cellName(5, row), c.ExitThick)
		f.SetCellValue(sheetProduction, cellName(6, row), c.EntryWidth)
		f.SetCellValue(sheetProduction, cellName(7, row), c.EntryDiameter)
		f.SetCellValue(sheetProduction, cellName(8, row), c.ExitWeight)
		f.SetCellValue(sheetProduction, cellName(9, row), formatTime(c.StartRoll))
		f.SetCellValue(sheetProduction, cellName(10, row), formatTime(c.Departure))
		f.SetCellValue(sheetProduction, cellName(11, row), formatTime(c.EndRolling))
		if c.LengthPhaseExit != nil {
			f.SetCellValue(sheetProduction, cellName(12, row), *c.LengthPhaseExit)
		}
		if c.LengthThickTol != nil {
			f.SetCellValue(sheetProduction, cellName(13, row), *c.LengthThickTol)
		}
	}
	f.SetColWidth(sheetProduction, "A", "M", 16)

	alloyHeaders := append([]string{"ALLOYCODE"}, statsHeaders[1:]...)
	writeHeader(f, sheetAlloy, alloyHeaders, headerStyle)
	for i, s := range report.AlloyStats(coils) {
		writeStats(f, sheetAlloy, i+2, s.Key, s.Count, s.Mean, s.Min, s.Max, s.Sum)
	}

	dayHeaders := append([]string{"DATE"}, statsHeaders[1:]...)
	writeHeader(f, sheetStops, dayHeaders, headerStyle)
	for i, s := range report.DailyDelay(stops) {
		writeStats(f, sheetStops, i+2, s.Key, s.Count, s.Mean, s.Min, s.Max, s.Sum)
	}
	f.SetColWidth(sheetStops, "A", "A", 14)

	totals := report.StopPlantTotals(stops)
	writeHeader(f, sheetPlants, []string{"PLANT", "TOTAL DELAY MIN"}, headerStyle)
	for i, p := range []struct {
		name string
		min  float64
	}{{"PL", totals.PL}, {"TCM", totals.TCM}, {"PLTCM", totals.PLTCM}} {
		f.SetCellValue(sheetPlants, cellName(1, i+2), p.name)
		f.SetCellValue(sheetPlants, cellName(2, i+2), p.min)
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style)
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeStats(f *excelize.File, sheet string, row int, key any, count int, mean, lo, hi, sum float64) {
	for i, v := range []any{key, count, mean, lo, hi, sum} {
		f.SetCellValue(sheet, cellName(i+1, row), v)
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02.01.06 15:04")
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
