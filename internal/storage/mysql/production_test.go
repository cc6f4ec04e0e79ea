package mysql

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pltcm-dashboard/internal/storage"
)

type TestCoilFixture struct {
	CoilOut    string
	CoilIn     string
	Alloy      string
	ExitThick  float64
	Width      float64
	Weight     any
	EndRolling time.Time
	Zone1      bool
}

func createTestCoil(t *testing.T, f TestCoilFixture) {
	t.Helper()

	_, err := testDB.Exec(`
		INSERT INTO PRODUCTION_TAB (COILIDOUT, COILIDIN_1, ALLOYCODE, ENTRYTHICK, EXITTHICK,
			ENTRYDIAMPDI, EXITWEIGHTCALC, DTWELDED, DTDEPARTURE, DTENDROLLING)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.CoilOut, f.CoilIn, f.Alloy, 2.5, f.ExitThick, 1800.0, f.Weight,
		f.EndRolling.Add(-time.Hour), f.EndRolling.Add(time.Hour), f.EndRolling)
	require.NoError(t, err)

	_, err = testDB.Exec(`INSERT INTO ORDER_TAB (COILID, ALLOYCODE, ENTRYWIDTH) VALUES (?, ?, ?)`,
		f.CoilIn, f.Alloy, f.Width)
	require.NoError(t, err)

	if f.Zone1 {
		_, err = testDB.Exec(`
			INSERT INTO RESULT_ZONE_TAB (COILIDOUT, NZONE, LENGTHPHASEEXIT, LENGTHTHICKTOL)
			VALUES (?, 1, ?, ?), (?, 2, ?, ?)`,
			f.CoilOut, 1200.0, 1150.0, f.CoilOut, 9999.0, 9999.0)
		require.NoError(t, err)
	}
}

func TestStorage_GetProduction(t *testing.T) {
	cleanupTestDB(t)

	base := time.Date(2019, 5, 10, 8, 0, 0, 0, time.UTC)
	createTestCoil(t, TestCoilFixture{CoilOut: "C1", CoilIn: "H1", Alloy: "CR4", ExitThick: 0.456, Width: 1250, Weight: 20000.0, EndRolling: base, Zone1: true})
	createTestCoil(t, TestCoilFixture{CoilOut: "C2", CoilIn: "H2", Alloy: "CR4", ExitThick: 0.8, Width: 1250, Weight: 0.0, EndRolling: base.Add(time.Hour)})
	createTestCoil(t, TestCoilFixture{CoilOut: "C3", CoilIn: "H3", Alloy: "DC01", ExitThick: 1.2, Width: 1500, Weight: 10000.0, EndRolling: base.Add(2 * time.Hour)})
	// no matching order row: excluded by the join
	_, err := testDB.Exec(`INSERT INTO PRODUCTION_TAB (COILIDOUT, COILIDIN_1, ALLOYCODE) VALUES ('C4', 'H4', 'CR4')`)
	require.NoError(t, err)

	s := &Storage{db: testDB, loc: time.UTC}
	coils, err := s.GetProduction(context.Background())
	require.NoError(t, err)
	require.Len(t, coils, 3)

	assert.Equal(t, "C1", coils[0].CoilIDOut)
	assert.Equal(t, "H1", coils[0].CoilIDIn)
	assert.Equal(t, 0.46, coils[0].ExitThick)
	assert.Equal(t, 1250.0, coils[0].EntryWidth)
	require.NotNil(t, coils[0].LengthPhaseExit)
	assert.Equal(t, 1200.0, *coils[0].LengthPhaseExit)
	require.NotNil(t, coils[0].EndRolling)
	assert.True(t, base.Equal(*coils[0].EndRolling))

	// zero weight becomes the mean of the non-null weights (zero included)
	assert.Equal(t, 10000.0, coils[1].ExitWeight)
	assert.Nil(t, coils[1].LengthPhaseExit)
	assert.Equal(t, "DC01", coils[2].AlloyCode)
}

func TestCleanProduction(t *testing.T) {
	coils := make([]storage.Coil, 4)
	coils[0].ExitThick = 1.005
	coils[1].ExitThick = 0.333
	weights := []sql.NullFloat64{
		{Float64: 100.126, Valid: true},
		{Float64: 0, Valid: true},
		{},
		{Float64: -5, Valid: true},
	}

	cleanProduction(coils, weights)

	assert.Equal(t, 100.13, coils[0].ExitWeight)
	assert.Equal(t, 50.06, coils[1].ExitWeight)
	assert.Equal(t, 50.06, coils[2].ExitWeight)
	assert.Equal(t, 50.06, coils[3].ExitWeight)
	assert.Equal(t, 0.33, coils[1].ExitThick)
	for _, c := range coils {
		assert.GreaterOrEqual(t, c.ExitWeight, 0.0)
	}
}

func TestCleanProduction_NoValidWeights(t *testing.T) {
	coils := make([]storage.Coil, 2)
	cleanProduction(coils, []sql.NullFloat64{{}, {}})

	assert.Equal(t, 0.0, coils[0].ExitWeight)
	assert.Equal(t, 0.0, coils[1].ExitWeight)
}
