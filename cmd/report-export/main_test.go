package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pltcm-dashboard/internal/storage"
)

type fakeSnapshot struct {
	loadErr error
	loaded  bool
}

func (f *fakeSnapshot) Load(ctx context.Context) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = true
	return nil
}

func (f *fakeSnapshot) Production() ([]storage.Coil, error) {
	end := time.Date(2019, 5, 2, 8, 0, 0, 0, time.UTC)
	return []storage.Coil{{CoilIDOut: "C1", AlloyCode: "CR4", ExitThick: 0.7, ExitWeight: 20000, EndRolling: &end}}, nil
}

func (f *fakeSnapshot) StopTimes() ([]storage.StopTime, error) {
	return []storage.StopTime{{Plant: storage.PlantTCM, Date: "2019-05-02", Duration: 30}}, nil
}

func TestExport_WritesWorkbook(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")
	snap := &fakeSnapshot{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := export(context.Background(), log, snap, exportOptions{out: out}, time.UTC, time.Second)
	require.NoError(t, err)
	assert.True(t, snap.loaded)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Production", "Alloy", "Stop Times", "Plants"}, f.GetSheetList())
	v, err := f.GetCellValue("Production", "A2")
	require.NoError(t, err)
	assert.Equal(t, "C1", v)
}

func TestExport_LoadFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")
	loadErr := errors.New("db down")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := export(context.Background(), log, &fakeSnapshot{loadErr: loadErr}, exportOptions{out: out}, time.UTC, time.Second)
	require.ErrorIs(t, err, loadErr)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"config", "start", "end", "out"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Error(t, cmd.Args(cmd, []string{"extra"}))
}

type failingFile struct {
	writeErr, closeErr error
	closed             bool
}

func (f *failingFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p), nil
}

func (f *failingFile) Close() error {
	f.closed = true
	return f.closeErr
}

func TestWriteReport_CloseError(t *testing.T) {
	closeErr := errors.New("no space left on device")
	f := &failingFile{closeErr: closeErr}

	err := writeReport(f, []byte("PK"))

	require.ErrorIs(t, err, closeErr)
	assert.True(t, f.closed)
}

func TestWriteReport_WriteErrorStillCloses(t *testing.T) {
	writeErr := errors.New("short write")
	f := &failingFile{writeErr: writeErr}

	err := writeReport(f, []byte("PK"))

	require.ErrorIs(t, err, writeErr)
	assert.True(t, f.closed)
}
