package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/smartcity/accidents/internal/config"
	"github.com/smartcity/accidents/internal/repository/csvfile"
	"github.com/smartcity/accidents/internal/repository/postgres"
)

func TestSourceMock(t *testing.T) {
	cfg := config.Default()
	cfg.DataSource = config.SourceMock

	src, remote, closeFn := Source(context.Background(), cfg, zap.NewNop())
	defer closeFn()
	if _, ok := src.(*postgres.MockRepository); !ok || remote != nil {
		t.Errorf("got %T, remote %v", src, remote)
	}
}

func TestSourcePostgresFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.DataSource = config.SourcePostgres
	cfg.DatabaseURL = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	src, _, closeFn := Source(context.Background(), cfg, zap.NewNop())
	defer closeFn()
	if _, ok := src.(*postgres.MockRepository); !ok {
		t.Errorf("got %T, want mock fallback", src)
	}
}

func TestDatasetCSVWithoutDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "us_accidents.csv")
	csv := "Start_Time,Start_Lat,Start_Lng,Severity,State,City,Weather_Condition\n" +
		"2021-01-04 07:45:00,34.05,-118.24,2,CA,Los Angeles,Clear\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.DatasetPath = path
	cfg.DatasetURL = "http://127.0.0.1:1/never-called"

	src, remote, _ := Source(context.Background(), cfg, zap.NewNop())
	if _, ok := src.(*csvfile.Repository); !ok || remote == nil || remote.Path != path {
		t.Fatalf("got %T, remote %+v", src, remote)
	}

	ds, closeFn := Dataset(context.Background(), cfg, zap.NewNop())
	defer closeFn()
	table, err := ds.Load(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 1 || *table.Accidents[0].Year != 2021 {
		t.Errorf("table = %+v", table.Accidents)
	}
}
