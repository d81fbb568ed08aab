package archive

import (
	"context"
	"errors"
	"testing"
)

func TestFS_PutGet(t *testing.T) {
	a, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	ctx := context.Background()

	if err := a.Put(ctx, "2026/03/relatorio.csv", []byte("a,b\n1,2\n"), "text/csv"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := a.Get(ctx, "2026/03/relatorio.csv")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "a,b\n1,2\n" {
		t.Errorf("Get = %q", got)
	}
}

func TestFS_GetMissing(t *testing.T) {
	a, _ := NewFS(t.TempDir())
	_, err := a.Get(context.Background(), "nope.csv")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFS_RejectsUnsafeKeys(t *testing.T) {
	a, _ := NewFS(t.TempDir())
	for _, key := range []string{"", "  ", "/etc/passwd", "../escape.csv", "a/../../b"} {
		if err := a.Put(context.Background(), key, []byte("x"), ""); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}

func TestOpen_SelectsDriver(t *testing.T) {
	a, err := Open(context.Background(), Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Driver() != DriverFS {
		t.Errorf("Driver = %q, want fs", a.Driver())
	}
	if _, err := Open(context.Background(), Options{Driver: "ftp"}); err == nil {
		t.Error("unknown driver should fail")
	}
	if _, err := Open(context.Background(), Options{Driver: DriverS3}); err == nil {
		t.Error("s3 without bucket should fail")
	}
}
