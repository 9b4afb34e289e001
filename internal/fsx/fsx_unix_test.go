//go:build unix

package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"golang.org/x/sys/unix"
)

func TestRename_CrossDeviceEXDEV(t *testing.T) {
	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: unix.EXDEV}
	}
	defer func() { renameFunc = old }()

	err := Rename("/a", "/b")
	if !IsCrossDevice(err) {
		t.Fatalf("Rename() error = %T %v, want CrossDeviceError", err, err)
	}
}

func TestMove_CrossDeviceFallsBackToCopy(t *testing.T) {
	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	defer func() { renameFunc = old }()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	dst := filepath.Join(dir, "b.jpg")
	writeFile(t, src, "pixels")

	if err := Move(src, dst); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source still exists after cross-device move: %v", err)
	}
	if got := readFile(t, dst); got != "pixels" {
		t.Errorf("dst content = %q", got)
	}
}

func TestAcquireLock_Exclusive(t *testing.T) {
	root := t.TempDir()

	first, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}

	if _, err := AcquireLock(root); !errors.Is(err, ErrLocked) {
		t.Fatalf("second AcquireLock() error = %v, want ErrLocked", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	again, err := AcquireLock(root)
	if err != nil {
		t.Fatalf("AcquireLock() after release error = %v", err)
	}
	_ = again.Release()
}

func TestCheckWritable(t *testing.T) {
	dir := t.TempDir()
	if err := CheckWritable(dir); err != nil {
		t.Fatalf("CheckWritable(%s) = %v", dir, err)
	}
	if err := CheckWritable(filepath.Join(dir, "missing")); !errors.Is(err, unix.ENOENT) {
		t.Errorf("missing dir error = %v, want ENOENT", err)
	}

	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	ro := filepath.Join(dir, "ro")
	if err := os.Mkdir(ro, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(ro, 0o755)
	if err := CheckWritable(ro); err == nil {
		t.Error("read-only dir reported writable")
	}
}
