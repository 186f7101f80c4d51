package procfs

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
)

// Runner executes an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Reader reads category records from a proc and sys tree.
type Reader struct {
	ProcRoot string
	SysRoot  string

	// Arch returns the machine name as printed by uname -m.
	Arch func() (string, error)

	// Dmidecode runs dmidecode; tests substitute canned output.
	Dmidecode Runner
}

// New returns a Reader for the live system.
func New() *Reader {
	return &Reader{
		ProcRoot:  "/proc",
		SysRoot:   "/sys",
		Arch:      MachineArch,
		Dmidecode: execRunner,
	}
}

// WithRoots returns a copy of r reading from the given roots. Empty values
// keep the current root.
func (r *Reader) WithRoots(procRoot, sysRoot string) *Reader {
	c := *r
	if procRoot != "" {
		c.ProcRoot = procRoot
	}
	if sysRoot != "" {
		c.SysRoot = sysRoot
	}
	return &c
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (r *Reader) procPath(elem ...string) string {
	return filepath.Join(append([]string{r.ProcRoot}, elem...)...)
}

// scanFile opens path and feeds each line to fn with its 1-based number.
// Open failures are reported as ErrSourceUnavailable.
func scanFile(source, path string, fn func(lineNo int, line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return internalerrors.Unavailable(source, path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := fn(lineNo, sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return internalerrors.Unavailable(source, path, err)
	}
	return nil
}
