package procfs

import (
	"os"
	"sort"
	"strconv"
	"strings"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

const (
	interruptsSource = "interrupts"
	irqSource        = "irq"
)

// Interrupts reads /proc/interrupts. The header names one column per online
// CPU; lines such as ERR and MIS carry a single count.
func (r *Reader) Interrupts() ([]models.InterruptDetails, error) {
	path := r.procPath("interrupts")
	var (
		cpus    int
		details []models.InterruptDetails
	)
	err := scanFile(interruptsSource, path, func(lineNo int, line string) error {
		if lineNo == 1 {
			for _, col := range strings.Fields(line) {
				if !strings.HasPrefix(col, "CPU") {
					return internalerrors.Malformed(interruptsSource, path, "header column %q", col)
				}
				cpus++
			}
			if cpus == 0 {
				return internalerrors.Malformed(interruptsSource, path, "empty header")
			}
			return nil
		}
		label, rest, ok := strings.Cut(line, ":")
		if !ok {
			return internalerrors.Malformed(interruptsSource, path, "line %d: missing ':'", lineNo)
		}
		label = strings.TrimSpace(label)
		fields := strings.Fields(rest)

		d := models.InterruptDetails{IRQ: label}
		i := 0
		for ; i < len(fields) && i < cpus; i++ {
			n, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				break
			}
			d.CPUCounts = append(d.CPUCounts, n)
		}
		if len(d.CPUCounts) == 0 {
			return internalerrors.Malformed(interruptsSource, path, "line %d: no counts for %s", lineNo, label)
		}
		tail := fields[i:]
		if _, err := strconv.Atoi(label); err == nil && len(tail) > 0 {
			d.InterruptType = tail[0]
			tail = tail[1:]
		}
		d.Description = strings.Join(tail, " ")
		details = append(details, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cpus == 0 {
		return nil, internalerrors.Malformed(interruptsSource, path, "empty file")
	}
	return details, nil
}

// IRQs lists /proc/irq/<n> directories and reads their affinity files. A
// file that cannot be read is reported as absent.
func (r *Reader) IRQs() ([]models.IrqDetails, error) {
	dir := r.procPath("irq")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, internalerrors.Unavailable(irqSource, dir, err)
	}

	var numbers []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	out := make([]models.IrqDetails, 0, len(numbers))
	for _, n := range numbers {
		name := strconv.Itoa(n)
		out = append(out, models.IrqDetails{
			IRQNumber:       name,
			SMPAffinity:     readOptional(r.procPath("irq", name, "smp_affinity")),
			SMPAffinityList: readOptional(r.procPath("irq", name, "smp_affinity_list")),
			Node:            readOptional(r.procPath("irq", name, "node")),
		})
	}
	return out, nil
}

func readOptional(path string) *string {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	s := strings.TrimSpace(string(b))
	return &s
}
