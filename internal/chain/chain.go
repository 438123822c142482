// Public domain.

// Package chain reads and writes sampler chain files.
//
// A chain is stored as one gzip compressed text file per temperature,
// named <prefix>.<NN>.txt.gz.  Each row is one walker at one iteration:
//
//	logl logp V0 sigma0 tau0 ... K0 n0 chi0 e0 omega0 ...
//
// Iterations follow one another, nwalkers rows each.  A new file starts
// with a comment line of column names.  Each call to Write appends a gzip
// member, so an interrupted run leaves readable files, and each member
// starts with a comment line giving the run id of the rows that follow.
package chain

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/soniakeys/rvcorr/internal/ensemble"
	"github.com/soniakeys/rvcorr/internal/params"
)

const runTag = "# run "

// FileName returns the file name for temperature t.
func FileName(prefix string, t int) string {
	return fmt.Sprintf("%s.%02d.txt.gz", prefix, t)
}

// Columns returns the column names of a chain file row.
func Columns(l params.Layout) []string {
	return append([]string{"logl", "logp"}, l.Header()...)
}

// Write appends ensemble e with its log likelihoods and log priors, indexed
// like e cells, to the files for prefix, recording runID.  Files are created
// as needed.
func Write(prefix string, e *ensemble.Ensemble, logl, logp []float64, runID uuid.UUID) error {
	if len(logl) != e.Len() || len(logp) != e.Len() {
		return fmt.Errorf("%w: %d cells, %d logl, %d logp",
			params.ErrShape, e.Len(), len(logl), len(logp))
	}
	for t := 0; t < e.NTemps; t++ {
		if err := appendTemp(FileName(prefix, t), e, t, logl, logp, runID); err != nil {
			return err
		}
	}
	return nil
}

func appendTemp(name string, e *ensemble.Ensemble, t int,
	logl, logp []float64, runID uuid.UUID) (err error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := f.Close(); err == nil {
			err = cErr
		}
	}()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(f)
	w := bufio.NewWriter(zw)
	fmt.Fprintf(w, "%s%s\n", runTag, runID)
	if fi.Size() == 0 {
		fmt.Fprintf(w, "# %s\n", strings.Join(Columns(e.Layout), " "))
	}
	for wk := 0; wk < e.NWalkers; wk++ {
		c := e.Index(t, wk)
		w.WriteString(format(logl[c]))
		w.WriteByte(' ')
		w.WriteString(format(logp[c]))
		for _, x := range e.Cell(c) {
			w.WriteByte(' ')
			w.WriteString(format(x))
		}
		w.WriteByte('\n')
	}
	if err = w.Flush(); err != nil {
		return err
	}
	return zw.Close()
}

func format(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Read reads the chain files for prefix.  Every file must hold the same
// whole number of iterations of nwalkers rows with layout l.
func Read(prefix string, l params.Layout, ntemps, nwalkers int) (*ensemble.Chain, error) {
	if ntemps < 1 || nwalkers < 1 {
		return nil, fmt.Errorf("%w: %d temperatures, %d walkers",
			params.ErrShape, ntemps, nwalkers)
	}
	var c ensemble.Chain
	for t := 0; t < ntemps; t++ {
		name := FileName(prefix, t)
		rows, err := readRows(name, l)
		if err != nil {
			return nil, err
		}
		if len(rows)%nwalkers != 0 {
			return nil, fmt.Errorf("%w: %s has %d rows, not a multiple of %d walkers",
				params.ErrShape, name, len(rows), nwalkers)
		}
		nsteps := len(rows) / nwalkers
		if t == 0 {
			for s := 0; s < nsteps; s++ {
				e := ensemble.New(l, ntemps, nwalkers)
				c.Steps = append(c.Steps, e)
				c.LogL = append(c.LogL, make([]float64, e.Len()))
				c.LogP = append(c.LogP, make([]float64, e.Len()))
			}
		} else if nsteps != len(c.Steps) {
			return nil, fmt.Errorf("%w: %s has %d iterations, want %d",
				params.ErrShape, name, nsteps, len(c.Steps))
		}
		for i, row := range rows {
			s, wk := i/nwalkers, i%nwalkers
			e := c.Steps[s]
			cell := e.Index(t, wk)
			c.LogL[s][cell] = row[0]
			c.LogP[s][cell] = row[1]
			copy(e.Cell(cell), row[2:])
		}
	}
	return &c, nil
}

func readRows(name string, l params.Layout) ([][]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer zr.Close()

	want := len(Columns(l))
	var rows [][]float64
	sc := bufio.NewScanner(zr)
	sc.Buffer(nil, 1<<20)
	for line := 1; sc.Scan(); line++ {
		s := sc.Text()
		if s == "" || s[0] == '#' {
			continue
		}
		fields := strings.Fields(s)
		if len(fields) != want {
			return nil, fmt.Errorf("%w: %s line %d has %d fields, layout %+v wants %d",
				params.ErrShape, name, line, len(fields), l, want)
		}
		row := make([]float64, want)
		for i, fs := range fields {
			if row[i], err = strconv.ParseFloat(fs, 64); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", name, line, err)
			}
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rows, nil
}

// RunID returns the first run id recorded in the first file for prefix.
func RunID(prefix string) (uuid.UUID, error) {
	name := FileName(prefix, 0)
	f, err := os.Open(name)
	if err != nil {
		return uuid.Nil, err
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", name, err)
	}
	defer zr.Close()
	line, err := bufio.NewReader(zr).ReadString('\n')
	if err != nil && err != io.EOF {
		return uuid.Nil, fmt.Errorf("%s: %w", name, err)
	}
	if !strings.HasPrefix(line, runTag) {
		return uuid.Nil, fmt.Errorf("%s: no run id", name)
	}
	return uuid.Parse(strings.TrimSpace(line[len(runTag):]))
}

// RunIDs returns the run ids recorded in the first file for prefix, in the
// order written.  Repeats of an id by consecutive writes are listed once.
func RunIDs(prefix string) ([]uuid.UUID, error) {
	name := FileName(prefix, 0)
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer zr.Close()

	var ids []uuid.UUID
	sc := bufio.NewScanner(zr)
	sc.Buffer(nil, 1<<20)
	for line := 1; sc.Scan(); line++ {
		s := sc.Text()
		if !strings.HasPrefix(s, runTag) {
			continue
		}
		id, err := uuid.Parse(strings.TrimSpace(s[len(runTag):]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		if len(ids) == 0 || ids[len(ids)-1] != id {
			ids = append(ids, id)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ids, nil
}
