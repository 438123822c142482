// Public domain.

// Package rvdata reads radial velocity time series.
//
// Files are plain text, one sample per line, with whitespace separated
// columns of time and velocity.  Further columns, such as a formal
// uncertainty, are ignored.  Blank lines and lines starting with # are
// skipped.
package rvdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNotChronological reports a sample time not after the one before it.
var ErrNotChronological = errors.New("rvdata: times must increase strictly")

// ErrNoData reports input with no samples.
var ErrNoData = errors.New("rvdata: no samples")

// Series is the data of one observatory.
type Series struct {
	Name string
	T    []float64 // sample times
	RV   []float64 // velocities
}

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.T) }

// Span returns the time between the first and last samples.
func (s *Series) Span() float64 {
	if len(s.T) == 0 {
		return 0
	}
	return s.T[len(s.T)-1] - s.T[0]
}

// Read parses a series from r.
func Read(r io.Reader) (*Series, error) {
	var s Series
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		l := strings.TrimSpace(sc.Text())
		if l == "" || l[0] == '#' {
			continue
		}
		f := strings.Fields(l)
		if len(f) < 2 {
			return nil, fmt.Errorf("rvdata: line %d: want time and velocity", line)
		}
		t, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			return nil, fmt.Errorf("rvdata: line %d: %w", line, err)
		}
		v, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return nil, fmt.Errorf("rvdata: line %d: %w", line, err)
		}
		if n := len(s.T); n > 0 && !(t > s.T[n-1]) {
			return nil, fmt.Errorf("%w: line %d, %g after %g",
				ErrNotChronological, line, t, s.T[n-1])
		}
		s.T = append(s.T, t)
		s.RV = append(s.RV, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(s.T) == 0 {
		return nil, ErrNoData
	}
	return &s, nil
}

// ReadFile reads a series from the named file.  The series is named for
// the file.
func ReadFile(name string) (*Series, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	s.Name = name
	return s, nil
}

// Split returns the parallel time and velocity slices of a set of series,
// the form taken by the likelihood and initializers.
func Split(ss []*Series) (ts, rvs [][]float64) {
	ts = make([][]float64, len(ss))
	rvs = make([][]float64, len(ss))
	for i, s := range ss {
		ts[i], rvs[i] = s.T, s.RV
	}
	return
}
