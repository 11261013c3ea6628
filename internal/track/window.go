package track

import "fmt"

// Window is an inclusive range of RMS sample indices [Start, End]
type Window struct {
	Start int
	End   int
}

// Len returns the number of samples covered by the window
func (w Window) Len() int {
	return w.End - w.Start + 1
}

// Validate checks the window against a sequence of n samples
func (w Window) Validate(n int) error {
	if w.End < w.Start {
		return fmt.Errorf("%w: end index %d precedes start index %d", ErrInvalidWindowRange, w.End, w.Start)
	}
	if w.Start < 0 || w.Start >= n {
		return fmt.Errorf("%w: start index %d for %d samples", ErrIndexOutOfRange, w.Start, n)
	}
	if w.End >= n {
		return fmt.Errorf("%w: end index %d for %d samples", ErrIndexOutOfRange, w.End, n)
	}
	return nil
}

// Slice returns a copy of the samples covered by the window
func (w Window) Slice(values []float64) ([]float64, error) {
	if err := w.Validate(len(values)); err != nil {
		return nil, err
	}

	out := make([]float64, w.Len())
	copy(out, values[w.Start:w.End+1])
	return out, nil
}

func (w Window) String() string {
	return fmt.Sprintf("[%d..%d]", w.Start, w.End)
}
