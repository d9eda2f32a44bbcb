// internal/equation/walker.go
//
// Base-14 fragment walker and the grammar prune.
//
// A Walker maps an integer counter onto a fixed-width string over Alphabet by repeated
// remainder/quotient (symbol k of the fragment is base-14 digit k, least significant
// first). Each counter value yields one string, so a range [from, to) produces every
// fragment of that width exactly once. Walkers are finite and restartable (Reset).

package equation

// Alphabet is the ordered symbol set; a symbol's position is its base-14 digit value.
const Alphabet = "0123456789+-*/"

const base = uint64(len(Alphabet))

// Walker produces grammar-valid fragments of a fixed width.
type Walker struct {
	width int
	from  uint64
	curr  uint64
	max   uint64
	buf   []byte
}

// NewWalker walks every fragment of the given width.
func NewWalker(width int) *Walker {
	return newRangeWalker(width, 0, pow(width))
}

func newRangeWalker(width int, from, to uint64) *Walker {
	return &Walker{width: width, from: from, curr: from, max: to, buf: make([]byte, width)}
}

// Next returns the next fragment that passes ValidFragment, or false once the
// counter is exhausted.
func (w *Walker) Next() (string, bool) {
	for w.curr < w.max {
		it := w.curr
		w.curr++
		for k := 0; k < w.width; k++ {
			w.buf[k] = Alphabet[it%base]
			it /= base
		}
		if validFragment(w.buf) {
			return string(w.buf), true
		}
	}
	return "", false
}

// Reset rewinds the walker to the start of its range.
func (w *Walker) Reset() { w.curr = w.from }

// Advanced is the number of counter values consumed so far.
func (w *Walker) Advanced() uint64 { return w.curr - w.from }

// ValidFragment reports whether s is a well-formed left-hand side: it starts and ends
// with a digit, has no two adjacent operators, and no operand starts with 0. A lone
// "0" operand is rejected too, which keeps degenerate products like 0*7 out; a zero
// right-hand value (5-5=0) is unaffected.
func ValidFragment(s string) bool { return validFragment([]byte(s)) }

func validFragment(s []byte) bool {
	if len(s) == 0 || !isDigit(s[0]) || !isDigit(s[len(s)-1]) {
		return false
	}
	atOperandStart := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) {
			if atOperandStart {
				return false
			}
			atOperandStart = true
			continue
		}
		if atOperandStart && c == '0' {
			return false
		}
		atOperandStart = false
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// pow returns 14^width.
func pow(width int) uint64 {
	n := uint64(1)
	for i := 0; i < width; i++ {
		n *= base
	}
	return n
}
