package tak

// Slides is a packed list of up to eight drop counts, four bits each.
// The first drop is stored in the low nibble. A drop count is never
// zero, so the zero value is the empty list.
type Slides uint32

func MkSlides(drops ...int) Slides {
	var out Slides
	for i := len(drops) - 1; i >= 0; i-- {
		if drops[i] < 1 || drops[i] > 8 {
			panic("bad drop")
		}
		out = out.Prepend(drops[i])
	}
	return out
}

func (s Slides) Len() int {
	l := 0
	for s != 0 {
		l++
		s >>= 4
	}
	return l
}

func (s Slides) Empty() bool {
	return s == 0
}

func (s Slides) First() int {
	return int(s & 0xf)
}

// Last is the final drop count.
func (s Slides) Last() int {
	last := 0
	for it := s.Iterator(); it.Ok(); it = it.Next() {
		last = it.Elem()
	}
	return last
}

// Sum is the number of stones carried.
func (s Slides) Sum() int {
	n := 0
	for it := s.Iterator(); it.Ok(); it = it.Next() {
		n += it.Elem()
	}
	return n
}

func (s Slides) Prepend(next int) Slides {
	return (s << 4) | Slides(next)
}

// Slice unpacks the drop counts.
func (s Slides) Slice() []int {
	var out []int
	for it := s.Iterator(); it.Ok(); it = it.Next() {
		out = append(out, it.Elem())
	}
	return out
}

type SlideIterator uint32

func (s Slides) Iterator() SlideIterator {
	return SlideIterator(s)
}

func (s SlideIterator) Next() SlideIterator {
	return s >> 4
}

func (s SlideIterator) Ok() bool {
	return s != 0
}

// Last reports whether the current element is the final one.
func (s SlideIterator) Last() bool {
	return s>>4 == 0
}

func (s SlideIterator) Elem() int {
	return int(s & 0xf)
}

// partitions[n] holds every drop sequence carrying at most n stones,
// in lexicographic order of the counts.
var partitions [9][]Slides

// spreadCounts[n][r] counts the drop sequences in partitions[n] that
// fit in r open squares; flattenCounts[n][r] those that end one
// square further with a single capstone.
var spreadCounts, flattenCounts [9][9]int

func init() {
	for n := 1; n <= 8; n++ {
		partitions[n] = calculateSlides(n)
		for _, s := range partitions[n] {
			l := s.Len()
			for r := l; r < 9; r++ {
				spreadCounts[n][r]++
			}
			if s.Last() == 1 {
				flattenCounts[n][l-1]++
			}
		}
	}
}

func calculateSlides(n int) []Slides {
	var out []Slides
	for i := 1; i <= n; i++ {
		out = append(out, MkSlides(i))
		for _, sub := range calculateSlides(n - i) {
			out = append(out, sub.Prepend(i))
		}
	}
	return out
}

