package main

// pstack is a circular parameter stack: pushing onto a full stack overwrites
// its oldest cell.
type pstack struct {
	data []int32
	ptr  int // top cell index, -1 when empty
	n    int
}

func newPStack(size int) pstack {
	return pstack{data: make([]int32, size), ptr: -1}
}

func (s *pstack) size() int { return s.n }

func (s *pstack) clear() {
	s.ptr = -1
	s.n = 0
}

func (s *pstack) push(v int32) {
	s.ptr = (s.ptr + 1) % len(s.data)
	if s.n < len(s.data) {
		s.n++
	}
	s.data[s.ptr] = v
}

func (s *pstack) pop() (int32, bool) {
	if s.n == 0 {
		return 0, false
	}
	v := s.data[s.ptr]
	s.n--
	if s.n == 0 {
		s.ptr = -1
	} else {
		s.ptr = (s.ptr + len(s.data) - 1) % len(s.data)
	}
	return v, true
}

// at returns the index of the i-th cell below the top.
func (s *pstack) at(i int) int {
	return ((s.ptr-i)%len(s.data) + len(s.data)) % len(s.data)
}

func (s *pstack) peek(i int) int32    { return s.data[s.at(i)] }
func (s *pstack) poke(i int, v int32) { s.data[s.at(i)] = v }

func (s *pstack) top() (int32, bool) {
	if s.n == 0 {
		return 0, false
	}
	return s.data[s.ptr], true
}

func (s *pstack) copyFrom(o *pstack) {
	copy(s.data, o.data)
	s.ptr, s.n = o.ptr, o.n
}

// roll moves the n-th cell below the top up to the top:
// ( an ... a0 -- an-1 ... a0 an )
func (s *pstack) roll(n int) {
	if n < 1 || n >= s.n {
		return
	}
	v := s.peek(n)
	for i := n; i > 0; i-- {
		s.poke(i, s.peek(i-1))
	}
	s.poke(0, v)
}

// values returns the stack contents from bottom to top.
func (s *pstack) values() []int32 {
	vs := make([]int32, s.n)
	for i := range vs {
		vs[i] = s.peek(s.n - 1 - i)
	}
	return vs
}

// rstack is a linear return stack; frame marks the cell below the running
// word's locals.
type rstack struct {
	data  []int32
	ptr   int // top cell index, -1 when empty
	frame int
}

func newRStack(size int) rstack {
	return rstack{data: make([]int32, size), ptr: -1, frame: -1}
}

func (s *rstack) size() int { return s.ptr + 1 }

func (s *rstack) clear() {
	s.ptr = -1
	s.frame = -1
}

func (s *rstack) push(v int32) bool {
	if s.ptr >= len(s.data)-1 {
		return false
	}
	s.ptr++
	s.data[s.ptr] = v
	return true
}

func (s *rstack) pop() (int32, bool) {
	if s.ptr < 0 {
		return 0, false
	}
	v := s.data[s.ptr]
	s.ptr--
	return v, true
}

func (s *rstack) top() (int32, bool) {
	if s.ptr < 0 {
		return 0, false
	}
	return s.data[s.ptr], true
}

// local returns the cell index of frame relative local i.
func (s *rstack) local(i int) (int, bool) {
	j := s.frame + i + 1
	return j, j >= 0 && j <= s.ptr
}

func (s *rstack) values() []int32 {
	return append(make([]int32, 0, s.ptr+1), s.data[:s.ptr+1]...)
}
