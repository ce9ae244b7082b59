package viewer

// viewport tracks the window of visible lines currently on screen. hoff is
// the column every row starts rendering from, shared by the whole window.
type viewport struct {
	top       int
	hoff      int
	height    int
	width     int
	scrolloff int
}

func (v *viewport) SetSize(w, h int) {
	v.width = w
	v.height = h
	if v.height < 0 {
		v.height = 0
	}
}

// clamp keeps top inside [0, total-height].
func (v *viewport) clamp(total int) {
	max := total - v.height
	if max < 0 {
		max = 0
	}
	if v.top > max {
		v.top = max
	}
	if v.top < 0 {
		v.top = 0
	}
}

func (v *viewport) ScrollBy(delta, total int) {
	v.top += delta
	v.clamp(total)
}

// HScrollBy shifts the shared column offset, never past the widest line
// currently on screen.
func (v *viewport) HScrollBy(delta, widest int) {
	v.hoff += delta
	if v.hoff > widest-1 {
		v.hoff = widest - 1
	}
	if v.hoff < 0 {
		v.hoff = 0
	}
}

// margin is the effective scrolloff, shrunk on short windows so the
// top and bottom margins cannot overlap.
func (v *viewport) margin() int {
	off := v.scrolloff
	if off*2 >= v.height {
		off = (v.height - 1) / 2
	}
	if off < 0 {
		off = 0
	}
	return off
}

// EnsureVisible scrolls so line stays at least scrolloff rows away from
// the viewport edges, where the document allows it.
func (v *viewport) EnsureVisible(line, total int) {
	if v.height <= 0 {
		return
	}
	off := v.margin()
	if line < v.top+off {
		v.top = line - off
	}
	if line > v.top+v.height-1-off {
		v.top = line - v.height + 1 + off
	}
	v.clamp(total)
}

// CenterOn puts line in the middle row of the viewport.
func (v *viewport) CenterOn(line, total int) {
	v.top = line - v.height/2
	v.clamp(total)
}

// AlignTop scrolls so line becomes the first visible row.
func (v *viewport) AlignTop(line, total int) {
	v.top = line
	v.clamp(total)
}

// AlignBottom scrolls so line becomes the last visible row.
func (v *viewport) AlignBottom(line, total int) {
	v.top = line - v.height + 1
	v.clamp(total)
}

func (v *viewport) Contains(line int) bool {
	return line >= v.top && line < v.top+v.height
}
