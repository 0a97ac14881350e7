package ppu

// VRAMReader reads tile data and tile maps for the line renderers.
type VRAMReader interface {
	Read(addr uint16) byte
}

// decodeRow merges the two bitplanes of one tile row into 8 color
// indices, leftmost pixel first.
func decodeRow(lo, hi byte) (row [8]byte) {
	for i := range row {
		bit := 7 - uint(i)
		row[i] = (hi>>bit&1)<<1 | lo>>bit&1
	}
	return row
}

// tileRowAddr locates row fineY of a BG or window tile. With unsigned
// addressing tiles start at 0x8000; otherwise the index is signed around 0x9000.
func tileRowAddr(index byte, unsigned bool, fineY byte) uint16 {
	row := uint16(fineY&7) * 2
	if unsigned {
		return 0x8000 + uint16(index)*16 + row
	}
	return uint16(0x9000+int(int8(index))*16) + row
}

// pixelFIFO queues color indices a tile row at a time.
type pixelFIFO struct {
	buf  [16]byte
	head int
	n    int
}

// push appends a decoded row, failing when fewer than 8 slots are free.
func (q *pixelFIFO) push(row [8]byte) bool {
	if q.n > len(q.buf)-len(row) {
		return false
	}
	for _, ci := range row {
		q.buf[(q.head+q.n)%len(q.buf)] = ci
		q.n++
	}
	return true
}

// pop removes the oldest index; an empty queue yields 0.
func (q *pixelFIFO) pop() byte {
	if q.n == 0 {
		return 0
	}
	ci := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return ci
}

// mapFetcher walks one row of a 32x32 tile map from column col, wrapping
// at the right edge of the map.
type mapFetcher struct {
	mem      VRAMReader
	rowBase  uint16 // map address of column 0
	col      uint16
	unsigned bool
	fineY    byte
	q        pixelFIFO
}

func (f *mapFetcher) fetch() {
	addr := tileRowAddr(f.mem.Read(f.rowBase+f.col), f.unsigned, f.fineY)
	f.q.push(decodeRow(f.mem.Read(addr), f.mem.Read(addr+1)))
	f.col = (f.col + 1) & 31
}

// drawLine fills out from screen column x to the right edge after
// dropping the first skip pixels of the row.
func (f *mapFetcher) drawLine(out *[Width]byte, x, skip int) {
	for x < Width {
		if f.q.n == 0 {
			f.fetch()
		}
		ci := f.q.pop()
		if skip > 0 {
			skip--
			continue
		}
		out[x] = ci
		x++
	}
}
