package ppu

import "slices"

// tileMap returns 0x9C00 when the LCDC select bit is set, else 0x9800.
func tileMap(lcdc, bit byte) uint16 {
	if lcdc&bit != 0 {
		return 0x9C00
	}
	return 0x9800
}

// bgLine returns the background color indices of screen line ly.
func bgLine(mem VRAMReader, lr LineRegs, ly byte) (out [Width]byte) {
	y := ly + lr.SCY
	f := mapFetcher{
		mem:      mem,
		rowBase:  tileMap(lr.LCDC, 0x08) + uint16(y>>3)*32,
		col:      uint16(lr.SCX >> 3),
		unsigned: lr.LCDC&0x10 != 0,
		fineY:    y & 7,
	}
	f.drawLine(&out, 0, int(lr.SCX&7))
	return out
}

// windowVisible reports whether the window covers line ly. On DMG the
// window also needs the BG enabled.
func windowVisible(lr LineRegs, ly byte) bool {
	return lr.LCDC&0x21 == 0x21 && ly >= lr.WY && lr.WX <= 166
}

// windowLine draws window row lr.WinLine over out from column WX-7. A start
// left of the screen scrolls the first tile off the edge.
func windowLine(mem VRAMReader, lr LineRegs, out *[Width]byte) {
	x, skip := int(lr.WX)-7, 0
	if x < 0 {
		x, skip = 0, -x
	}
	f := mapFetcher{
		mem:      mem,
		rowBase:  tileMap(lr.LCDC, 0x40) + uint16(lr.WinLine>>3)*32,
		unsigned: lr.LCDC&0x10 != 0,
		fineY:    lr.WinLine & 7,
	}
	f.drawLine(out, x, skip)
}

// sprite is one OAM entry in screen coordinates (OAM Y-16, X-8).
type sprite struct {
	x, y int
	tile byte
	attr byte
	oam  int
}

// Sprite attribute bits.
const (
	attrPalette  = 1 << 4
	attrXFlip    = 1 << 5
	attrYFlip    = 1 << 6
	attrBehindBG = 1 << 7
)

// spritesOnLine collects up to 10 sprites covering ly in OAM order.
func (p *PPU) spritesOnLine(ly int, height int) []sprite {
	out := make([]sprite, 0, 10)
	for i := 0; i < 40 && len(out) < 10; i++ {
		e := p.oam[i*4 : i*4+4]
		y := int(e[0]) - 16
		if y <= ly && ly < y+height {
			out = append(out, sprite{x: int(e[1]) - 8, y: y, tile: e[2], attr: e[3], oam: i})
		}
	}
	return out
}

// composeSprites returns the sprite color index and palette (0 = OBP0,
// 1 = OBP1) of every column of line ly. The opaque pixel of the sprite
// with the smaller X owns a column, then the lower OAM index. An owner
// marked behind-BG leaves the column to a nonzero background.
func composeSprites(mem VRAMReader, sprites []sprite, ly, height int, bg *[Width]byte) (ci, pal [Width]byte) {
	slices.SortStableFunc(sprites, func(a, b sprite) int { return a.x - b.x })
	var owned [Width]bool
	for _, s := range sprites {
		row := ly - s.y
		if s.attr&attrYFlip != 0 {
			row = height - 1 - row
		}
		tile := s.tile
		if height == 16 {
			tile = tile&0xFE | byte(row>>3)
		}
		addr := 0x8000 + uint16(tile)*16 + uint16(row&7)*2
		px := decodeRow(mem.Read(addr), mem.Read(addr+1))
		if s.attr&attrXFlip != 0 {
			slices.Reverse(px[:])
		}
		for i, c := range px {
			x := s.x + i
			if c == 0 || x < 0 || x >= Width || owned[x] {
				continue
			}
			owned[x] = true
			if s.attr&attrBehindBG != 0 && bg[x] != 0 {
				continue
			}
			ci[x] = c
			if s.attr&attrPalette != 0 {
				pal[x] = 1
			}
		}
	}
	return ci, pal
}

// shade maps a 2-bit color index through a palette register.
func shade(palette, ci byte) byte { return (palette >> (ci * 2)) & 0x03 }

// renderLine draws the current line into the frame using the registers
// latched when the line entered PixelTransfer.
func (p *PPU) renderLine() {
	y := int(p.ly)
	lr := p.lineRegs[y]
	mem := rawVRAM{p}

	var bg [Width]byte
	if lr.LCDC&0x01 != 0 {
		bg = bgLine(mem, lr, p.ly)
		if windowVisible(lr, p.ly) {
			windowLine(mem, lr, &bg)
			p.winLineCounter++
		}
	}

	row := p.frame[y*Width : (y+1)*Width]
	for x := range row {
		row[x] = shade(lr.BGP, bg[x])
	}

	if lr.LCDC&0x02 == 0 {
		return
	}
	height := 8
	if lr.LCDC&0x04 != 0 {
		height = 16
	}
	sprites := p.spritesOnLine(y, height)
	if len(sprites) == 0 {
		return
	}
	sci, spal := composeSprites(mem, sprites, y, height, &bg)
	for x := range row {
		if sci[x] == 0 {
			continue
		}
		obp := lr.OBP0
		if spal[x] == 1 {
			obp = lr.OBP1
		}
		row[x] = shade(obp, sci[x])
	}
}

// rawVRAM adapts the PPU to VRAMReader without mode restrictions.
type rawVRAM struct{ p *PPU }

func (r rawVRAM) Read(addr uint16) byte { return r.p.RawVRAM(addr) }
