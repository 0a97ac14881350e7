package cart

// titled carries the header title of a cartridge image.
type titled struct{ name string }

func (t titled) Name() string { return t.name }

// extRAM is the external RAM window shared by the MBC variants.
// Accesses while disabled or past the end read 0xFF and drop writes.
type extRAM struct {
	data    []byte
	enabled bool
}

func newExtRAM(size int) extRAM {
	if size <= 0 {
		return extRAM{}
	}
	return extRAM{data: make([]byte, size)}
}

// setEnable applies a write to the 0000–1FFF enable register.
func (r *extRAM) setEnable(value byte) { r.enabled = value&0x0F == 0x0A }

func (r *extRAM) read(bank int, addr uint16) byte {
	off := bank*0x2000 + int(addr-0xA000)
	if !r.enabled || off < 0 || off >= len(r.data) {
		return 0xFF
	}
	return r.data[off]
}

func (r *extRAM) write(bank int, addr uint16, value byte) {
	off := bank*0x2000 + int(addr-0xA000)
	if !r.enabled || off < 0 || off >= len(r.data) {
		return
	}
	r.data[off] = value
}

// SaveRAM returns a copy of external RAM, nil when the cartridge has none.
func (r *extRAM) SaveRAM() []byte {
	if len(r.data) == 0 {
		return nil
	}
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out
}

// LoadRAM restores external RAM. Short images fill a prefix; extra bytes are ignored.
func (r *extRAM) LoadRAM(data []byte) {
	copy(r.data, data)
}
