package softdevice

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mode777/tgl"
)

type buffer struct {
	data  []byte
	usage tgl.BufferUsage
}

type attrib struct {
	enabled    bool
	buf        tgl.Handle
	size       int
	typ        tgl.DataType
	normalized bool
	stride     int
	offset     int
}

func (d *Device) CreateBuffer() tgl.Handle {
	d.count("CreateBuffer")
	h := d.handle()
	d.buffers[h] = &buffer{}
	return h
}

func (d *Device) DeleteBuffer(h tgl.Handle) {
	d.count("DeleteBuffer")
	delete(d.buffers, h)
	if d.st.VertexBuffer == h {
		d.st.VertexBuffer = 0
	}
	if d.st.IndexBuffer == h {
		d.st.IndexBuffer = 0
	}
}

func (d *Device) BindBuffer(target tgl.BufferTarget, h tgl.Handle) {
	d.count("BindBuffer")
	if _, ok := d.buffers[h]; !ok && h != 0 {
		d.fail(tgl.InvalidValue)
		return
	}
	switch target {
	case tgl.ArrayBuffer:
		d.st.VertexBuffer = h
	case tgl.ElementArrayBuffer:
		d.st.IndexBuffer = h
	default:
		d.fail(tgl.InvalidEnum)
	}
}

func (d *Device) bound(target tgl.BufferTarget) *buffer {
	switch target {
	case tgl.ArrayBuffer:
		return d.buffers[d.st.VertexBuffer]
	case tgl.ElementArrayBuffer:
		return d.buffers[d.st.IndexBuffer]
	}
	return nil
}

func (d *Device) BufferData(target tgl.BufferTarget, data []byte, usage tgl.BufferUsage) {
	d.count("BufferData")
	b := d.bound(target)
	if b == nil {
		d.fail(tgl.InvalidOperation)
		return
	}
	b.data = append([]byte(nil), data...)
	b.usage = usage
}

func (d *Device) BufferSubData(target tgl.BufferTarget, offset int, data []byte) {
	d.count("BufferSubData")
	b := d.bound(target)
	if b == nil {
		d.fail(tgl.InvalidOperation)
		return
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		d.fail(tgl.InvalidValue)
		return
	}
	copy(b.data[offset:], data)
}

// BufferContents returns a copy of the contents of buffer h.
func (d *Device) BufferContents(h tgl.Handle) []byte {
	b, ok := d.buffers[h]
	if !ok {
		return nil
	}
	return append([]byte(nil), b.data...)
}

func (d *Device) EnableVertexAttribArray(loc int) {
	d.count("EnableVertexAttribArray")
	if loc < 0 || loc >= maxVertexAttribs {
		d.fail(tgl.InvalidValue)
		return
	}
	d.attribs[loc].enabled = true
}

func (d *Device) VertexAttribPointer(loc, size int, typ tgl.DataType, normalized bool, stride, offset int) {
	d.count("VertexAttribPointer")
	if loc < 0 || loc >= maxVertexAttribs || size < 1 || size > 4 {
		d.fail(tgl.InvalidValue)
		return
	}
	if d.st.VertexBuffer == 0 {
		d.fail(tgl.InvalidOperation)
		return
	}
	if stride == 0 {
		stride = size * typ.Size()
	}
	a := &d.attribs[loc]
	a.buf = d.st.VertexBuffer
	a.size = size
	a.typ = typ
	a.normalized = normalized
	a.stride = stride
	a.offset = offset
}

// fetch reads vertex i of the attribute at loc. Disabled attributes and
// reads past the end of the buffer yield (0, 0, 0, 1).
func (d *Device) fetch(loc, i int) mgl32.Vec4 {
	out := mgl32.Vec4{0, 0, 0, 1}
	a := d.attribs[loc]
	if !a.enabled {
		return out
	}
	b, ok := d.buffers[a.buf]
	if !ok {
		return out
	}
	base := a.offset + i*a.stride
	sz := a.typ.Size()
	if base < 0 || base+a.size*sz > len(b.data) {
		return out
	}
	for c := 0; c < a.size; c++ {
		out[c] = decode(b.data[base+c*sz:], a.typ, a.normalized)
	}
	return out
}

func decode(p []byte, typ tgl.DataType, normalized bool) float32 {
	le := binary.LittleEndian
	switch typ {
	case tgl.Byte:
		v := float32(int8(p[0]))
		if normalized {
			return math32.Max(v/127, -1)
		}
		return v
	case tgl.UnsignedByte:
		v := float32(p[0])
		if normalized {
			return v / 255
		}
		return v
	case tgl.Short:
		v := float32(int16(le.Uint16(p)))
		if normalized {
			return math32.Max(v/32767, -1)
		}
		return v
	case tgl.UnsignedShort:
		v := float32(le.Uint16(p))
		if normalized {
			return v / 65535
		}
		return v
	case tgl.Int:
		return float32(int32(le.Uint32(p)))
	case tgl.UnsignedInt:
		return float32(le.Uint32(p))
	case tgl.Float:
		return math.Float32frombits(le.Uint32(p))
	}
	return 0
}
