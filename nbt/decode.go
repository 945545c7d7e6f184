package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Decoder reads a big-endian NBT stream into a Value tree. Parsing
// failure is reported as an error to the caller; it never panics, since
// a malformed chunk must not abort the whole run (spec: NBTParseFailed
// is logged and the chunk is skipped, not fatal for the process).
type Decoder struct {
	r io.Reader
}

// NewDecoder wraps r for NBT decoding.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads one root tag (tag byte, name, payload) and returns its
// value. The root's own name is discarded; only nested compounds matter
// to callers.
func (d *Decoder) Decode() (Value, error) {
	tag, err := d.readByte()
	if err != nil {
		return AIR, err
	}
	if tag == TagEnd {
		return AIR, nil
	}
	if _, err := d.readNameString(); err != nil {
		return AIR, err
	}
	return d.readPayload(tag)
}

func (d *Decoder) readByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) readI16() (int16, error) {
	var b [2]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b[:])), nil
}

func (d *Decoder) readI32() (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

func (d *Decoder) readI64() (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

func (d *Decoder) readNameString() (string, error) {
	n, err := d.readI16()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("nbt: negative name length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (d *Decoder) readPayload(tag byte) (Value, error) {
	switch tag {
	case TagByte:
		b, err := d.readByte()
		return Byte(int8(b)), err
	case TagShort:
		v, err := d.readI16()
		return Short(v), err
	case TagInt:
		v, err := d.readI32()
		return Int(v), err
	case TagLong:
		v, err := d.readI64()
		return Long(v), err
	case TagFloat:
		v, err := d.readI32()
		return Float(math.Float32frombits(uint32(v))), err
	case TagDouble:
		v, err := d.readI64()
		return Double(math.Float64frombits(uint64(v))), err
	case TagByteArray:
		n, err := d.readI32()
		if err != nil {
			return AIR, err
		}
		if n < 0 {
			return AIR, fmt.Errorf("nbt: negative byte array length %d", n)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return AIR, err
		}
		return ByteArray(buf), nil
	case TagString:
		s, err := d.readNameString()
		return String(s), err
	case TagList:
		return d.readList()
	case TagCompound:
		return d.readCompound()
	case TagIntArray:
		n, err := d.readI32()
		if err != nil {
			return AIR, err
		}
		if n < 0 {
			return AIR, fmt.Errorf("nbt: negative int array length %d", n)
		}
		out := make([]int32, n)
		for i := range out {
			v, err := d.readI32()
			if err != nil {
				return AIR, err
			}
			out[i] = v
		}
		return IntArray(out), nil
	case TagLongArray:
		n, err := d.readI32()
		if err != nil {
			return AIR, err
		}
		if n < 0 {
			return AIR, fmt.Errorf("nbt: negative long array length %d", n)
		}
		out := make([]int64, n)
		for i := range out {
			v, err := d.readI64()
			if err != nil {
				return AIR, err
			}
			out[i] = v
		}
		return LongArray(out), nil
	default:
		return AIR, fmt.Errorf("nbt: unknown tag %d", tag)
	}
}

func (d *Decoder) readList() (Value, error) {
	elementTag, err := d.readByte()
	if err != nil {
		return AIR, err
	}
	n, err := d.readI32()
	if err != nil {
		return AIR, err
	}
	if n < 0 {
		return AIR, fmt.Errorf("nbt: negative list length %d", n)
	}
	items := make([]Value, n)
	for i := range items {
		if elementTag == TagEnd {
			items[i] = AIR
			continue
		}
		v, err := d.readPayload(elementTag)
		if err != nil {
			return AIR, err
		}
		items[i] = v
	}
	return List(elementTag, items), nil
}

func (d *Decoder) readCompound() (Value, error) {
	var entries []CompoundEntry
	for {
		tag, err := d.readByte()
		if err != nil {
			return AIR, err
		}
		if tag == TagEnd {
			break
		}
		name, err := d.readNameString()
		if err != nil {
			return AIR, err
		}
		v, err := d.readPayload(tag)
		if err != nil {
			return AIR, err
		}
		entries = append(entries, CompoundEntry{Name: name, Value: v})
	}
	return Compound(entries), nil
}
