package nbt

import (
	"io"
	"math"
)

// Encoder writes a Value tree as big-endian NBT. It exists so tests can
// synthesize chunk data and push it through the real region/chunk
// decoding pipeline instead of constructing Value trees in place of raw
// bytes; production code never encodes NBT, only reads it.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w for NBT encoding.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes v as a named root tag ("" name), mirroring how region
// chunk payloads are laid out on disk.
func (e *Encoder) Encode(v Value) error {
	if err := e.writeTag(v.Tag, ""); err != nil {
		return err
	}
	return e.writePayload(v)
}

func (e *Encoder) writeTag(tag byte, name string) error {
	if _, err := e.w.Write([]byte{tag}); err != nil {
		return err
	}
	if tag == TagEnd {
		return nil
	}
	return e.writeName(name)
}

func (e *Encoder) writeName(name string) error {
	if err := e.writeI16(int16(len(name))); err != nil {
		return err
	}
	_, err := e.w.Write([]byte(name))
	return err
}

func (e *Encoder) writeI16(n int16) error {
	_, err := e.w.Write([]byte{byte(n >> 8), byte(n)})
	return err
}

func (e *Encoder) writeI32(n int32) error {
	_, err := e.w.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	return err
}

func (e *Encoder) writeI64(n int64) error {
	_, err := e.w.Write([]byte{
		byte(n >> 56), byte(n >> 48), byte(n >> 40), byte(n >> 32),
		byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n),
	})
	return err
}

func (e *Encoder) writePayload(v Value) error {
	switch v.Tag {
	case TagEnd:
		return nil
	case TagByte:
		_, err := e.w.Write([]byte{byte(v.i8)})
		return err
	case TagShort:
		return e.writeI16(v.i16)
	case TagInt:
		return e.writeI32(v.i32)
	case TagLong:
		return e.writeI64(v.i64)
	case TagFloat:
		return e.writeI32(int32(math.Float32bits(v.f32)))
	case TagDouble:
		return e.writeI64(int64(math.Float64bits(v.f64)))
	case TagByteArray:
		if err := e.writeI32(int32(len(v.bytes))); err != nil {
			return err
		}
		_, err := e.w.Write(v.bytes)
		return err
	case TagString:
		return e.writeName(v.str)
	case TagList:
		return e.writeList(v)
	case TagCompound:
		return e.writeCompound(v)
	case TagIntArray:
		if err := e.writeI32(int32(len(v.ints))); err != nil {
			return err
		}
		for _, n := range v.ints {
			if err := e.writeI32(n); err != nil {
				return err
			}
		}
		return nil
	case TagLongArray:
		if err := e.writeI32(int32(len(v.longs))); err != nil {
			return err
		}
		for _, n := range v.longs {
			if err := e.writeI64(n); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (e *Encoder) writeList(v Value) error {
	if _, err := e.w.Write([]byte{v.listTag}); err != nil {
		return err
	}
	if err := e.writeI32(int32(len(v.list))); err != nil {
		return err
	}
	for _, item := range v.list {
		if err := e.writePayload(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeCompound(v Value) error {
	for i, name := range v.names {
		child := v.list[i]
		if err := e.writeTag(child.Tag, name); err != nil {
			return err
		}
		if err := e.writePayload(child); err != nil {
			return err
		}
	}
	_, err := e.w.Write([]byte{TagEnd})
	return err
}
