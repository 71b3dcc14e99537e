package state

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// reader walks a buffer whose length was already validated against the
// registry span, so the sequential reads below cannot run past the end.
type reader struct {
	buf []byte
	off int
}

func (r *reader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *reader) address() solana.PublicKey {
	v := solana.PublicKeyFromBytes(r.buf[r.off : r.off+32])
	r.off += 32
	return v
}

// writer builds a buffer field by field. The caller allocates via
// newWriter with the registry span so len(out) is span-exact by
// construction.
type writer struct {
	buf []byte
}

func newWriter(span int) *writer {
	return &writer{buf: make([]byte, 0, span)}
}

func (w *writer) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) address(v solana.PublicKey) {
	w.buf = append(w.buf, v.Bytes()...)
}
