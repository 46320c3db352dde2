package avmbigint

import (
	"bytes"
	"testing"
)

func TestSerializeRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 127, 128, -128, 255, 256, -256, 32767, 32768, -32768, 1 << 40, -(1 << 40)}
	for _, c := range cases {
		n := NewInt(c)
		enc := n.Serialize()
		got, err := Deserialize(enc)
		if err != nil {
			t.Fatalf("Deserialize(%d) round trip: %v", c, err)
		}
		if got.Cmp(n) != 0 {
			t.Fatalf("round trip mismatch for %d: got %s", c, got.String())
		}
	}
}

func TestSerializeKnownVectors(t *testing.T) {
	cases := []struct {
		n    int64
		want []byte
	}{
		{0, []byte{}},
		{1, []byte{0x01}},
		{-1, []byte{0x81}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x00}},
		{-128, []byte{0x80, 0x80}},
		{255, []byte{0xff, 0x00}},
		{-255, []byte{0xff, 0x80}},
	}
	for _, c := range cases {
		got := NewInt(c.n).Serialize()
		if !bytes.Equal(got, c.want) {
			t.Errorf("Serialize(%d) = % x, want % x", c.n, got, c.want)
		}
	}
}

func TestDeserializeRejectsNonMinimal(t *testing.T) {
	cases := [][]byte{
		{0x00},       // zero should serialize to empty
		{0x00, 0x00}, // padded zero
		{0x00, 0x80}, // negative zero
	}
	for _, c := range cases {
		if _, err := Deserialize(c); err == nil {
			t.Errorf("Deserialize(% x) expected error, got none", c)
		}
	}
}

func TestAndTruncatesToShorterOperand(t *testing.T) {
	a := NewInt(0x0102030405)
	b := NewInt(0xff)
	got := And(a, b)
	want := NewInt(0x05)
	if got.Cmp(want) != 0 {
		t.Errorf("And = %s, want %s", got.String(), want.String())
	}
}

func TestAndNegatesOnlyWhenBothNegative(t *testing.T) {
	a := Neg(NewInt(0x0f))
	b := NewInt(0xff)
	got := And(a, b)
	if got.IsNegative() {
		t.Errorf("And with one negative operand should not be negative, got %s", got.String())
	}

	a2 := Neg(NewInt(0x0f))
	b2 := Neg(NewInt(0xff))
	got2 := And(a2, b2)
	if !got2.IsNegative() {
		t.Errorf("And of two negatives should be negative, got %s", got2.String())
	}
}

func TestOrExtendsToLongerOperand(t *testing.T) {
	a := NewInt(0x0100)
	b := NewInt(0x01)
	got := Or(a, b)
	want := NewInt(0x0101)
	if got.Cmp(want) != 0 {
		t.Errorf("Or = %s, want %s", got.String(), want.String())
	}
}

func TestOrNegatesWhenSignsDiffer(t *testing.T) {
	a := NewInt(0x01)
	b := Neg(NewInt(0x01))
	got := Or(a, b)
	if !got.IsNegative() {
		t.Errorf("Or of differing signs should be negative, got %s", got.String())
	}

	got2 := Or(a, a)
	if got2.IsNegative() {
		t.Errorf("Or of same sign should not be negative, got %s", got2.String())
	}
}

func TestDivModTruncating(t *testing.T) {
	q, err := Div(NewInt(-7), NewInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if q.Cmp(NewInt(-3)) != 0 {
		t.Errorf("Div(-7,2) = %s, want -3", q.String())
	}
	r, err := Mod(NewInt(-7), NewInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if r.Cmp(NewInt(-1)) != 0 {
		t.Errorf("Mod(-7,2) = %s, want -1", r.String())
	}
	if _, err := Div(NewInt(1), Zero()); err != ErrDivideByZero {
		t.Errorf("Div by zero should return ErrDivideByZero, got %v", err)
	}
}

func TestShiftsPreserveSign(t *testing.T) {
	n := Neg(NewInt(4))
	got := Lsh(n, 2)
	if got.Cmp(Neg(NewInt(16))) != 0 {
		t.Errorf("Lsh(-4,2) = %s, want -16", got.String())
	}
	got2 := Rsh(n, 1)
	if got2.Cmp(Neg(NewInt(2))) != 0 {
		t.Errorf("Rsh(-4,1) = %s, want -2", got2.String())
	}
}

func TestLsbAndByteSize(t *testing.T) {
	n := NewInt(0x0102)
	if n.Lsb() != 0x02 {
		t.Errorf("Lsb = %x, want 02", n.Lsb())
	}
	if n.ByteSize() != 2 {
		t.Errorf("ByteSize = %d, want 2", n.ByteSize())
	}
	if Zero().Lsb() != 0 {
		t.Errorf("Lsb of zero should be 0")
	}
}
