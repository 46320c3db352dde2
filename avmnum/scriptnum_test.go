package avmnum

import "testing"

func TestFromBytesRoundTrip(t *testing.T) {
	n := FromInt64(123456789)
	enc := n.GetVch()
	got, err := FromBytes(enc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if Cmp(n, got) != 0 {
		t.Errorf("round trip mismatch")
	}
}

func TestFromBytesOverflow(t *testing.T) {
	data := make([]byte, 5)
	data[4] = 0x01
	if _, err := FromBytes(data, 4); err != ErrOverflow {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestGetSizeTypeRejectsNegative(t *testing.T) {
	n := FromInt64(-1)
	if _, err := n.GetSizeType(); err == nil {
		t.Errorf("expected error for negative size")
	}
}

func TestGetIntSaturates(t *testing.T) {
	huge := Mul(FromInt64(9223372036854775807), FromInt64(9223372036854775807))
	if got := huge.GetInt(); got != 2147483647 {
		t.Errorf("GetInt overflow saturation = %d, want max int32", got)
	}
	negHuge := Neg(huge)
	if got := negHuge.GetInt(); got != -2147483648 {
		t.Errorf("GetInt underflow saturation = %d, want min int32", got)
	}
}

func TestArithmeticPromotesOnOverflow(t *testing.T) {
	max := FromInt64(9223372036854775807)
	sum := Add(max, FromInt64(1))
	if sum.IsSmall() {
		t.Errorf("expected promotion to big representation on overflow")
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(FromInt64(1), FromInt64(0)); err == nil {
		t.Errorf("expected error dividing by zero")
	}
}
