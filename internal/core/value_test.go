package core

import (
	"math"
	"testing"
)

func TestValueEqualCrossKind(t *testing.T) {
	if IntValue(1).Equal(FloatValue(1.0)) {
		t.Error("int and float of the same magnitude must not compare equal")
	}
}

func TestValueEqualNaNIsDeterministic(t *testing.T) {
	nan := FloatValue(math.NaN())
	if !nan.Equal(nan) {
		t.Error("NaN must compare equal to itself under total-ordering semantics")
	}
}

func TestValueEqualNull(t *testing.T) {
	if !NullValue().Equal(NullValue()) {
		t.Error("null must equal null")
	}
	if NullValue().Equal(IntValue(0)) {
		t.Error("null must not equal zero")
	}
}

func TestAttributeMapEqual(t *testing.T) {
	a := AttributeMap{"mysql.engine": StringValue("InnoDB")}
	b := a.Clone()
	if !a.Equal(b) {
		t.Error("clone must be equal to original")
	}
	b["mysql.engine"] = StringValue("MyISAM")
	if a.Equal(b) {
		t.Error("mutated clone must not be equal")
	}
	if a["mysql.engine"].Str != "InnoDB" {
		t.Error("mutating the clone must not affect the original")
	}
}
