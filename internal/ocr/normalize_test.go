package ocr

import "testing"

func TestNormalize(t *testing.T) {
	in := "Order\t#  123\r\n----------\r\nItem   one   \n\n\n\nItem two  "
	want := "Order # 123\n\nItem one\n\nItem two"
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("Normalize(\"\") = %q", got)
	}
}
