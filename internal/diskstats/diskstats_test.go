package diskstats

import "testing"

func TestStatReportsNonZeroForExistingPath(t *testing.T) {
	avail, total := Stat(t.TempDir())
	if total == 0 {
		t.Fatal("expected non-zero total bytes for an existing filesystem path")
	}
	if avail > total {
		t.Fatalf("avail (%d) > total (%d)", avail, total)
	}
}
