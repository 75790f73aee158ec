package shard

import "testing"

func TestHashIsDeterministic(t *testing.T) {
	a := Hash("salt", "", []byte("key"))
	b := Hash("salt", "", []byte("key"))
	if a != b {
		t.Fatalf("Hash not deterministic: %q != %q", a, b)
	}
}

func TestHashDistinguishesDomain(t *testing.T) {
	value := Hash("salt", "", []byte("key"))
	file := Hash("salt", "file", []byte("key"))
	if value == file {
		t.Fatal("value and file domains produced the same hash")
	}
}

func TestHashDistinguishesSalt(t *testing.T) {
	a := Hash("salt1", "", []byte("key"))
	b := Hash("salt2", "", []byte("key"))
	if a == b {
		t.Fatal("different salts produced the same hash")
	}
}

func TestLocateDepthClamped(t *testing.T) {
	hash := Hash("salt", "", []byte("key"))

	dirNeg, _ := Locate("/root", hash, -1)
	dirZero, _ := Locate("/root", hash, 0)
	if dirNeg != dirZero {
		t.Fatalf("negative depth should clamp to 0: %q != %q", dirNeg, dirZero)
	}

	dirBig, _ := Locate("/root", hash, 99)
	dirMax, _ := Locate("/root", hash, MaxDepth)
	if dirBig != dirMax {
		t.Fatalf("depth above MaxDepth should clamp: %q != %q", dirBig, dirMax)
	}
}

func TestLocateProducesNestedShardDirs(t *testing.T) {
	hash := Hash("salt", "", []byte("key"))
	dir, base := Locate("/root", hash, 2)
	want := "/root/" + hash[0:2] + "/" + hash[2:4]
	if dir != want {
		t.Fatalf("dir = %q, want %q", dir, want)
	}
	if base != hash {
		t.Fatalf("base = %q, want %q", base, hash)
	}
}

func TestPathAppendsSuffix(t *testing.T) {
	p := Path("/root/ab", "deadbeef", ".php")
	if p != "/root/ab/deadbeef.php" {
		t.Fatalf("Path = %q", p)
	}
}
