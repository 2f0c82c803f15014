package sse

import (
	"reflect"
	"testing"
)

const sampleStream = "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\n" +
	"data: {\"choices\":[{\"delta\":{\"content\":\" thére ⚡\"}}]}\n\n" +
	"data: [DONE]\n\n"

var samplePayloads = []string{
	`{"choices":[{"delta":{"content":"Hi"}}]}`,
	"{\"choices\":[{\"delta\":{\"content\":\" thére ⚡\"}}]}",
}

func collectFeeds(f *Framer, chunks [][]byte) []string {
	var out []string
	for _, c := range chunks {
		out = append(out, f.Feed(c)...)
	}
	out = append(out, f.Finish()...)
	return out
}

func TestFramerSingleChunk(t *testing.T) {
	var f Framer
	got := collectFeeds(&f, [][]byte{[]byte(sampleStream)})
	if !reflect.DeepEqual(got, samplePayloads) {
		t.Errorf("payloads = %q, want %q", got, samplePayloads)
	}
	if !f.Done() {
		t.Error("expected framer to be done after sentinel")
	}
}

// Re-chunking the byte stream must never change the emitted payloads, even
// when a split lands inside the record delimiter or inside a multi-byte
// character.
func TestFramerChunkBoundaryInvariance(t *testing.T) {
	raw := []byte(sampleStream)

	t.Run("every split point", func(t *testing.T) {
		for cut := 1; cut < len(raw); cut++ {
			var f Framer
			got := collectFeeds(&f, [][]byte{raw[:cut], raw[cut:]})
			if !reflect.DeepEqual(got, samplePayloads) {
				t.Fatalf("split at %d: payloads = %q, want %q", cut, got, samplePayloads)
			}
		}
	})

	t.Run("byte at a time", func(t *testing.T) {
		var f Framer
		var chunks [][]byte
		for i := range raw {
			chunks = append(chunks, raw[i:i+1])
		}
		got := collectFeeds(&f, chunks)
		if !reflect.DeepEqual(got, samplePayloads) {
			t.Errorf("payloads = %q, want %q", got, samplePayloads)
		}
	})
}

func TestFramerSplitRuneNeverDecodedEarly(t *testing.T) {
	record := "data: café\n\n"
	raw := []byte(record)

	// Split inside the two-byte e-acute sequence.
	splitAt := len("data: caf") + 1
	var f Framer
	got := collectFeeds(&f, [][]byte{raw[:splitAt], raw[splitAt:]})
	want := []string{"café"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("payloads = %q, want %q", got, want)
	}
}

func TestFramerMalformedSegmentSkipped(t *testing.T) {
	var f Framer
	stream := "event: ping\n\ndata: ok\n\nnonsense\n\ndata: more\n\n"
	got := collectFeeds(&f, [][]byte{[]byte(stream)})
	want := []string{"ok", "more"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("payloads = %q, want %q", got, want)
	}
}

func TestFramerSentinelDiscardsRemainder(t *testing.T) {
	var f Framer
	stream := "data: a\n\ndata: [DONE]\n\ndata: b\n\n"
	got := f.Feed([]byte(stream))
	want := []string{"a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("payloads = %q, want %q", got, want)
	}
	if !f.Done() {
		t.Fatal("expected framer done after sentinel")
	}
	if extra := f.Feed([]byte("data: c\n\n")); extra != nil {
		t.Errorf("Feed after sentinel = %q, want nil", extra)
	}
	if extra := f.Finish(); extra != nil {
		t.Errorf("Finish after sentinel = %q, want nil", extra)
	}
}

func TestFramerFinishFlushesTrailingRecord(t *testing.T) {
	var f Framer
	if got := f.Feed([]byte("data: tail")); len(got) != 0 {
		t.Fatalf("incomplete record emitted early: %q", got)
	}
	got := f.Finish()
	want := []string{"tail"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("payloads = %q, want %q", got, want)
	}
	if !f.Done() {
		t.Error("expected framer done after Finish")
	}
}

func TestFramerPayloadTrimmed(t *testing.T) {
	var f Framer
	got := f.Feed([]byte("data:  padded \n\n"))
	if len(got) != 1 || got[0] != "padded" {
		t.Errorf("payloads = %q, want [padded]", got)
	}
}
