package ledmap

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConvert_Errors(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))

	if _, err := Convert("none", nil, gridSettings(8)); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil image: got %v, want ErrEmptyImage", err)
	}
	if _, err := Convert("empty", empty, gridSettings(8)); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("0x0 image: got %v, want ErrEmptyImage", err)
	}
	// Settings are checked before the image.
	if _, err := Convert("both", empty, gridSettings(0)); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("bad settings: got %v, want ErrInvalidSettings", err)
	}
}

func TestConvert_DoesNotModifyInput(t *testing.T) {
	img := leftHalfBlack()
	before := append([]uint8(nil), img.Pix...)

	if _, err := Convert("x", img, polarSettings(8, 12)); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if _, err := Convert("x", img, gridSettings(7)); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if diff := cmp.Diff(before, img.Pix); diff != "" {
		t.Error("source pixels changed")
	}
}

func TestTotalBytes(t *testing.T) {
	g, err := Convert("g", solidImage(3, 3, white), gridSettings(10))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if g.TotalBytes != 20 {
		t.Errorf("grid 10x10: got %d, want 20", g.TotalBytes)
	}

	p, err := Convert("p", solidImage(3, 3, white), polarSettings(72, 150))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if p.TotalBytes != 1350 {
		t.Errorf("polar 72x150: got %d, want 1350", p.TotalBytes)
	}
	if n := len(p.Packed()); n != 150 {
		t.Errorf("Packed lines: got %d, want 150", n)
	}
}

func TestConvertBatch_OrderAndIsolation(t *testing.T) {
	decodeErr := errors.New("decode failed")

	var items []BatchItem
	for i := 0; i < 10; i++ {
		item := BatchItem{Name: fmt.Sprintf("img%d", i), Image: solidImage(4+i, 4, black)}
		switch i {
		case 3:
			item.Image = nil
		case 6:
			item.Err = decodeErr
		}
		items = append(items, item)
	}

	results := ConvertBatch(context.Background(), items, gridSettings(4), 3)
	if len(results) != len(items) {
		t.Fatalf("results: got %d, want %d", len(results), len(items))
	}

	for i, r := range results {
		if r.Name != items[i].Name {
			t.Errorf("result %d: name %s, want %s", i, r.Name, items[i].Name)
		}
		switch i {
		case 3:
			if !errors.Is(r.Err, ErrEmptyImage) || r.Image != nil {
				t.Errorf("result 3: got %v, want ErrEmptyImage", r.Err)
			}
		case 6:
			if !errors.Is(r.Err, decodeErr) || r.Image != nil {
				t.Errorf("result 6: got %v, want decode error", r.Err)
			}
		default:
			if r.Err != nil || r.Image == nil {
				t.Errorf("result %d: unexpected error %v", i, r.Err)
				continue
			}
			// Each result matches a standalone conversion.
			want, _ := Convert(items[i].Name, items[i].Image, gridSettings(4))
			if diff := cmp.Diff(want, r.Image); diff != "" {
				t.Errorf("result %d differs from Convert (-want +got):\n%s", i, diff)
			}
		}
	}
}

func TestConvertBatch_InvalidSettings(t *testing.T) {
	items := []BatchItem{
		{Name: "a", Image: solidImage(4, 4, black)},
		{Name: "b", Image: solidImage(4, 4, white)},
	}
	results := ConvertBatch(context.Background(), items, polarSettings(5, 10), 0)
	for i, r := range results {
		if !errors.Is(r.Err, ErrInvalidSettings) {
			t.Errorf("result %d: got %v, want ErrInvalidSettings", i, r.Err)
		}
	}
}

func TestConvertBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []BatchItem{
		{Name: "a", Image: solidImage(4, 4, black)},
		{Name: "b", Image: solidImage(4, 4, white)},
	}
	results := ConvertBatch(ctx, items, gridSettings(4), 2)
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d: got %v, want context.Canceled", i, r.Err)
		}
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	if got := ConvertBatch(context.Background(), nil, gridSettings(4), 4); len(got) != 0 {
		t.Errorf("got %d results, want 0", len(got))
	}
}
