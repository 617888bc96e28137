package ledmap

import (
	"context"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// BatchItem is one image submitted to ConvertBatch. When Err is set the item
// is reported as failed without being converted, which lets callers feed
// decode failures through the same result list.
type BatchItem struct {
	Name  string
	Image image.Image
	Err   error
}

// BatchResult is the outcome for one BatchItem. Exactly one of Image and Err
// is non-nil.
type BatchResult struct {
	Name  string
	Image *ConvertedImage
	Err   error
}

// ConvertBatch converts items concurrently with the same settings.
//
// Results are returned in submission order regardless of completion order.
// A failing item never stops the others. Items not yet started when ctx is
// cancelled fail with ctx.Err(). workers <= 0 uses GOMAXPROCS.
func ConvertBatch(ctx context.Context, items []BatchItem, s Settings, workers int) []BatchResult {
	results := make([]BatchResult, len(items))
	n := len(items)
	if n == 0 {
		return results
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	var next atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				results[i] = convertItem(ctx, items[i], s)
			}
		}()
	}
	wg.Wait()

	return results
}

func convertItem(ctx context.Context, item BatchItem, s Settings) BatchResult {
	r := BatchResult{Name: item.Name}
	if item.Err != nil {
		r.Err = item.Err
		return r
	}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}
	r.Image, r.Err = Convert(item.Name, item.Image, s)
	return r
}
