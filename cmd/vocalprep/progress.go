package main

import (
	"sync"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// splitBars draws one progress bar per split. Bars are created on the
// first callback, once the number of candidates is known.
type splitBars struct {
	mu   sync.Mutex
	p    *mpb.Progress
	bars map[string]*mpb.Bar
}

func newSplitBars() *splitBars {
	return &splitBars{
		p:    mpb.New(mpb.WithWidth(64)),
		bars: make(map[string]*mpb.Bar),
	}
}

func (s *splitBars) Progress(split string) dataset.Progress {
	return func(done, total int) {
		s.mu.Lock()
		bar, ok := s.bars[split]
		if !ok {
			bar = s.p.AddBar(int64(total),
				mpb.PrependDecorators(
					decor.Name(split+": "),
					decor.CountersNoUnit("%d / %d"),
				),
				mpb.AppendDecorators(
					decor.Percentage(),
					decor.Elapsed(decor.ET_STYLE_GO),
				),
			)
			s.bars[split] = bar
		}
		s.mu.Unlock()
		bar.SetCurrent(int64(done))
	}
}

// Wait stops unfinished bars (a failed split) and waits for rendering.
func (s *splitBars) Wait() {
	s.mu.Lock()
	for _, bar := range s.bars {
		if !bar.Completed() {
			bar.Abort(false)
		}
	}
	s.mu.Unlock()
	s.p.Wait()
}
