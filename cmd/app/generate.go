package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"

	"github.com/starford/sowilo/internal/music"
	"github.com/starford/sowilo/internal/service"
	"github.com/starford/sowilo/internal/storage"
)

type exportedFile struct {
	Path     string
	Size     int
	Notes    int
	Duration time.Duration
}

var formatFiles = map[string]string{
	service.FormatJSON: music.ExportFilename,
	service.FormatMIDI: music.MIDIFilename,
	service.FormatWAV:  music.WAVFilename,
}

// numbered returns name unchanged for a single export, otherwise with a
// 1-based index before the extension.
func numbered(name string, i, count int) string {
	if count <= 1 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(name, ext), i+1, ext)
}

// exportBatch generates count sequences and writes each in every requested
// format, running at most workers generations at once.
func exportBatch(ctx context.Context, svc *service.Service, store storage.Provider,
	style string, length, count, workers int, formats []string,
) ([]exportedFile, error) {
	var (
		mu      sync.Mutex
		files   []exportedFile
		errs    []error
		swg     = sizedwaitgroup.New(max(workers, 1))
		results = make([][]exportedFile, count)
	)

	for i := 0; i < count; i++ {
		swg.Add()
		go func(i int) {
			defer swg.Done()
			out, err := exportOne(ctx, svc, store, style, length, i, count, formats)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			results[i] = out
		}(i)
	}
	swg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}
	for _, r := range results {
		files = append(files, r...)
	}
	return files, nil
}

func exportOne(ctx context.Context, svc *service.Service, store storage.Provider,
	style string, length, i, count int, formats []string,
) ([]exportedFile, error) {
	gen, err := svc.Generate(ctx, style, length)
	if err != nil {
		return nil, err
	}
	total := music.Schedule(gen.Notes).TotalDuration()

	out := make([]exportedFile, 0, len(formats))
	for _, f := range formats {
		var buf bytes.Buffer
		if err := svc.Encode(&buf, f, gen.Style, gen.Notes); err != nil {
			return nil, err
		}
		name := numbered(formatFiles[f], i, count)
		if err := store.Write(name, buf.Bytes()); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		out = append(out, exportedFile{Path: name, Size: buf.Len(), Notes: len(gen.Notes), Duration: total})
	}
	return out, nil
}
