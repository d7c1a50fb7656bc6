/*
Package scan decodes every image found under a directory concurrently.
*/
package scan

import (
	"context"
	"errors"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bodgit/shades"
	"github.com/bodgit/shades/image"
)

const workers = 10

var extensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
}

// Result is the outcome of decoding one image.
type Result struct {
	File    string
	Message string
	Err     error
}

// Scanner decodes directories of images.
type Scanner struct {
	decoder *shades.Decoder
	logger  *log.Logger
}

// New returns a Scanner decoding with d, which may be nil for the default
// settings, and reporting progress to logger, which may also be nil.
func New(d *shades.Decoder, logger *log.Logger) *Scanner {
	if d == nil {
		d = new(shades.Decoder)
	}
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Scanner{
		decoder: d,
		logger:  logger,
	}
}

func (s *Scanner) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if _, ok := extensions[strings.ToLower(filepath.Ext(file))]; !ok {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (s *Scanner) decodeFile(file, key string) Result {
	f, err := os.Open(file)
	if err != nil {
		return Result{File: file, Err: err}
	}
	defer f.Close()

	message, err := image.DecodeMessage(f, key, s.decoder)
	if err != nil {
		s.logger.Printf("No message in \"%s\": %v\n", file, err)
	}

	return Result{File: file, Message: message, Err: err}
}

func (s *Scanner) imageWorker(ctx context.Context, key string, in <-chan string, out chan<- Result, wg *sync.WaitGroup) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer wg.Done()
		for file := range in {
			r := s.decodeFile(file, key)

			var pe *os.PathError
			if errors.As(r.Err, &pe) {
				errc <- r.Err
				return
			}

			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan decodes every image under path using key. A file that is not a
// valid grid is reported in its Result; failing to walk or read the
// directory aborts the scan. Results are sorted by file name.
func (s *Scanner) Scan(path, key string) ([]Result, error) {
	if key == "" {
		return nil, shades.ErrEmptyKey
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := s.findImages(ctx, dir)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	results := make(chan Result)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		errc, err := s.imageWorker(ctx, key, files, results, &wg)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	done := make(chan []Result, 1)
	go func() {
		var rs []Result
		for r := range results {
			rs = append(rs, r)
		}
		done <- rs
	}()

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	rs := <-done
	sort.Slice(rs, func(i, j int) bool { return rs[i].File < rs[j].File })

	return rs, nil
}
