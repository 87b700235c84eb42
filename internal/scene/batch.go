package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/san-kum/attnviz/internal/config"
	"github.com/san-kum/attnviz/internal/timeline"
)

// Job is one scene rendered onto its own target.
type Job struct {
	Scene  Scene
	Config *config.Config
	Target timeline.Renderer
}

// RenderBatch renders every job concurrently. Each job runs its own
// timeline; jobs must not share a target. Results are returned in job order,
// and the error joins every failed job.
func RenderBatch(jobs []Job, log *slog.Logger) ([]Result, error) {
	results := make([]Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()
			results[idx], errs[idx] = Render(job.Scene, job.Config, job.Target, log)
		}(i, job)
	}
	wg.Wait()

	var failed []error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Errorf("job %d: %w", i, err))
		}
	}
	return results, errors.Join(failed...)
}
