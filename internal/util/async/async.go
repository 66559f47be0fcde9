package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a named operation run by RunAll.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunAll executes all tasks concurrently and waits for them to finish.
// Every failure is wrapped with its task name and joined into the
// returned error, in task order. A nil return means all tasks succeeded.
func RunAll(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := task.Func(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", task.Name, err)
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}
