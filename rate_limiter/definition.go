package rate_limiter

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/time/rate"
)

type Definition struct {
	// the limiter name
	Name string
	// the file open rate; 0 means unlimited
	FillRate   rate.Limit
	BucketSize int64
	// the max number of tasks running at once; 0 means unlimited
	MaxConcurrency int64
}

// NewDefinition builds a definition from the reader settings.
func NewDefinition(name string, maxConcurrency int, filesPerSecond float64) *Definition {
	d := &Definition{
		Name:           name,
		MaxConcurrency: int64(maxConcurrency),
	}
	if filesPerSecond > 0 {
		d.FillRate = rate.Limit(filesPerSecond)
		// allow a burst of at least one file
		d.BucketSize = int64(math.Max(1, math.Ceil(filesPerSecond)))
	}
	return d
}

func (d *Definition) String() string {
	limiterString := "Limit(/s): unlimited"
	concurrencyString := "MaxConcurrency: unlimited"
	if d.FillRate > 0 {
		limiterString = fmt.Sprintf("Limit(/s): %v, Burst: %d", d.FillRate, d.BucketSize)
	}
	if d.MaxConcurrency > 0 {
		concurrencyString = fmt.Sprintf("MaxConcurrency: %d", d.MaxConcurrency)
	}
	return strings.Join([]string{limiterString, concurrencyString}, " ")
}

func (d *Definition) Validate() []string {
	var validationErrors []string
	if d.Name == "" {
		validationErrors = append(validationErrors, "rate limiter definition must specify a name")
	}
	if d.FillRate < 0 {
		validationErrors = append(validationErrors, "rate limiter fill rate must not be negative")
	}
	if d.FillRate > 0 && d.BucketSize <= 0 {
		validationErrors = append(validationErrors, "rate limiter with a fill rate must have a bucket size")
	}
	if d.MaxConcurrency < 0 {
		validationErrors = append(validationErrors, "rate limiter max concurrency must not be negative")
	}
	return validationErrors
}
