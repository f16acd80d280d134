// internal/domain/classifier/classifier.go
package classifier

import (
	"context"
	"fmt"
	"time"
)

// ErrUnavailable is returned when the fallback classifier cannot be reached or
// the service reports it has no credentials. Callers degrade to clarification.
var ErrUnavailable = fmt.Errorf("fallback classifier unavailable")

// Classification is the external classifier's verdict: an intent name from the
// fixed external vocabulary plus any slots it extracted.
type Classification struct {
	Intent string
	Slots  map[string]float64
}

// Classifier is the single-capability escape hatch consulted only when the
// rule router cannot resolve an intent at all: classify or fail.
type Classifier interface {
	Classify(ctx context.Context, question string, today time.Time, priorIntent string) (*Classification, error)
}
