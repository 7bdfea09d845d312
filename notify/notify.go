// Package notify delivers new-report alerts to the authorities picked by the
// geospatial lookup. Delivery is best effort: a failed recipient is recorded
// and skipped, never bubbled up to the creation pipeline.
package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/patil-piyush/OceanGuard/geo"
	"github.com/patil-piyush/OceanGuard/models"
)

// Notifier sends one message to one contact address.
type Notifier interface {
	Send(ctx context.Context, contact, subject, body string) error
}

// Delivery is the per-recipient outcome of a fan-out.
type Delivery struct {
	AuthorityID string
	Contact     string
	Delivered   bool
	Err         error
}

// perRecipientTimeout bounds each delivery attempt independently.
const perRecipientTimeout = 10 * time.Second

// Fanout notifies every candidate concurrently and returns the per-recipient
// outcomes. The report is already committed when this runs; failures here do
// not unnotify anyone, a failed recipient can still act on the report via the
// pending view.
func Fanout(ctx context.Context, n Notifier, report *models.Report, candidates []geo.Candidate) []Delivery {
	if n == nil || len(candidates) == 0 {
		return nil
	}

	subject, body := composeAlert(report)

	results := make([]Delivery, len(candidates))
	var wg sync.WaitGroup
	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, cand geo.Candidate) {
			defer wg.Done()

			sctx, cancel := context.WithTimeout(ctx, perRecipientTimeout)
			defer cancel()

			err := n.Send(sctx, cand.Authority.Email, subject, body)
			results[i] = Delivery{
				AuthorityID: cand.Authority.ID.Hex(),
				Contact:     cand.Authority.Email,
				Delivered:   err == nil,
				Err:         err,
			}
			if err != nil {
				log.Printf("notify: delivery to %s failed: %v", cand.Authority.Email, err)
			}
		}(i, cand)
	}
	wg.Wait()
	return results
}

func composeAlert(report *models.Report) (subject, body string) {
	label := "Marine debris"
	if report.Category == models.CategoryOilSpill {
		label = "Oil spill"
	}
	subject = fmt.Sprintf("%s reported near (%.4f, %.4f)", label, report.Lat, report.Lng)

	body = fmt.Sprintf(
		"A new %s report needs a response team.\n\nLocation: (%f, %f)\nImage: %s\nForecast steps: %d\n\nLog in to OceanGuard to accept the request.\n",
		label, report.Lat, report.Lng, report.ImageURL, len(report.PredictedPath),
	)
	return subject, body
}
