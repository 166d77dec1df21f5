// Package tracking turns order status changes into the step timeline a
// client renders, and fans live updates out to subscribers.
package tracking

import (
	"time"

	"github.com/zaika-app/zaika/app/models"
)

// Step is one entry on the order progress timeline.
type Step struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Active    bool   `json:"active"`
}

var stepLabels = map[string]string{
	models.StatusPending:        "Order Placed",
	models.StatusConfirmed:      "Confirmed",
	models.StatusPreparing:      "Preparing",
	models.StatusOutForDelivery: "Out for Delivery",
	models.StatusDelivered:      "Delivered",
}

// CurrentStepIndex maps a status to its position on the happy path.
// Cancelled and unknown statuses are off the path and return -1.
func CurrentStepIndex(status string) int {
	for i, s := range models.StatusSteps {
		if s == status {
			return i
		}
	}
	return -1
}

// ProjectSteps builds the timeline for an order in the given status.
// Steps up to and including the current one are completed; the current
// one is also marked active.
func ProjectSteps(status string) []Step {
	idx := CurrentStepIndex(status)
	steps := make([]Step, 0, len(models.StatusSteps))
	for i, key := range models.StatusSteps {
		steps = append(steps, Step{
			Key:       key,
			Label:     stepLabels[key],
			Completed: idx >= 0 && i <= idx,
			Active:    idx >= 0 && i == idx,
		})
	}
	return steps
}

// Patch is one tracking update pushed to subscribers. Zero-valued fields
// mean "unchanged"; applying the same patch twice is a no-op.
type Patch struct {
	OrderID            uint       `json:"orderId"`
	Status             string     `json:"status,omitempty"`
	ActualDeliveryTime *time.Time `json:"actualDeliveryTime,omitempty"`
}

// View is the tracking state a client holds for one order.
type View struct {
	OrderID            uint       `json:"orderId"`
	Status             string     `json:"status"`
	Steps              []Step     `json:"steps"`
	ActualDeliveryTime *time.Time `json:"actualDeliveryTime,omitempty"`
}

// NewView projects the initial tracking view for an order.
func NewView(order *models.Order) View {
	return View{
		OrderID:            order.ID,
		Status:             order.Status,
		Steps:              ProjectSteps(order.Status),
		ActualDeliveryTime: order.ActualDeliveryTime,
	}
}

// Apply merges a patch into the view. Patches for other orders and empty
// patches leave the view untouched, so replays are safe.
func (v View) Apply(p Patch) View {
	if p.OrderID != v.OrderID {
		return v
	}
	if p.Status != "" && p.Status != v.Status {
		v.Status = p.Status
		v.Steps = ProjectSteps(p.Status)
	}
	if p.ActualDeliveryTime != nil {
		v.ActualDeliveryTime = p.ActualDeliveryTime
	}
	return v
}
