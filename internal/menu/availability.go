package menu

import (
	"sort"

	"github.com/maishenyun/stockboard/internal/domain"
)

// AvailabilityStatus is the overall verdict for a menu against stock.
type AvailabilityStatus string

const (
	StatusOK       AvailabilityStatus = "ok"
	StatusWarning  AvailabilityStatus = "warning"
	StatusCritical AvailabilityStatus = "critical"
)

// Shortage severities.
const (
	SeverityCritical = "critical"
	SeverityModerate = "moderate"
)

// Shortage is a requirement the current stock cannot cover.
type Shortage struct {
	Ingredient string  `json:"ingredient"`
	Required   float64 `json:"required"`
	Available  float64 `json:"available"`
	Shortage   float64 `json:"shortage"`
	Severity   string  `json:"severity"`
}

// BufferWarning is a requirement that is covered with less than a 20% margin.
type BufferWarning struct {
	Ingredient string  `json:"ingredient"`
	Required   float64 `json:"required"`
	Available  float64 `json:"available"`
	Buffer     float64 `json:"buffer"`
}

// Availability is the result of checking requirements against stock.
type Availability struct {
	Status   AvailabilityStatus `json:"status"`
	Issues   []Shortage         `json:"issues"`
	Warnings []BufferWarning    `json:"warnings"`
}

const bufferFactor = 1.2

// Availability checks each requirement against current stock. Stocks are
// keyed by normalized ingredient name; requirements with no stock record are
// skipped since there is nothing to compare against. A shortage above half
// the requirement is critical, a covered requirement with under 20% slack is
// a warning.
func (p *Planner) Availability(reqs []Requirement, stocks map[string]float64) Availability {
	out := Availability{Status: StatusOK}

	for _, req := range reqs {
		available, ok := stocks[domain.NormalizeName(req.Ingredient)]
		if !ok {
			continue
		}
		switch {
		case available < req.Quantity:
			shortage := req.Quantity - available
			severity := SeverityModerate
			if shortage > req.Quantity*0.5 {
				severity = SeverityCritical
			}
			out.Issues = append(out.Issues, Shortage{
				Ingredient: req.Ingredient,
				Required:   req.Quantity,
				Available:  available,
				Shortage:   shortage,
				Severity:   severity,
			})
		case available < req.Quantity*bufferFactor:
			out.Warnings = append(out.Warnings, BufferWarning{
				Ingredient: req.Ingredient,
				Required:   req.Quantity,
				Available:  available,
				Buffer:     available - req.Quantity,
			})
		}
	}

	sort.Slice(out.Issues, func(i, j int) bool {
		if out.Issues[i].Shortage != out.Issues[j].Shortage {
			return out.Issues[i].Shortage > out.Issues[j].Shortage
		}
		return out.Issues[i].Ingredient < out.Issues[j].Ingredient
	})
	sort.Slice(out.Warnings, func(i, j int) bool {
		if out.Warnings[i].Buffer != out.Warnings[j].Buffer {
			return out.Warnings[i].Buffer < out.Warnings[j].Buffer
		}
		return out.Warnings[i].Ingredient < out.Warnings[j].Ingredient
	})

	switch {
	case len(out.Issues) > 0:
		out.Status = StatusCritical
	case len(out.Warnings) > 0:
		out.Status = StatusWarning
	}
	return out
}
